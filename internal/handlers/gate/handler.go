package gate

import (
	"net/http"
	"parkpulse/infras/otel"
	"parkpulse/internal/domains/booking/model/dto"
	"parkpulse/internal/domains/booking/service"
	"parkpulse/shared/constant"
	"parkpulse/shared/validator"
	"parkpulse/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Handler serves the gate hardware endpoints. Requests authenticate
// with the service API key rather than a user token.
type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/gate", func(routerGroup chi.Router) {
		routerGroup.Post("/verify", handler.VerifyBooking)
	})
}

// VerifyBooking validates a booking token at the gate and advances the
// booking to checked in or completed.
// @Summary Verify a booking at the gate
// @Description Validate a booking verification token and record entry or exit.
// @Tags Gate
// @Accept json
// @Produce json
// @Param request body dto.VerifyGateRequest true "Verify Gate Request"
// @Success 200 {object} dto.VerifyGateResponse "Booking verified successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/gate/verify [post]
// @Security ApiKeyAuth
func (handler *Handler) VerifyBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".VerifyBooking")
	defer scope.End()

	req := dto.VerifyGateRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Verify(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to verify booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking " + req.BookingID + " verified at gate: " + res.Action)

	response.WithJSON(writer, http.StatusOK, res)
}

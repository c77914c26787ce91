package pricing

import (
	"net/http"
	"parkpulse/infras/otel"
	"parkpulse/internal/domains/pricing/model/dto"
	"parkpulse/internal/domains/pricing/service"
	"parkpulse/shared/constant"
	"parkpulse/shared/validator"
	"parkpulse/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Pricing
	otel    otel.Otel
}

func New(service service.Pricing, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/pricing", func(routerGroup chi.Router) {
		routerGroup.Post("/quote", handler.QuotePrice)
	})
}

// QuotePrice prices a hypothetical stay at a lot.
// @Summary Quote a parking price
// @Description Price a stay at a lot for a vehicle class and duration using the current occupancy snapshot.
// @Tags Pricing
// @Accept json
// @Produce json
// @Param request body dto.QuoteRequest true "Quote Request"
// @Success 200 {object} dto.QuoteResponse "Price quote"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/pricing/quote [post]
func (handler *Handler) QuotePrice(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".QuotePrice")
	defer scope.End()

	req := dto.QuoteRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Quote(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("lotID", req.LotID).Msg("failed to quote price")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Price quoted successfully for lot " + req.LotID)

	response.WithJSON(writer, http.StatusOK, res)
}

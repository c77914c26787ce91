package occupancy

import (
	"net/http"
	"parkpulse/infras/otel"
	"parkpulse/internal/domains/occupancy/model"
	"parkpulse/internal/domains/occupancy/model/dto"
	"parkpulse/internal/domains/occupancy/service"
	"parkpulse/shared/constant"
	"parkpulse/shared/validator"
	"parkpulse/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Occupancy
	otel    otel.Otel
}

func New(service service.Occupancy, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/occupancy", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.RecordOccupancy)
		routerGroup.Get("/{lotID}", handler.GetLatestOccupancy)
	})
}

// RecordOccupancy ingests an occupancy reading from a gateway.
// @Summary Record an occupancy reading
// @Description Record an occupancy reading for a parking lot.
// @Tags Occupancy
// @Accept json
// @Produce json
// @Param request body dto.LogOccupancyRequest true "Log Occupancy Request"
// @Success 201 {object} response.Message "Occupancy recorded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/occupancy [post]
// @Security ApiKeyAuth
func (handler *Handler) RecordOccupancy(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".RecordOccupancy")
	defer scope.End()

	req := dto.LogOccupancyRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Record(ctx, req, model.SourceGateway); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("lotID", req.LotID).Msg("failed to record occupancy")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Occupancy recorded successfully for lot " + req.LotID)

	response.WithMessage(writer, http.StatusCreated, "Occupancy recorded successfully")
}

// GetLatestOccupancy retrieves the latest occupancy reading for a lot.
// @Summary Get the latest occupancy for a lot
// @Description Retrieve the most recent occupancy reading for a parking lot, falling back to live slot status.
// @Tags Occupancy
// @Accept json
// @Produce json
// @Param lotID path string true "Lot ID"
// @Success 200 {object} dto.OccupancyResponse "Latest occupancy reading"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/occupancy/{lotID} [get]
func (handler *Handler) GetLatestOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLatestOccupancy")
	defer scope.End()

	lotID := chi.URLParam(r, "lotID")

	res, err := handler.service.Latest(ctx, lotID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("lotID", lotID).Msg("failed to get latest occupancy")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Latest occupancy retrieved successfully for lot " + lotID)

	response.WithJSON(w, http.StatusOK, res)
}

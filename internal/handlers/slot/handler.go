package slot

import (
	"net/http"
	"parkpulse/infras/otel"
	"parkpulse/internal/domains/slot/model"
	"parkpulse/internal/domains/slot/model/dto"
	"parkpulse/internal/domains/slot/service"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/validator"
	"parkpulse/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Slot
	otel    otel.Otel
}

func New(service service.Slot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/slots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateSlot)
		routerGroup.Post("/bulk", handler.CreateSlots)
		routerGroup.Get("/", handler.GetSlots)
		routerGroup.Get("/{id}", handler.GetSlotByID)
		routerGroup.Patch("/{id}", handler.UpdateSlot)
		routerGroup.Delete("/{id}", handler.DeleteSlot)
	})
}

// CreateSlot handles the creation of a single parking slot.
// @Summary Create a parking slot
// @Description Create a parking slot within a lot owned by the authenticated user.
// @Tags Slot
// @Accept json
// @Produce json
// @Param request body dto.CreateSlotRequest true "Create Slot Request"
// @Success 201 {object} dto.SlotResponse "Parking slot created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [post]
// @Security BearerAuth
func (handler *Handler) CreateSlot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlot")
	defer scope.End()

	req := dto.CreateSlotRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create slot")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking slot created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// CreateSlots handles bulk creation of parking slots for a lot.
// @Summary Create parking slots in bulk
// @Description Create multiple parking slots within a lot in a single request.
// @Tags Slot
// @Accept json
// @Produce json
// @Param request body dto.BulkCreateSlotsRequest true "Bulk Create Slots Request"
// @Success 201 {object} dto.GetSlotsResponse "Parking slots created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/bulk [post]
// @Security BearerAuth
func (handler *Handler) CreateSlots(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateSlots")
	defer scope.End()

	req := dto.BulkCreateSlotsRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.CreateBulk(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create slots")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking slots created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetSlots retrieves parking slots based on query parameters.
// @Summary Get parking slots
// @Description Retrieve parking slots with optional filtering and pagination.
// @Tags Slot
// @Accept json
// @Produce json
// @Param lot_id query string false "Filter by lot ID"
// @Param vehicle_class query string false "Filter by vehicle class"
// @Param status query string false "Filter by slot status"
// @Success 200 {object} dto.GetSlotsResponse "List of parking slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [get]
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldLotID, model.FieldVehicleClass, model.FieldStatus} {
		if value := r.URL.Query().Get(field); value != constant.Empty {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	slots, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Parking slots retrieved successfully")

	response.WithJSON(w, http.StatusOK, slots)
}

// GetSlotByID retrieves a parking slot by its ID.
// @Summary Get a parking slot by ID
// @Description Retrieve a parking slot by its unique identifier.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} dto.SlotResponse "Parking slot details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [get]
func (handler *Handler) GetSlotByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	slot, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slot by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Parking slot retrieved successfully")

	response.WithJSON(w, http.StatusOK, slot)
}

// UpdateSlot updates an existing parking slot by its ID.
// @Summary Update a parking slot by ID
// @Description Update the details of an existing parking slot.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param request body dto.UpdateSlotRequest true "Update Slot Request"
// @Success 200 {object} response.Message "Parking slot updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateSlotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking slot updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Parking slot updated successfully")
}

// DeleteSlot deactivates a parking slot by its ID.
// @Summary Deactivate a parking slot by ID
// @Description Deactivate a parking slot so it no longer accepts bookings.
// @Tags Slot
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Success 200 {object} response.Message "Parking slot deactivated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteSlot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete slot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking slot deactivated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Parking slot deactivated successfully")
}

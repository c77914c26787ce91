package lot

import (
	"net/http"
	"parkpulse/infras/otel"
	"parkpulse/internal/domains/lot/model"
	"parkpulse/internal/domains/lot/model/dto"
	"parkpulse/internal/domains/lot/service"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/failure"
	"parkpulse/shared/validator"
	"parkpulse/transport/http/response"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const defaultSearchRadiusKm = 5.0

type Handler struct {
	service service.Lot
	otel    otel.Otel
}

func New(service service.Lot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/lots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateLot)
		routerGroup.Get("/", handler.GetLots)
		routerGroup.Get("/search", handler.SearchLots)
		routerGroup.Get("/{id}", handler.GetLotByID)
		routerGroup.Patch("/{id}", handler.UpdateLot)
		routerGroup.Post("/{id}/photos", handler.UploadPhoto)
		routerGroup.Delete("/{id}/photos", handler.DeletePhoto)
	})
}

// CreateLot handles the registration of a new parking lot.
// @Summary Register a new parking lot
// @Description Register a new parking lot owned by the authenticated user.
// @Tags Lot
// @Accept json
// @Produce json
// @Param request body dto.CreateLotRequest true "Create Lot Request"
// @Success 201 {object} dto.LotResponse "Parking lot created successfully"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lots [post]
// @Security BearerAuth
func (handler *Handler) CreateLot(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateLot")
	defer scope.End()

	req := dto.CreateLotRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create lot")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking lot created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetLots retrieves parking lots based on query parameters.
// @Summary Get parking lots
// @Description Retrieve parking lots with optional filtering and pagination.
// @Tags Lot
// @Accept json
// @Produce json
// @Param city query string false "Filter by city"
// @Param lot_type query string false "Filter by lot type"
// @Success 200 {object} dto.GetLotsResponse "List of parking lots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lots [get]
func (handler *Handler) GetLots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLots")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldCity,
				Operator: gDto.FilterOperatorLike,
				Value:    r.URL.Query().Get(model.FieldCity),
				Table:    model.TableName,
			},
		},
	}

	if lotType := r.URL.Query().Get(model.FieldLotType); lotType != constant.Empty {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldLotType,
			Operator: gDto.FilterOperatorEq,
			Value:    lotType,
			Table:    model.TableName,
		})
	}

	lots, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get lots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Parking lots retrieved successfully")

	response.WithJSON(w, http.StatusOK, lots)
}

// SearchLots finds active lots near a coordinate.
// @Summary Search parking lots by location
// @Description Find active parking lots within a radius of a coordinate, nearest first.
// @Tags Lot
// @Accept json
// @Produce json
// @Param latitude query number true "Latitude"
// @Param longitude query number true "Longitude"
// @Param radius_km query number false "Search radius in kilometers (default 5)"
// @Success 200 {object} dto.SearchLotsResponse "Nearby parking lots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lots/search [get]
func (handler *Handler) SearchLots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchLots")
	defer scope.End()

	latitude, err := strconv.ParseFloat(r.URL.Query().Get("latitude"), 64)
	if err != nil {
		response.WithError(w, failure.BadRequestFromString("latitude must be a valid number"))

		return
	}

	longitude, err := strconv.ParseFloat(r.URL.Query().Get("longitude"), 64)
	if err != nil {
		response.WithError(w, failure.BadRequestFromString("longitude must be a valid number"))

		return
	}

	radiusKm := defaultSearchRadiusKm

	if raw := r.URL.Query().Get("radius_km"); raw != constant.Empty {
		radiusKm, err = strconv.ParseFloat(raw, 64)
		if err != nil || radiusKm <= 0 {
			response.WithError(w, failure.BadRequestFromString("radius_km must be a positive number"))

			return
		}
	}

	lots, err := handler.service.Search(ctx, latitude, longitude, radiusKm)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search lots")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Parking lots searched successfully")

	response.WithJSON(w, http.StatusOK, lots)
}

// GetLotByID retrieves a parking lot by its ID.
// @Summary Get a parking lot by ID
// @Description Retrieve a parking lot by its unique identifier.
// @Tags Lot
// @Accept json
// @Produce json
// @Param id path string true "Lot ID"
// @Success 200 {object} dto.LotResponse "Parking lot details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lots/{id} [get]
func (handler *Handler) GetLotByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLotByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	lot, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get lot by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Parking lot retrieved successfully")

	response.WithJSON(w, http.StatusOK, lot)
}

// UpdateLot updates an existing parking lot by its ID.
// @Summary Update a parking lot by ID
// @Description Update the details of an existing parking lot.
// @Tags Lot
// @Accept json
// @Produce json
// @Param id path string true "Lot ID"
// @Param request body dto.UpdateLotRequest true "Update Lot Request"
// @Success 200 {object} response.Message "Parking lot updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lots/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateLot")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateLotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update lot")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking lot updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Parking lot updated successfully")
}

// UploadPhoto uploads a photo for a parking lot.
// @Summary Upload a parking lot photo
// @Description Upload a photo and attach its URL to the parking lot.
// @Tags Lot
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Lot ID"
// @Param file formData file true "Photo file"
// @Success 200 {object} response.Message "Photo uploaded successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lots/{id}/photos [post]
// @Security BearerAuth
func (handler *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UploadPhoto")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to parse multipart form")

		response.WithError(w, err)

		return
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get file from form")

		response.WithError(w, err)

		return
	}
	defer file.Close()

	url, err := handler.service.UploadPhoto(ctx, id, file, fileHeader)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to upload lot photo")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking lot photo uploaded successfully by user " + user)

	response.WithJSON(w, http.StatusOK, dto.UploadPhotoResponse{URL: url})
}

// DeletePhoto removes a photo from a parking lot.
// @Summary Delete a parking lot photo
// @Description Remove a photo from the parking lot and object storage.
// @Tags Lot
// @Accept json
// @Produce json
// @Param id path string true "Lot ID"
// @Param request body dto.DeletePhotoRequest true "Delete Photo Request"
// @Success 200 {object} response.Message "Photo deleted successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/lots/{id}/photos [delete]
// @Security BearerAuth
func (handler *Handler) DeletePhoto(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeletePhoto")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.DeletePhotoRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.DeletePhoto(ctx, id, req.PhotoURL); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete lot photo")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Parking lot photo deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Parking lot photo deleted successfully")
}

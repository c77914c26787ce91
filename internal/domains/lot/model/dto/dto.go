package dto

import (
	"parkpulse/internal/domains/lot/model"
	"parkpulse/shared"
	gDto "parkpulse/shared/dto"
	gModel "parkpulse/shared/model"
	"parkpulse/shared/timezone"

	"github.com/google/uuid"
)

type CreateLotRequest struct {
	Name           string             `json:"name"            validate:"required,max=100"`
	Description    string             `json:"description"     validate:"omitempty"`
	Address        string             `json:"address"         validate:"omitempty,max=255"`
	City           string             `json:"city"            validate:"omitempty,max=100"`
	Latitude       float64            `json:"latitude"        validate:"required,gte=-90,lte=90"`
	Longitude      float64            `json:"longitude"       validate:"required,gte=-180,lte=180"`
	TotalSlots     int                `json:"total_slots"     validate:"required,gt=0"`
	HourlyRate     float64            `json:"hourly_rate"     validate:"required,gt=0"`
	VehiclePricing map[string]float64 `json:"vehicle_pricing" validate:"omitempty"`
	LotType        string             `json:"lot_type"        validate:"omitempty,oneof=public private commercial residential"`
	Amenities      []string           `json:"amenities"       validate:"omitempty"`
}

func (c *CreateLotRequest) ToModel(user string) model.Lot {
	lotType := c.LotType
	if lotType == "" {
		lotType = model.LotTypePublic
	}

	return model.Lot{
		ID:             uuid.NewString(),
		OwnerID:        user,
		Name:           c.Name,
		Description:    c.Description,
		Address:        c.Address,
		City:           c.City,
		Latitude:       c.Latitude,
		Longitude:      c.Longitude,
		TotalSlots:     c.TotalSlots,
		HourlyRate:     c.HourlyRate,
		VehiclePricing: model.PricingMap(c.VehiclePricing),
		LotType:        lotType,
		Amenities:      model.StringList(c.Amenities),
		Photos:         model.StringList{},
		IsActive:       true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateLotRequest struct {
	Name        string   `db:"name"         json:"name"        validate:"omitempty,max=100"`
	Description string   `db:"description"  json:"description" validate:"omitempty"`
	Address     string   `db:"address"      json:"address"     validate:"omitempty,max=255"`
	City        string   `db:"city"         json:"city"        validate:"omitempty,max=100"`
	HourlyRate  float64  `db:"hourly_rate"  json:"hourly_rate" validate:"omitempty,gt=0"`
	LotType     string   `db:"lot_type"     json:"lot_type"    validate:"omitempty,oneof=public private commercial residential"`
	IsActive    *bool    `db:"is_active"    json:"is_active"   validate:"omitempty"`
	Amenities   []string `json:"amenities"  validate:"omitempty"`
}

type LotResponse struct {
	ID             string             `json:"id"`
	OwnerID        string             `json:"owner_id"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	Address        string             `json:"address"`
	City           string             `json:"city"`
	Latitude       float64            `json:"latitude"`
	Longitude      float64            `json:"longitude"`
	TotalSlots     int                `json:"total_slots"`
	HourlyRate     float64            `json:"hourly_rate"`
	VehiclePricing map[string]float64 `json:"vehicle_pricing"`
	LotType        string             `json:"lot_type"`
	Amenities      []string           `json:"amenities"`
	Photos         []string           `json:"photos"`
	Rating         float64            `json:"rating"`
	IsActive       bool               `json:"is_active"`
	gDto.Metadata
}

func (r *LotResponse) FromModel(mod model.Lot) {
	r.ID = mod.ID
	r.OwnerID = mod.OwnerID
	r.Name = mod.Name
	r.Description = mod.Description
	r.Address = mod.Address
	r.City = mod.City
	r.Latitude = mod.Latitude
	r.Longitude = mod.Longitude
	r.TotalSlots = mod.TotalSlots
	r.HourlyRate = mod.HourlyRate
	r.VehiclePricing = mod.VehiclePricing
	r.LotType = mod.LotType
	r.Amenities = mod.Amenities
	r.Photos = mod.Photos
	r.Rating = mod.Rating
	r.IsActive = mod.IsActive
	r.Metadata.FromModel(mod.Metadata)
}

type GetLotsResponse struct {
	Lots      []LotResponse `json:"lots"`
	TotalPage int           `json:"total_page"`
	TotalData int           `json:"total_data"`
}

func (r *GetLotsResponse) FromModels(models []model.Lot, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Lots = make([]LotResponse, len(models))
	for i, mod := range models {
		r.Lots[i].FromModel(mod)
	}
}

type NearbyLotResponse struct {
	LotResponse
	DistanceKm float64 `json:"distance_km"`
}

type SearchLotsResponse struct {
	Lots []NearbyLotResponse `json:"lots"`
}

func (r *SearchLotsResponse) FromModels(models []model.Lot, latitude, longitude float64) {
	r.Lots = make([]NearbyLotResponse, len(models))
	for i, mod := range models {
		r.Lots[i].FromModel(mod)
		r.Lots[i].DistanceKm = mod.DistanceKm(latitude, longitude)
	}
}

type DeletePhotoRequest struct {
	PhotoURL string `json:"photo_url" validate:"required,url"`
}

type UploadPhotoResponse struct {
	URL string `json:"url"`
}

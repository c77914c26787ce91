package dto

import (
	"parkpulse/internal/domains/slot/model"
	"parkpulse/shared"
	gDto "parkpulse/shared/dto"
	gModel "parkpulse/shared/model"
	"parkpulse/shared/timezone"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	LotID        string `json:"lot_id"        validate:"required"`
	SlotNumber   string `json:"slot_number"   validate:"required,max=20"`
	VehicleClass string `json:"vehicle_class" validate:"omitempty"`
	Floor        string `json:"floor"         validate:"omitempty,max=20"`
}

func (c *CreateSlotRequest) ToModel(user string) model.Slot {
	return model.Slot{
		ID:           uuid.NewString(),
		LotID:        c.LotID,
		SlotNumber:   c.SlotNumber,
		VehicleClass: model.NormalizeVehicleClass(c.VehicleClass),
		Status:       model.StatusAvailable,
		Floor:        c.Floor,
		IsActive:     true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateSlotRequest struct {
	SlotNumber string `db:"slot_number" json:"slot_number" validate:"omitempty,max=20"`
	Status     string `db:"status"      json:"status"      validate:"omitempty,oneof=available reserved occupied maintenance"`
	Floor      string `db:"floor"       json:"floor"       validate:"omitempty,max=20"`
	IsActive   *bool  `db:"is_active"   json:"is_active"   validate:"omitempty"`
}

type SlotResponse struct {
	ID           string `json:"id"`
	LotID        string `json:"lot_id"`
	SlotNumber   string `json:"slot_number"`
	VehicleClass string `json:"vehicle_class"`
	Status       string `json:"status"`
	Floor        string `json:"floor"`
	IsActive     bool   `json:"is_active"`
	gDto.Metadata
}

func (r *SlotResponse) FromModel(mod model.Slot) {
	r.ID = mod.ID
	r.LotID = mod.LotID
	r.SlotNumber = mod.SlotNumber
	r.VehicleClass = mod.VehicleClass
	r.Status = mod.Status
	r.Floor = mod.Floor
	r.IsActive = mod.IsActive
	r.Metadata.FromModel(mod.Metadata)
}

type GetSlotsResponse struct {
	Slots     []SlotResponse `json:"slots"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetSlotsResponse) FromModels(models []model.Slot, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Slots = make([]SlotResponse, len(models))
	for i, mod := range models {
		r.Slots[i].FromModel(mod)
	}
}

type BulkSlotItem struct {
	SlotNumber   string `json:"slot_number"   validate:"required,max=20"`
	VehicleClass string `json:"vehicle_class" validate:"omitempty"`
	Floor        string `json:"floor"         validate:"omitempty,max=20"`
}

type BulkCreateSlotsRequest struct {
	LotID string         `json:"lot_id" validate:"required"`
	Slots []BulkSlotItem `json:"slots"  validate:"required,min=1,dive"`
}

func (c *BulkCreateSlotsRequest) ToModels(user string) []model.Slot {
	models := make([]model.Slot, len(c.Slots))

	for i, item := range c.Slots {
		req := CreateSlotRequest{
			LotID:        c.LotID,
			SlotNumber:   item.SlotNumber,
			VehicleClass: item.VehicleClass,
			Floor:        item.Floor,
		}
		models[i] = req.ToModel(user)
	}

	return models
}

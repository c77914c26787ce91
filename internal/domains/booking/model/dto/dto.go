package dto

import (
	"parkpulse/internal/domains/booking/model"
	"parkpulse/shared"
	"parkpulse/shared/constant"
	gDto "parkpulse/shared/dto"
	"parkpulse/shared/timezone"
	"time"
)

type CreateBookingRequest struct {
	LotID        string `json:"lot_id"        validate:"required"`
	SlotID       string `json:"slot_id"       validate:"omitempty"`
	VehicleClass string `json:"vehicle_class" validate:"omitempty"`
	VehiclePlate string `json:"vehicle_plate" validate:"omitempty,max=20"`
	StartTime    string `json:"start_time"    validate:"required"`
	EndTime      string `json:"end_time"      validate:"required"`
}

// Window parses the requested time range. Format errors surface as
// plain errors; range validation is the lifecycle service's job.
func (c *CreateBookingRequest) Window() (start, end time.Time, err error) {
	start, err = time.Parse(time.RFC3339, c.StartTime)
	if err != nil {
		return start, end, err
	}

	end, err = time.Parse(time.RFC3339, c.EndTime)

	return start, end, err
}

type VerifyGateRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Token     string `json:"token"      validate:"required"`
}

type VerifyGateResponse struct {
	BookingID    string `json:"booking_id"`
	Status       string `json:"status"`
	Action       string `json:"action"`
	CheckInTime  string `json:"check_in_time,omitempty"`
	CheckOutTime string `json:"check_out_time,omitempty"`
}

const (
	VerifyActionCheckIn  = "check_in"
	VerifyActionCheckOut = "check_out"
)

func (r *VerifyGateResponse) FromModel(mod model.Booking, action string) {
	r.BookingID = mod.ID
	r.Status = mod.Status
	r.Action = action

	if mod.CheckInTime.Valid {
		r.CheckInTime = timezone.Format(mod.CheckInTime.Time, constant.DateFormat)
	}

	if mod.CheckOutTime.Valid {
		r.CheckOutTime = timezone.Format(mod.CheckOutTime.Time, constant.DateFormat)
	}
}

type BookingResponse struct {
	ID                string  `json:"id"`
	UserID            string  `json:"user_id"`
	LotID             string  `json:"lot_id"`
	SlotID            string  `json:"slot_id"`
	StartTime         string  `json:"start_time"`
	EndTime           string  `json:"end_time"`
	VehicleClass      string  `json:"vehicle_class"`
	VehiclePlate      string  `json:"vehicle_plate"`
	Price             float64 `json:"price"`
	Status            string  `json:"status"`
	VerificationToken string  `json:"verification_token,omitempty"`
	CheckInTime       string  `json:"check_in_time,omitempty"`
	CheckOutTime      string  `json:"check_out_time,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(mod model.Booking) {
	r.ID = mod.ID
	r.UserID = mod.UserID
	r.LotID = mod.LotID
	r.SlotID = mod.SlotID
	r.StartTime = timezone.Format(mod.StartTime, constant.DateFormat)
	r.EndTime = timezone.Format(mod.EndTime, constant.DateFormat)
	r.VehicleClass = mod.VehicleClass
	r.VehiclePlate = mod.VehiclePlate
	r.Price = mod.Price
	r.Status = mod.Status
	r.VerificationToken = mod.VerificationToken

	if mod.CheckInTime.Valid {
		r.CheckInTime = timezone.Format(mod.CheckInTime.Time, constant.DateFormat)
	}

	if mod.CheckOutTime.Valid {
		r.CheckOutTime = timezone.Format(mod.CheckOutTime.Time, constant.DateFormat)
	}

	r.Metadata.FromModel(mod.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

package model

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	slotModel "parkpulse/internal/domains/slot/model"
	"parkpulse/shared/model"
	"slices"
	"time"

	"gopkg.in/guregu/null.v4"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID           = "id"
	FieldUserID       = "user_id"
	FieldLotID        = "lot_id"
	FieldSlotID       = "slot_id"
	FieldStartTime    = "start_time"
	FieldEndTime      = "end_time"
	FieldVehicleClass = "vehicle_class"
	FieldStatus       = "status"
)

// Booking states. A booking is created directly into confirmed; pending
// is reserved for flows that defer slot assignment.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCheckedIn = "checked_in"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// HoldingStatuses are the non-terminal states that claim a slot and
// count toward overlap and occupancy.
var HoldingStatuses = []string{StatusPending, StatusConfirmed, StatusCheckedIn}

// GracePeriod is accepted on both ends of the booking window for gate
// check-in and check-out.
const GracePeriod = 15 * time.Minute

// CancelCutoff is the no-refund boundary before start time. Cancelling
// at or after start minus the cutoff is rejected.
const CancelCutoff = time.Hour

const verificationTokenBytes = 32

type Booking struct {
	ID                string    `db:"id"`
	UserID            string    `db:"user_id"`
	LotID             string    `db:"lot_id"`
	SlotID            string    `db:"slot_id"`
	StartTime         time.Time `db:"start_time"`
	EndTime           time.Time `db:"end_time"`
	VehicleClass      string    `db:"vehicle_class"`
	VehiclePlate      string    `db:"vehicle_plate"`
	Price             float64   `db:"price"`
	Status            string    `db:"status"`
	VerificationToken string    `db:"verification_token"`
	CheckInTime       null.Time `db:"check_in_time"`
	CheckOutTime      null.Time `db:"check_out_time"`
	model.Metadata
}

func (b *Booking) IsTerminal() bool {
	return b.Status == StatusCompleted || b.Status == StatusCancelled
}

func (b *Booking) IsHolding() bool {
	return slices.Contains(HoldingStatuses, b.Status)
}

// Overlaps reports whether two half-open windows [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// SlotStatusFor projects a booking status onto the status its slot
// should carry. Slot status is a cache of this projection, never an
// independent source of truth.
func SlotStatusFor(bookingStatus string) string {
	switch bookingStatus {
	case StatusPending, StatusConfirmed:
		return slotModel.StatusReserved
	case StatusCheckedIn:
		return slotModel.StatusOccupied
	default:
		return slotModel.StatusAvailable
	}
}

// NewVerificationToken returns an unguessable URL-safe token presented
// at the gate to authorize check-in and check-out.
func NewVerificationToken() (string, error) {
	buf := make([]byte, verificationTokenBytes)

	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

package model

import (
	"parkpulse/shared/model"
	"time"
)

const (
	TableName  = "occupancy_logs"
	EntityName = "occupancy_log"

	FieldID         = "id"
	FieldLotID      = "lot_id"
	FieldRecordedAt = "recorded_at"
)

const (
	SourceGateway = "gateway"
	SourceSensor  = "sensor"
)

type OccupancyLog struct {
	ID            string    `db:"id"`
	LotID         string    `db:"lot_id"`
	OccupiedCount int       `db:"occupied_count"`
	TotalCapacity int       `db:"total_capacity"`
	Source        string    `db:"source"`
	RecordedAt    time.Time `db:"recorded_at"`
	model.Metadata
}

func (o *OccupancyLog) Rate() float64 {
	if o.TotalCapacity == 0 {
		return 0
	}

	return float64(o.OccupiedCount) / float64(o.TotalCapacity)
}

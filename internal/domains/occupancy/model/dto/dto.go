package dto

import (
	"parkpulse/internal/domains/occupancy/model"
	"parkpulse/shared/constant"
	gModel "parkpulse/shared/model"
	"parkpulse/shared/timezone"
	"time"

	"github.com/google/uuid"
)

type LogOccupancyRequest struct {
	LotID         string `json:"lot_id"         validate:"required"`
	OccupiedCount int    `json:"occupied_count" validate:"gte=0"`
	TotalCapacity int    `json:"total_capacity" validate:"gt=0"`
	RecordedAt    string `json:"recorded_at"    validate:"omitempty"`
}

func (c *LogOccupancyRequest) ToModel(source string) (model.OccupancyLog, error) {
	recordedAt := timezone.Now()

	if c.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, c.RecordedAt)
		if err != nil {
			return model.OccupancyLog{}, err
		}

		recordedAt = parsed
	}

	return model.OccupancyLog{
		ID:            uuid.NewString(),
		LotID:         c.LotID,
		OccupiedCount: c.OccupiedCount,
		TotalCapacity: c.TotalCapacity,
		Source:        source,
		RecordedAt:    recordedAt,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  source,
			ModifiedBy: source,
		},
	}, nil
}

type OccupancyResponse struct {
	LotID         string  `json:"lot_id"`
	OccupiedCount int     `json:"occupied_count"`
	TotalCapacity int     `json:"total_capacity"`
	OccupancyRate float64 `json:"occupancy_rate"`
	Source        string  `json:"source"`
	RecordedAt    string  `json:"recorded_at"`
}

func (r *OccupancyResponse) FromModel(mod model.OccupancyLog) {
	r.LotID = mod.LotID
	r.OccupiedCount = mod.OccupiedCount
	r.TotalCapacity = mod.TotalCapacity
	r.OccupancyRate = mod.Rate()
	r.Source = mod.Source
	r.RecordedAt = timezone.Format(mod.RecordedAt, constant.DateFormat)
}

package events

import (
	"context"
	"parkpulse/config"
	"parkpulse/infras/kafka"
	"parkpulse/infras/otel"
	occupancyModel "parkpulse/internal/domains/occupancy/model"
	occupancyDto "parkpulse/internal/domains/occupancy/model/dto"
	occupancyService "parkpulse/internal/domains/occupancy/service"
	"parkpulse/shared/constant"
	"parkpulse/shared/validator"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
)

// Consumer drains sensor-originated occupancy readings from Kafka into
// the occupancy log.
type Consumer struct {
	config    *config.Config
	client    kafka.Client
	occupancy occupancyService.Occupancy
	otel      otel.Otel
}

func NewConsumer(config *config.Config, client kafka.Client, occupancy occupancyService.Occupancy, otel otel.Otel) *Consumer {
	return &Consumer{
		config:    config,
		client:    client,
		occupancy: occupancy,
		otel:      otel,
	}
}

// Start blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	topic := c.config.Kafka.Topics.SlotEvents

	log.Info().Str("topic", topic).Msg("Starting slot event consumer.")

	c.client.Consume(ctx, c.config.Kafka.ConsumerGroup, topic, c.handleSlotEvent)
}

func (c *Consumer) handleSlotEvent(msg kafkaGo.Message) {
	ctx, scope := c.otel.NewScope(context.Background(), constant.OtelEventScopeName, constant.OtelEventScopeName+".HandleSlotEvent")
	defer scope.End()

	decoded, err := kafka.DecodeKafkaMessage[occupancyDto.LogOccupancyRequest](msg)
	if err != nil {
		log.Error().Err(err).Str("key", string(msg.Key)).Msg("Failed to decode slot event.")
		scope.TraceIfError(err)

		return
	}

	req, ok := decoded.Value.(occupancyDto.LogOccupancyRequest)
	if !ok {
		log.Error().Str("key", string(msg.Key)).Msg("Unexpected slot event payload type.")

		return
	}

	if err = validator.ValidateStruct(&req); err != nil {
		log.Error().Err(err).Str("lotID", req.LotID).Msg("Invalid slot event payload.")
		scope.TraceIfError(err)

		return
	}

	if err = c.occupancy.Record(ctx, req, occupancyModel.SourceSensor); err != nil {
		log.Error().Err(err).Str("lotID", req.LotID).Msg("Failed to record occupancy from slot event.")
		scope.TraceIfError(err)
	}
}

//go:build wireinject
// +build wireinject

package di

import (
	"parkpulse/config"
	"parkpulse/infras/jwt"
	"parkpulse/infras/kafka"
	"parkpulse/infras/otel"
	"parkpulse/infras/postgres"
	"parkpulse/infras/redis"
	"parkpulse/infras/s3"
	"parkpulse/internal/events"
	"parkpulse/permissions"
	"parkpulse/shared/cache"
	"parkpulse/transport/http"
	"parkpulse/transport/http/middleware"
	"parkpulse/transport/http/router"

	bookingRepository "parkpulse/internal/domains/booking/repository"
	bookingService "parkpulse/internal/domains/booking/service"
	lotRepository "parkpulse/internal/domains/lot/repository"
	lotService "parkpulse/internal/domains/lot/service"
	occupancyRepository "parkpulse/internal/domains/occupancy/repository"
	occupancyService "parkpulse/internal/domains/occupancy/service"
	"parkpulse/internal/domains/pricing/engine"
	pricingService "parkpulse/internal/domains/pricing/service"
	slotRepository "parkpulse/internal/domains/slot/repository"
	slotService "parkpulse/internal/domains/slot/service"

	bookingHandler "parkpulse/internal/handlers/booking"
	gateHandler "parkpulse/internal/handlers/gate"
	lotHandler "parkpulse/internal/handlers/lot"
	occupancyHandler "parkpulse/internal/handlers/occupancy"
	pricingHandler "parkpulse/internal/handlers/pricing"
	slotHandler "parkpulse/internal/handlers/slot"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	wire.Bind(new(postgres.Txer), new(*postgres.Connection)),
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	s3.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var lotDomain = wire.NewSet(
	lotRepository.New,
	lotService.New,
)

var slotDomain = wire.NewSet(
	slotRepository.New,
	slotService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var occupancyDomain = wire.NewSet(
	occupancyRepository.New,
	occupancyService.New,
)

var pricingDomain = wire.NewSet(
	engine.New,
	pricingService.New,
)

var domains = wire.NewSet(
	lotDomain,
	slotDomain,
	bookingDomain,
	occupancyDomain,
	pricingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	lotHandler.New,
	slotHandler.New,
	bookingHandler.New,
	gateHandler.New,
	occupancyHandler.New,
	pricingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

func InitializeConsumer() *events.Consumer {
	wire.Build(
		config.Get,
		postgres.New,
		otel.New,
		redis.New,
		kafka.New,
		cache.NewRedisCache,
		lotRepository.New,
		slotRepository.New,
		occupancyRepository.New,
		occupancyService.New,
		events.NewConsumer,
	)

	return &events.Consumer{}
}

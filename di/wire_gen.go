// Code generated by Wire. DO NOT EDIT.

//go:generate go run -mod=mod github.com/google/wire/cmd/wire
//go:build !wireinject
// +build !wireinject

package di

import (
	"github.com/google/wire"
	"parkpulse/config"
	"parkpulse/infras/jwt"
	"parkpulse/infras/kafka"
	"parkpulse/infras/otel"
	"parkpulse/infras/postgres"
	"parkpulse/infras/redis"
	"parkpulse/infras/s3"
	repository3 "parkpulse/internal/domains/booking/repository"
	service3 "parkpulse/internal/domains/booking/service"
	"parkpulse/internal/domains/lot/repository"
	"parkpulse/internal/domains/lot/service"
	repository4 "parkpulse/internal/domains/occupancy/repository"
	service4 "parkpulse/internal/domains/occupancy/service"
	"parkpulse/internal/domains/pricing/engine"
	service5 "parkpulse/internal/domains/pricing/service"
	repository2 "parkpulse/internal/domains/slot/repository"
	service2 "parkpulse/internal/domains/slot/service"
	"parkpulse/internal/events"
	"parkpulse/internal/handlers/booking"
	"parkpulse/internal/handlers/gate"
	"parkpulse/internal/handlers/lot"
	"parkpulse/internal/handlers/occupancy"
	"parkpulse/internal/handlers/pricing"
	"parkpulse/internal/handlers/slot"
	"parkpulse/permissions"
	"parkpulse/shared/cache"
	"parkpulse/transport/http"
	"parkpulse/transport/http/middleware"
	"parkpulse/transport/http/router"
)

// Injectors from wire.go:

func InitializeService() *http.HTTP {
	configConfig := config.Get()
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryLot := repository.New(connection, otelOtel)
	s3S3 := s3.New(configConfig, otelOtel)
	client := redis.New(configConfig)
	redisCache := cache.NewRedisCache(client, otelOtel)
	serviceLot := service.New(repositoryLot, s3S3, configConfig, redisCache, otelOtel)
	handler := lot.New(serviceLot, otelOtel)
	repositorySlot := repository2.New(connection, otelOtel)
	serviceSlot := service2.New(repositorySlot, repositoryLot, configConfig, redisCache, otelOtel)
	slotHandler := slot.New(serviceSlot, otelOtel)
	repositoryBooking := repository3.New(connection, otelOtel)
	engineEngine := engine.New()
	serviceBooking := service3.New(repositoryBooking, repositoryLot, repositorySlot, engineEngine, connection, configConfig, redisCache, otelOtel)
	bookingHandler := booking.New(serviceBooking, otelOtel)
	gateHandler := gate.New(serviceBooking, otelOtel)
	repositoryOccupancy := repository4.New(connection, otelOtel)
	serviceOccupancy := service4.New(repositoryOccupancy, repositoryLot, repositorySlot, configConfig, redisCache, otelOtel)
	occupancyHandler := occupancy.New(serviceOccupancy, otelOtel)
	servicePricing := service5.New(repositoryLot, repositorySlot, engineEngine, otelOtel)
	pricingHandler := pricing.New(servicePricing, otelOtel)
	domainHandlers := router.DomainHandlers{
		Lot:       handler,
		Slot:      slotHandler,
		Booking:   bookingHandler,
		Gate:      gateHandler,
		Occupancy: occupancyHandler,
		Pricing:   pricingHandler,
	}
	jwtJWT := jwt.New(configConfig)
	permissionData := permissions.Get()
	authRole := middleware.NewAuthRoleMiddleware(jwtJWT, otelOtel, permissionData, configConfig)
	appMiddleware := middleware.NewAppMiddleware(otelOtel, configConfig, redisCache)
	routerRouter := router.New(domainHandlers, authRole, appMiddleware)
	httpHTTP := http.New(configConfig, connection, routerRouter)
	return httpHTTP
}

func InitializeConsumer() *events.Consumer {
	configConfig := config.Get()
	client := kafka.New(configConfig)
	connection := postgres.New(configConfig)
	otelOtel := otel.New(configConfig)
	repositoryOccupancy := repository4.New(connection, otelOtel)
	repositoryLot := repository.New(connection, otelOtel)
	repositorySlot := repository2.New(connection, otelOtel)
	redisClient := redis.New(configConfig)
	redisCache := cache.NewRedisCache(redisClient, otelOtel)
	serviceOccupancy := service4.New(repositoryOccupancy, repositoryLot, repositorySlot, configConfig, redisCache, otelOtel)
	consumer := events.NewConsumer(configConfig, client, serviceOccupancy, otelOtel)
	return consumer
}

// wire.go:

var configurations = wire.NewSet(config.Get, permissions.Get)

var infrastructures = wire.NewSet(postgres.New, wire.Bind(new(postgres.Txer), new(*postgres.Connection)), otel.New, redis.New, jwt.New, kafka.New, s3.New)

var middlewares = wire.NewSet(middleware.NewAppMiddleware, middleware.NewAuthRoleMiddleware)

var sharedHelpers = wire.NewSet(cache.NewRedisCache)

var lotDomain = wire.NewSet(repository.New, service.New)

var slotDomain = wire.NewSet(repository2.New, service2.New)

var bookingDomain = wire.NewSet(repository3.New, service3.New)

var occupancyDomain = wire.NewSet(repository4.New, service4.New)

var pricingDomain = wire.NewSet(engine.New, service5.New)

var domains = wire.NewSet(
	lotDomain,
	slotDomain,
	bookingDomain,
	occupancyDomain,
	pricingDomain,
)

var routing = wire.NewSet(wire.Struct(new(router.DomainHandlers), "*"), lot.New, slot.New, booking.New, gate.New, occupancy.New, pricing.New, router.New)

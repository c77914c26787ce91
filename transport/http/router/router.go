package router

import (
	"parkpulse/internal/handlers/booking"
	"parkpulse/internal/handlers/gate"
	"parkpulse/internal/handlers/lot"
	"parkpulse/internal/handlers/occupancy"
	"parkpulse/internal/handlers/pricing"
	"parkpulse/internal/handlers/slot"
	"parkpulse/transport/http/middleware"

	"github.com/go-chi/chi/v5"
)

type DomainHandlers struct {
	Lot       lot.Handler
	Slot      slot.Handler
	Booking   booking.Handler
	Gate      gate.Handler
	Occupancy occupancy.Handler
	Pricing   pricing.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
	AuthRole       middleware.AuthRole
	App            middleware.AppMiddleware
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Use(r.App.Tracing)
	router.Use(r.App.RateLimit())

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(r.AuthRole.APIKey)
		routerGroup.Use(r.AuthRole.Auth)
		routerGroup.Use(r.AuthRole.RBAC)

		r.DomainHandlers.Lot.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Gate.Router(routerGroup)
		r.DomainHandlers.Occupancy.Router(routerGroup)
		r.DomainHandlers.Pricing.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers, authRole middleware.AuthRole, app middleware.AppMiddleware) Router {
	return Router{
		DomainHandlers: domainHandlers,
		AuthRole:       authRole,
		App:            app,
	}
}

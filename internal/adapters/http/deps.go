package http

import (
	"github.com/nats-io/nats.go"
	"github.com/ziadnadir777/ccn-optiway-app/internal/adapters/valkey"
	"github.com/ziadnadir777/ccn-optiway-app/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Store        *usecases.AnnotationService
	Routes       *usecases.RouteService
	Traffic      *usecases.TrafficService
	Interactions *usecases.InteractionService
	Search       *usecases.SearchService
	NATS         *nats.Conn
	Cache        *valkey.Cache
}

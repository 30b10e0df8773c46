package service

import (
	postgres "github.com/kirinyoku/seatspot-go/internal/repository/postgres"
	redis "github.com/kirinyoku/seatspot-go/internal/repository/redis"
	"github.com/kirinyoku/seatspot-go/internal/service/admin"
	"github.com/kirinyoku/seatspot-go/internal/service/query"
	"github.com/kirinyoku/seatspot-go/internal/service/reservation"
	"github.com/kirinyoku/seatspot-go/internal/service/waitlist"
)

type Services struct {
	Reservation *reservation.Service
	Query       *query.Service
	Waitlist    *waitlist.Service
	Admin       *admin.Service
}

type Config struct {
	Reservation reservation.Config
	Query       query.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.SeatsPubSub,
	limiter *redis.SlidingWindowLimiter,
	cfg Config,
) *Services {
	return &Services{
		Reservation: reservation.New(store, cache, pubsub, limiter, cfg.Reservation),
		Query:       query.New(store, cache, cfg.Query),
		Waitlist:    waitlist.New(store),
		Admin:       admin.New(store, cache),
	}
}

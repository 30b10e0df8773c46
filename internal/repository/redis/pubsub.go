package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

type SeatsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewSeatsPubSub(rdb *redis.Client) *SeatsPubSub {
	return &SeatsPubSub{
		rdb:     rdb,
		channel: ChannelSeatsChanged(),
	}
}

type seatChangedMsg struct {
	Type   string `json:"type"`
	SeatID int64  `json:"seat_id"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *SeatsPubSub) PublishSeatChanged(ctx context.Context, seatID int64) error {
	msg := seatChangedMsg{
		Type:   "seat_changed",
		SeatID: seatID,
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *SeatsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, seatID int64)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev seatChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil &&
				ev.SeatID != 0 {
				handler(ctx, ev.SeatID)
			}
		}
	}
}

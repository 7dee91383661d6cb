package repository

import (
	"context"
	"encoding/json"

	"cinema_reservation/logger"
	"cinema_reservation/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SeatChannel is the pub/sub channel carrying seat events for a time range.
func SeatChannel(timeRangeId model.ID) string {
	return "time-range:" + timeRangeId.String()
}

// RedisSeatNotifier publishes seat changes to redis. Publishing is best
// effort: failures are logged and never fail the request that caused them.
type RedisSeatNotifier struct {
	client *redis.Client
}

func NewRedisSeatNotifier(client *redis.Client) *RedisSeatNotifier {
	return &RedisSeatNotifier{client: client}
}

func (n *RedisSeatNotifier) PublishSeatChanges(ctx context.Context, timeRangeId model.ID, changes []model.SeatChange) {
	if n.client == nil || len(changes) == 0 {
		return
	}
	payload, err := json.Marshal(model.SeatEvent{
		Type:        "seat_update",
		TimeRangeId: timeRangeId.String(),
		Changes:     changes,
	})
	if err != nil {
		logger.Log.Error("encode seat event", zap.Error(err))
		return
	}
	if err := n.client.Publish(context.WithoutCancel(ctx), SeatChannel(timeRangeId), payload).Err(); err != nil {
		logger.Log.Warn("publish seat event",
			zap.String("channel", SeatChannel(timeRangeId)),
			zap.Error(err))
	}
}

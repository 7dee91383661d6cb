package handler

import (
	"context"

	"cinema_reservation/database"
	"cinema_reservation/helper"
	"cinema_reservation/logger"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"
)

// SeatMapSocket sends the seat map of a time range, then relays every seat
// event published on its redis channel until the client goes away.
func SeatMapSocket(c *websocket.Conn) {
	defer c.Close()

	trId, err := model.ParseID(c.Params("id"))
	if err != nil {
		c.WriteJSON(model.SeatEvent{Type: "error"})
		return
	}

	seats, err := helper.LoadTimeRangeSeatMap(database.DB, trId.Uint())
	if err != nil {
		logger.Log.Warn("seat map socket", zap.String("timeRangeId", trId.String()), zap.Error(err))
		c.WriteJSON(model.SeatEvent{Type: "error", TimeRangeId: trId.String()})
		return
	}

	logger.Log.Debug("seat map client connected", zap.String("timeRangeId", trId.String()))

	if err := c.WriteJSON(model.SeatEvent{Type: "snapshot", TimeRangeId: trId.String(), Seats: seats}); err != nil {
		return
	}
	if database.Redis == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pubsub := database.Redis.Subscribe(ctx, repository.SeatChannel(trId))
	defer pubsub.Close()

	// the read loop only notices the client closing the connection
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	channel := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-channel:
			if !ok {
				return
			}
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		}
	}
}

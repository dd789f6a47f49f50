package server

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/gravitas-games/hexfield/internal/metrics"
	"github.com/gravitas-games/hexfield/internal/network"
)

// StatusFeed consumes territory status updates published by the game
// backend on a Redis channel and applies them to the world. Messages carry
// the same shape as the status_update payload sent to clients.
type StatusFeed struct {
	client  *redis.Client
	channel string
	world   *World

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewStatusFeed creates a feed bound to the given channel
func NewStatusFeed(parent context.Context, client *redis.Client, channel string, world *World) *StatusFeed {
	ctx, cancel := context.WithCancel(parent)
	return &StatusFeed{
		client:  client,
		channel: channel,
		world:   world,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins consuming the feed
func (f *StatusFeed) Start() {
	f.wg.Add(1)
	go f.run()
}

// Stop cancels the subscription and waits for the consumer
func (f *StatusFeed) Stop() {
	f.cancel()
	f.wg.Wait()
}

func (f *StatusFeed) run() {
	defer f.wg.Done()

	pubsub := f.client.Subscribe(f.ctx, f.channel)
	defer pubsub.Close()

	log.Printf("Status feed subscribed to channel %s", f.channel)

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			f.handleMessage(msg.Payload)

		case <-f.ctx.Done():
			return
		}
	}
}

// handleMessage parses one feed message and applies it. Malformed messages
// are dropped; the feed keeps running.
func (f *StatusFeed) handleMessage(payload string) {
	var update network.StatusUpdatePayload
	if err := json.Unmarshal([]byte(payload), &update); err != nil {
		log.Printf("Failed to parse status feed message: %v", err)
		return
	}

	if len(update.Cells) == 0 {
		return
	}

	metrics.FeedUpdatesTotal.Inc()
	metrics.FeedCellsTotal.Add(float64(len(update.Cells)))

	f.world.ApplyStatusUpdate(update.Cells)
}

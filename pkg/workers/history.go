package workers

import (
	"context"
	"time"

	"github.com/stickstrike/arena/pkg/log"
	"github.com/stickstrike/arena/pkg/queue"
	"github.com/stickstrike/arena/pkg/repositories"
	"github.com/stickstrike/arena/pkg/repositories/models"
)

// HistoryWorker drains combat and room lifecycle events from a queue
// and writes them to the history repository. Write failures are logged
// and dropped; history is an audit sink and never blocks gameplay.
type HistoryWorker struct {
	repository repositories.Repository
	eventQueue queue.Queue
	interval   time.Duration
}

type NewHistoryWorkerOptions struct {
	Repository repositories.Repository
	EventQueue queue.Queue
	Interval   time.Duration
}

// NewHistoryWorker creates a new HistoryWorker.
func NewHistoryWorker(opts NewHistoryWorkerOptions) *HistoryWorker {
	return &HistoryWorker{
		repository: opts.Repository,
		eventQueue: opts.EventQueue,
		interval:   opts.Interval,
	}
}

// Start drains the event queue on the worker's interval until the
// context is canceled, flushing one last time on the way out.
func (w *HistoryWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.flush(context.Background())
			return
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *HistoryWorker) flush(ctx context.Context) {
	pending, err := w.eventQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read history events: %v", err)
		return
	}
	for _, item := range pending {
		switch event := item.(type) {
		case models.CombatEvent:
			if err := w.repository.SaveCombatEvent(ctx, event); err != nil {
				log.Error("Failed to save combat event: %v", err)
			}
		case models.RoomEvent:
			if err := w.repository.SaveRoomEvent(ctx, event); err != nil {
				log.Error("Failed to save room event: %v", err)
			}
		default:
			log.Error("Unhandled history event type: %T", event)
		}
	}
}

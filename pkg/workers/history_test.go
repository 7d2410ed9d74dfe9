package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stickstrike/arena/pkg/queue"
	"github.com/stickstrike/arena/pkg/repositories/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepository struct {
	mu           sync.Mutex
	combatEvents []models.CombatEvent
	roomEvents   []models.RoomEvent
}

func (r *stubRepository) Close(ctx context.Context) error {
	return nil
}

func (r *stubRepository) SaveCombatEvent(ctx context.Context, event models.CombatEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.combatEvents = append(r.combatEvents, event)
	return nil
}

func (r *stubRepository) SaveRoomEvent(ctx context.Context, event models.RoomEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roomEvents = append(r.roomEvents, event)
	return nil
}

func TestHistoryWorker_FlushesQueuedEvents(t *testing.T) {
	repository := &stubRepository{}
	eventQueue := queue.NewInMemoryQueue()

	require.NoError(t, eventQueue.Enqueue(models.CombatEvent{
		AttackerID:      "p1",
		TargetID:        "p2",
		Region:          "head",
		Damage:          15,
		RemainingHealth: 85,
		Timestamp:       time.Now(),
	}))
	require.NoError(t, eventQueue.Enqueue(models.RoomEvent{
		RoomID:    "r1",
		Name:      "Arena",
		Event:     models.RoomEventStarted,
		Timestamp: time.Now(),
	}))

	worker := NewHistoryWorker(NewHistoryWorkerOptions{
		Repository: repository,
		EventQueue: eventQueue,
		Interval:   time.Hour, // only the shutdown flush should run
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()
	cancel()
	<-done

	repository.mu.Lock()
	defer repository.mu.Unlock()
	require.Len(t, repository.combatEvents, 1)
	assert.Equal(t, "head", repository.combatEvents[0].Region)
	assert.Equal(t, 15, repository.combatEvents[0].Damage)
	require.Len(t, repository.roomEvents, 1)
	assert.Equal(t, models.RoomEventStarted, repository.roomEvents[0].Event)
	assert.Equal(t, 0, eventQueue.Size())
}

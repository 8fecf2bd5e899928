package telegram

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/svitlo-tech/svitlo-tracker/internal/db"
	"github.com/svitlo-tech/svitlo-tracker/internal/yasno"
)

func newTestRouter() *Router {
	return NewRouter(nil, db.NewNoopStore(), nil, yasno.DefaultRegions, false, time.UTC)
}

func TestSessionDefaults(t *testing.T) {
	r := newTestRouter()
	s := r.sessionSnapshot(1)
	assert.Equal(t, defaultNotifyBefore, s.notifyBefore)
	assert.Empty(t, s.operatorCode)
	assert.Empty(t, s.queueNumber)
}

// Webhook deliveries for the same chat arrive on concurrent goroutines, so
// selection updates and reads must be safe to interleave. Run with -race.
func TestSessionConcurrentSelection(t *testing.T) {
	r := newTestRouter()

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				r.updateSession(1, func(s *session) {
					s.operatorCode = "yasno-kyiv"
					s.queueNumber = ""
				})
				_ = r.sessionSnapshot(1)
				r.updateSession(1, func(s *session) {
					if s.operatorCode != "" {
						s.queueNumber = "3.2"
					}
				})
			}
		}()
	}
	wg.Wait()

	s := r.sessionSnapshot(1)
	assert.Equal(t, "yasno-kyiv", s.operatorCode)
	assert.Equal(t, defaultNotifyBefore, s.notifyBefore)
}

// sessionSnapshot hands out a copy: mutating it must not leak back into
// the shared state.
func TestSessionSnapshotIsACopy(t *testing.T) {
	r := newTestRouter()
	r.updateSession(1, func(s *session) { s.operatorCode = "yasno-dnipro" })

	s := r.sessionSnapshot(1)
	s.operatorCode = "mutated"

	assert.Equal(t, "yasno-dnipro", r.sessionSnapshot(1).operatorCode)
}

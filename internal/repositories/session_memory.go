package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/SAP-F-2025/exam-form-service/internal/models"
)

type memorySession struct {
	state     *models.AnswerState
	expiresAt time.Time
}

type memorySessionRepository struct {
	sessions map[string]memorySession
	ttl      time.Duration
	now      func() time.Time
	mutex    sync.RWMutex
}

// NewMemorySessionRepository keeps sessions in process memory. States are
// copied on the way in and out.
func NewMemorySessionRepository(ttl time.Duration) SessionRepository {
	return &memorySessionRepository{
		sessions: make(map[string]memorySession),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (r *memorySessionRepository) Get(ctx context.Context, sessionID string) (*models.AnswerState, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	session, exists := r.sessions[sessionID]
	if !exists || r.expired(session) {
		return nil, nil
	}
	return session.state.Clone(), nil
}

func (r *memorySessionRepository) Save(ctx context.Context, state *models.AnswerState) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.sessions[state.SessionID] = memorySession{
		state:     state.Clone(),
		expiresAt: r.now().Add(r.ttl),
	}
	return nil
}

func (r *memorySessionRepository) Delete(ctx context.Context, sessionID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.sessions, sessionID)
	return nil
}

func (r *memorySessionRepository) DeleteExpired(ctx context.Context) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	for id, session := range r.sessions {
		if r.expired(session) {
			delete(r.sessions, id)
		}
	}
	return nil
}

func (r *memorySessionRepository) expired(s memorySession) bool {
	return r.ttl > 0 && r.now().After(s.expiresAt)
}

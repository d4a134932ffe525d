// internal/services/session_service.go
package services

import (
	"context"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/solar-catalog/internal/catalog"
	"github.com/javajoker/solar-catalog/internal/metrics"
)

// SessionView is a browsing session as returned to clients.
type SessionView struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
	catalog.Snapshot
}

type session struct {
	controller *catalog.Controller
	expiresAt  time.Time
}

// SessionService keeps server-side browsing sessions, one controller each.
// Sessions expire after ttl without access. With a positive limit, creating
// a session beyond it evicts the least recently used one.
type SessionService struct {
	catalog *CatalogService
	ttl     time.Duration
	limit   int
	now     func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

func NewSessionService(catalogService *CatalogService, ttl time.Duration, limit int) *SessionService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionService{
		catalog:  catalogService,
		ttl:      ttl,
		limit:    limit,
		now:      time.Now,
		sessions: make(map[string]*session),
	}
}

func (s *SessionService) Create(values url.Values) (*SessionView, error) {
	controller, err := s.catalog.NewController(values)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	sess := &session{controller: controller, expiresAt: s.now().Add(s.ttl)}

	s.mu.Lock()
	evicted := s.makeRoom()
	s.sessions[id] = sess
	count := len(s.sessions)
	s.mu.Unlock()

	if evicted > 0 {
		metrics.SessionsEvicted.Add(float64(evicted))
		logrus.WithField("evicted", evicted).Debug("Session limit reached, least recently used sessions dropped")
	}
	metrics.ActiveSessions.Set(float64(count))
	return s.view(id, sess, controller.Snapshot()), nil
}

// makeRoom drops expired sessions, then the least recently used ones, until
// one more session fits under the limit. Callers hold s.mu.
func (s *SessionService) makeRoom() int {
	if s.limit <= 0 || len(s.sessions) < s.limit {
		return 0
	}

	now := s.now()
	evicted := 0
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
			evicted++
		}
	}
	for len(s.sessions) >= s.limit {
		var oldestID string
		var oldest time.Time
		for id, sess := range s.sessions {
			if oldestID == "" || sess.expiresAt.Before(oldest) {
				oldestID, oldest = id, sess.expiresAt
			}
		}
		delete(s.sessions, oldestID)
		evicted++
	}
	return evicted
}

// lookup returns a live session and extends its lifetime.
func (s *SessionService) lookup(id string) (*session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if now.After(sess.expiresAt) {
		delete(s.sessions, id)
		return nil, ErrSessionNotFound
	}
	sess.expiresAt = now.Add(s.ttl)
	return sess, nil
}

func (s *SessionService) view(id string, sess *session, snap catalog.Snapshot) *SessionView {
	s.mu.Lock()
	expires := sess.expiresAt
	s.mu.Unlock()
	return &SessionView{ID: id, ExpiresAt: expires, Snapshot: snap}
}

func (s *SessionService) apply(id string, fn func(*catalog.Controller) (catalog.Snapshot, error)) (*SessionView, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	snap, err := fn(sess.controller)
	if err != nil {
		return nil, err
	}
	return s.view(id, sess, snap), nil
}

func (s *SessionService) Get(id string) (*SessionView, error) {
	return s.apply(id, func(c *catalog.Controller) (catalog.Snapshot, error) {
		return c.Snapshot(), nil
	})
}

// Dispatch applies a batch of filter actions. An invalid action rejects the
// whole batch.
func (s *SessionService) Dispatch(id string, actions []catalog.Action) (*SessionView, error) {
	return s.apply(id, func(c *catalog.Controller) (catalog.Snapshot, error) {
		return c.Dispatch(actions...)
	})
}

func (s *SessionService) SetSearch(id, term string) (*SessionView, error) {
	return s.apply(id, func(c *catalog.Controller) (catalog.Snapshot, error) {
		return c.SetSearch(term), nil
	})
}

func (s *SessionService) SetSort(id string, key catalog.SortKey) (*SessionView, error) {
	return s.apply(id, func(c *catalog.Controller) (catalog.Snapshot, error) {
		return c.SetSort(key), nil
	})
}

func (s *SessionService) Clear(id string) (*SessionView, error) {
	return s.apply(id, func(c *catalog.Controller) (catalog.Snapshot, error) {
		return c.ClearFilters(), nil
	})
}

func (s *SessionService) ToggleGroup(id string, group catalog.Group) (*SessionView, error) {
	if !slices.Contains(catalog.Groups, group) {
		return nil, ErrUnknownGroup
	}
	return s.apply(id, func(c *catalog.Controller) (catalog.Snapshot, error) {
		return c.ToggleGroup(group), nil
	})
}

func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	metrics.ActiveSessions.Set(float64(count))
	return nil
}

func (s *SessionService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Rebase moves every live session onto a new product list, keeping each
// session's selections.
func (s *SessionService) Rebase(products []catalog.Product) {
	s.mu.Lock()
	controllers := make([]*catalog.Controller, 0, len(s.sessions))
	for _, sess := range s.sessions {
		controllers = append(controllers, sess.controller)
	}
	s.mu.Unlock()

	for _, c := range controllers {
		c.SetProducts(products)
	}
	if len(controllers) > 0 {
		logrus.WithField("sessions", len(controllers)).Debug("Sessions rebased on new snapshot")
	}
}

func (s *SessionService) evictExpired() int {
	s.mu.Lock()
	now := s.now()
	evicted := 0
	for id, sess := range s.sessions {
		if now.After(sess.expiresAt) {
			delete(s.sessions, id)
			evicted++
		}
	}
	count := len(s.sessions)
	s.mu.Unlock()

	metrics.ActiveSessions.Set(float64(count))
	return evicted
}

// StartCleanup evicts expired sessions every interval until ctx is done.
func (s *SessionService) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.evictExpired(); n > 0 {
					logrus.WithField("evicted", n).Info("Expired catalog sessions removed")
				}
			}
		}
	}()
}

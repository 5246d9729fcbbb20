package depend

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/dependkit/logger"
)

// Scope collects the resource teardowns acquired during one unit of work,
// typically a single injected call. Closing the scope runs them in reverse
// acquisition order, threading the consumer's outcome through each release:
// the error a release returns is what the next (outer) release observes, so
// a release can re-raise, replace, or absorb it exactly as a bare
// ReleaseFunc can.
type Scope struct {
	id  string
	inj *Injector

	mutex    sync.Mutex
	releases []ReleaseFunc
	closed   bool
}

// NewScope opens a resource scope on the injector.
func (inj *Injector) NewScope() *Scope {
	return &Scope{id: uuid.NewString(), inj: inj}
}

// ID is the scope's unique identifier, for log correlation.
func (s *Scope) ID() string { return s.id }

// Resolve resolves a descriptor inside the scope; any release the resolution
// produces runs when the scope closes.
func (s *Scope) Resolve(ctx context.Context, d *Descriptor) (any, error) {
	return s.inj.resolve(ctx, d, s)
}

func (s *Scope) add(release ReleaseFunc) {
	s.mutex.Lock()
	s.releases = append(s.releases, release)
	s.mutex.Unlock()
}

// Close tears down every acquired resource in reverse order. All releases
// run even when earlier ones fail; the returned error is the outcome after
// every release has observed and possibly rewritten it. Closing an already
// closed scope returns the consumer error unchanged.
func (s *Scope) Close(consumer error) error {
	s.mutex.Lock()
	if s.closed {
		s.mutex.Unlock()
		return consumer
	}
	s.closed = true
	releases := s.releases
	s.releases = nil
	s.mutex.Unlock()

	s.inj.log.Debug("closing scope", logger.Fields(
		logger.FieldScopeID, s.id,
		"releases", len(releases),
	))

	current := consumer
	for i := len(releases) - 1; i >= 0; i-- {
		current = releases[i](current)
	}
	return current
}

package server

import (
	"errors"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"study-assistant/internal/helper"
	"study-assistant/internal/study"
)

var errUnknownSession = errors.New("unknown session")

// entry guards one user's state. Its mutex is held for a whole action, remote calls included,
// so a user's requests apply in order.
type entry struct {
	mu    sync.Mutex
	state study.State
}

// registry holds live sessions. A session idle for longer than the ttl expires; release is
// called with its last state when it is evicted or deleted.
type registry struct {
	sessions *cache.Cache
}

func newRegistry(ttl time.Duration, release func(study.State)) *registry {
	c := cache.New(ttl, ttl)
	c.OnEvicted(func(id string, v interface{}) {
		e := v.(*entry)
		e.mu.Lock()
		st := e.state
		e.mu.Unlock()

		release(st)
		log.Debug().Str("session", id).Msg("Session closed")
	})
	return &registry{sessions: c}
}

func (r *registry) create() (string, error) {
	id, err := helper.GenerateUUID()
	if err != nil {
		return "", err
	}
	r.sessions.Set(id, &entry{}, cache.DefaultExpiration)
	return id, nil
}

// get returns the session and restarts its idle timer.
func (r *registry) get(id string) (*entry, error) {
	v, ok := r.sessions.Get(id)
	if !ok {
		return nil, errUnknownSession
	}
	r.sessions.Set(id, v, cache.DefaultExpiration)
	return v.(*entry), nil
}

// update runs fn on the session's state under its lock and stores the returned state. The
// state is stored even when fn fails; operations return the input state unchanged on error.
func (r *registry) update(id string, fn func(study.State) (study.State, error)) error {
	e, err := r.get(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	next, err := fn(e.state)
	e.state = next
	return err
}

func (r *registry) remove(id string) error {
	if _, ok := r.sessions.Get(id); !ok {
		return errUnknownSession
	}
	r.sessions.Delete(id)
	return nil
}

func (r *registry) count() int {
	return r.sessions.ItemCount()
}

// Package session owns the client session: the single authenticated identity,
// its mirror in durable key-value storage, and the login/register/logout/update
// lifecycle around it. Nothing else in the portal writes those keys.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/embaixada-angola/studentportal/internal/authclient"
	"github.com/embaixada-angola/studentportal/internal/domain/user"
	"github.com/embaixada-angola/studentportal/internal/kv"
	"github.com/embaixada-angola/studentportal/internal/observability"
)

// Storage keys, kept verbatim from the original portal so an existing
// stored session survives the rewrite.
const (
	identityKey = "angola_user"
	tokenKey    = "angola_token"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
)

// Snapshot is what subscribers receive on every state change.
type Snapshot struct {
	Identity *user.User
	Status   Status
	Busy     bool
}

// Store is the session state machine. All operations downgrade faults to a
// boolean result; callers never see an error from this type.
type Store struct {
	mu       sync.Mutex
	kv       kv.Store
	client   authclient.Client
	log      *slog.Logger
	prom     *observability.Prom
	identity *user.User
	status   Status
	busy     bool
	gen      uint64 // bumped by logout and every new login/register; stale results check it
	subs     map[int]func(Snapshot)
	nextSub  int
}

func NewStore(store kv.Store, client authclient.Client, log *slog.Logger, prom *observability.Prom) *Store {
	if log == nil {
		log = slog.Default()
	}

	return &Store{
		kv:     store,
		client: client,
		log:    log,
		prom:   prom,
		status: StatusLoading,
		subs:   make(map[int]func(Snapshot)),
	}
}

// Rehydrate restores the session from durable storage. Pure local read: a
// missing or unparsable record clears both keys and leaves the store
// anonymous. Safe to call more than once.
func (s *Store) Rehydrate() {
	s.mu.Lock()

	rawUser, errUser := s.kv.Get(identityKey)
	_, errToken := s.kv.Get(tokenKey)

	if errUser != nil || errToken != nil {
		s.clearLocked()
		s.status = StatusReady
		s.observe("rehydrate", false)
		s.unlockAndNotify()
		return
	}

	var u user.User

	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		s.log.Warn("stored session unreadable, clearing", "err", err)
		s.clearLocked()
		s.status = StatusReady
		s.observe("rehydrate", false)
		s.unlockAndNotify()
		return
	}

	s.identity = &u
	s.status = StatusReady
	s.observe("rehydrate", true)
	s.unlockAndNotify()
}

// Login authenticates against the backend. Returns false for bad credentials
// and for any backend or storage fault; state is left untouched on failure.
func (s *Store) Login(ctx context.Context, email, password string) bool {
	gen := s.begin()

	res, err := s.client.Login(ctx, email, password)

	if err != nil {
		if !errors.Is(err, authclient.ErrInvalidCredentials) {
			s.log.Error("login failed", "err", err)
		}
		s.finish(gen)
		s.observe("login", false)
		return false
	}

	ok := s.apply(gen, res)
	s.observe("login", ok)
	return ok
}

// Register creates a student account and signs it in.
func (s *Store) Register(ctx context.Context, req user.RegisterRequest) bool {
	gen := s.begin()

	res, err := s.client.Register(ctx, req)

	if err != nil {
		if !errors.Is(err, authclient.ErrInvalidCredentials) {
			s.log.Error("register failed", "err", err)
		}
		s.finish(gen)
		s.observe("register", false)
		return false
	}

	ok := s.apply(gen, res)
	s.observe("register", ok)
	return ok
}

// Logout drops the in-memory identity and both durable keys. Always succeeds.
func (s *Store) Logout() {
	s.mu.Lock()
	s.gen++
	s.busy = false
	s.identity = nil
	s.clearLocked()
	s.observe("logout", true)
	s.unlockAndNotify()
}

// UpdateUser shallow-merges a partial profile onto the current identity,
// bumps the update timestamp and persists the result. Returns false when no
// identity is set or anything downstream fails.
func (s *Store) UpdateUser(ctx context.Context, upd user.Update) bool {
	s.mu.Lock()

	if s.identity == nil {
		s.mu.Unlock()
		s.observe("update", false)
		return false
	}

	current := *s.identity
	gen := s.gen
	s.busy = true
	s.unlockAndNotify()

	err := s.client.Update(ctx, current.ID, upd)

	s.mu.Lock()

	if s.gen != gen || s.identity == nil {
		// logged out (or re-authenticated) while the call was in flight
		s.mu.Unlock()
		s.observe("update", false)
		return false
	}

	s.busy = false

	if err != nil {
		s.log.Error("profile update failed", "err", err)
		s.unlockAndNotify()
		s.observe("update", false)
		return false
	}

	merged := current.Merge(upd, time.Now().UTC())

	if err := s.persistIdentityLocked(merged); err != nil {
		s.log.Error("could not persist updated identity", "err", err)
		s.unlockAndNotify()
		s.observe("update", false)
		return false
	}

	s.identity = &merged
	s.unlockAndNotify()
	s.observe("update", true)
	return true
}

// Identity returns a copy of the current identity, or nil when anonymous.
func (s *Store) Identity() *user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return nil
	}

	u := *s.identity
	return &u
}

func (s *Store) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.identity != nil
}

func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.status
}

// Busy reports whether a login/register/update call is in flight, so the UI
// can disable its submit control instead of firing a second attempt.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.busy
}

// Subscribe registers fn for state-change notifications and returns an
// unsubscribe func. fn runs outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// begin marks the store busy and opens a new generation for an
// authentication attempt.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.busy = true
	s.unlockAndNotify()

	return gen
}

// finish clears the busy flag if the attempt for gen is still current.
func (s *Store) finish(gen uint64) {
	s.mu.Lock()

	if s.gen != gen {
		s.mu.Unlock()
		return
	}

	s.busy = false
	s.unlockAndNotify()
}

// apply installs a successful authentication result unless a newer operation
// superseded it while it was in flight.
func (s *Store) apply(gen uint64, res authclient.Result) bool {
	s.mu.Lock()

	if s.gen != gen {
		s.mu.Unlock()
		return false
	}

	s.busy = false

	if err := s.persistIdentityLocked(res.User); err != nil {
		s.log.Error("could not persist session", "err", err)
		s.unlockAndNotify()
		return false
	}

	if err := s.kv.Set(tokenKey, res.Token); err != nil {
		s.log.Error("could not persist session token", "err", err)
		_ = s.kv.Delete(identityKey)
		s.unlockAndNotify()
		return false
	}

	u := res.User
	s.identity = &u
	s.unlockAndNotify()
	return true
}

func (s *Store) persistIdentityLocked(u user.User) error {
	b, err := json.Marshal(u)

	if err != nil {
		return err
	}

	return s.kv.Set(identityKey, string(b))
}

func (s *Store) clearLocked() {
	s.identity = nil

	// Delete is idempotent; clearing on a clean miss is harmless and it is
	// exactly the self-heal we want on a corrupt read.
	_ = s.kv.Delete(identityKey)
	_ = s.kv.Delete(tokenKey)
}

// unlockAndNotify snapshots state, releases the lock and fans out to
// subscribers without holding it.
func (s *Store) unlockAndNotify() {
	snap := Snapshot{
		Identity: s.identity,
		Status:   s.status,
		Busy:     s.busy,
	}

	if snap.Identity != nil {
		u := *snap.Identity
		snap.Identity = &u
	}

	fns := make([]func(Snapshot), 0, len(s.subs))

	for _, fn := range s.subs {
		fns = append(fns, fn)
	}

	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s *Store) observe(op string, ok bool) {
	if s.prom == nil {
		return
	}

	s.prom.ObserveSession(op, ok)
}

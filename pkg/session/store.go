// Package session holds the current identity of one client, the registry it authenticates
// against and the role based access tables derived from it.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/Super-mario11/Transport-Tracker/pkg/kvstore"
	"github.com/rs/zerolog/log"
)

// SlotKey is the durable slot the current user is persisted under.
const SlotKey = "user"

type State int

const (
	StateLoading State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	}

	return "unknown"
}

// Store is the session of a single client. It starts in StateLoading and must be restored once
// before login or signup are accepted.
type Store struct {
	mutex sync.Mutex

	registry *Registry
	slot     kvstore.Store

	current *User
	loading bool
}

func NewStore(registry *Registry, slot kvstore.Store) *Store {
	return &Store{
		registry: registry,
		slot:     slot,
		loading:  true,
	}
}

// Restore loads the persisted user from the slot. Missing, unreadable or undecodable data leaves
// the session anonymous. Only the first call has any effect.
func (s *Store) Restore(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.loading {
		return
	}
	s.loading = false

	value, err := s.slot.Get(ctx, SlotKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return
	} else if err != nil {
		log.Warn().Err(err).Msg("Failed to read stored session")
		return
	}

	var user User
	if err := json.Unmarshal([]byte(value), &user); err != nil {
		log.Warn().Err(err).Msg("Failed to decode stored session")
		return
	}
	if user.Email == "" || !user.Role.IsValid() {
		log.Warn().Str("email", user.Email).Str("role", user.Role.String()).Msg("Ignoring invalid stored session")
		return
	}

	s.current = &user
}

// Login authenticates against the registry and makes the matching identity current.
func (s *Store) Login(ctx context.Context, email string, password string) (Role, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.login(ctx, email, password)
}

func (s *Store) login(ctx context.Context, email string, password string) (Role, error) {
	identity, ok := s.registry.Authenticate(email, password)
	if !ok {
		return "", newInvalidCredentialsError(s.registry.DemoEmails())
	}

	if err := s.checkCanAuthenticate(); err != nil {
		return "", err
	}

	user := identity.User()
	s.current = &user
	s.persist(ctx, user)

	log.Debug().Str("email", user.Email).Str("role", user.Role.String()).Msg("Logged in")

	return user.Role, nil
}

// Signup registers a new commuter account and logs it in.
func (s *Store) Signup(ctx context.Context, email string, password string) (Role, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.registry.Exists(email) {
		return "", newEmailExistsError(email)
	}

	if err := s.checkCanAuthenticate(); err != nil {
		return "", err
	}

	if !s.registry.Insert(Identity{Email: email, Password: password, Role: RoleUser}) {
		return "", newEmailExistsError(email)
	}

	log.Info().Str("email", email).Msg("Registered new user")

	return s.login(ctx, email, password)
}

// Logout clears the current user and the slot. The slot is cleared even when nobody is logged in,
// so a stored value that Restore rejected does not survive.
func (s *Store) Logout(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.current = nil

	if err := s.slot.Delete(ctx, SlotKey); err != nil {
		log.Error().Err(err).Msg("Failed to remove stored session")
	}
}

func (s *Store) Current() (User, bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.current == nil {
		return User{}, false
	}

	return *s.current, true
}

func (s *Store) IsLoading() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.loading
}

func (s *Store) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch {
	case s.loading:
		return StateLoading
	case s.current == nil:
		return StateAnonymous
	default:
		return StateAuthenticated
	}
}

func (s *Store) checkCanAuthenticate() error {
	if s.loading {
		return newNotRestoredError()
	}
	if s.current != nil {
		return newAlreadyAuthenticatedError()
	}

	return nil
}

// persist writes the user to the slot. Write failures are logged only; the in-memory session has
// already changed.
func (s *Store) persist(ctx context.Context, user User) {
	encoded, err := json.Marshal(user)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode session")
		return
	}

	if err := s.slot.Set(ctx, SlotKey, string(encoded)); err != nil {
		log.Error().Err(err).Msg("Failed to store session")
	}
}

package session

import (
	"sync"
)

// Registry is the set of known identities keyed by exact email. It is safe for concurrent use and
// is shared between every Store of a process.
type Registry struct {
	mutex      sync.RWMutex
	identities map[string]Identity
	order      []string
	demoEmails []string
}

func NewRegistry(identities ...Identity) *Registry {
	registry := &Registry{
		identities: map[string]Identity{},
	}

	for _, identity := range identities {
		if _, exists := registry.identities[identity.Email]; exists {
			continue
		}

		registry.identities[identity.Email] = identity
		registry.order = append(registry.order, identity.Email)
		registry.demoEmails = append(registry.demoEmails, identity.Email)
	}

	return registry
}

// NewDemoRegistry holds one account per role. The driver is assigned Bus 101.
func NewDemoRegistry() *Registry {
	return NewRegistry(
		Identity{Email: "user@example.com", Password: "123456", Role: RoleUser},
		Identity{Email: "driver@example.com", Password: "driver123", Role: RoleDriver, VehicleRef: "bus101"},
		Identity{Email: "admin@example.com", Password: "admin123", Role: RoleAdmin},
	)
}

// Authenticate returns the identity whose email and password both match exactly.
func (r *Registry) Authenticate(email string, password string) (Identity, bool) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	identity, ok := r.identities[email]
	if !ok || identity.Password != password {
		return Identity{}, false
	}

	return identity, true
}

func (r *Registry) Exists(email string) bool {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	_, ok := r.identities[email]
	return ok
}

// Insert adds the identity unless its email is already registered.
func (r *Registry) Insert(identity Identity) bool {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.identities[identity.Email]; exists {
		return false
	}

	r.identities[identity.Email] = identity
	r.order = append(r.order, identity.Email)

	return true
}

func (r *Registry) Len() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.identities)
}

// Emails lists every registered email in insertion order.
func (r *Registry) Emails() []string {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return append([]string(nil), r.order...)
}

// DemoEmails lists the accounts the registry was seeded with.
func (r *Registry) DemoEmails() []string {
	return append([]string(nil), r.demoEmails...)
}

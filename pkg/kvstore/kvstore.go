// Package kvstore provides the durable string-keyed slots the session layer persists into.
package kvstore

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("key not found")

// Store is a flat string key value store. Get returns ErrNotFound for absent keys and Delete of an
// absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Prefixed namespaces every key of the wrapped store.
type Prefixed struct {
	Store  Store
	Prefix string
}

func NewPrefixed(store Store, prefix string) *Prefixed {
	return &Prefixed{Store: store, Prefix: prefix}
}

func (p *Prefixed) key(key string) string {
	return fmt.Sprintf("%s%s", p.Prefix, key)
}

func (p *Prefixed) Get(ctx context.Context, key string) (string, error) {
	return p.Store.Get(ctx, p.key(key))
}

func (p *Prefixed) Set(ctx context.Context, key string, value string) error {
	return p.Store.Set(ctx, p.key(key), value)
}

func (p *Prefixed) Delete(ctx context.Context, key string) error {
	return p.Store.Delete(ctx, p.key(key))
}

// DevicePrefix is the namespace used for the slots of a single browser device.
func DevicePrefix(deviceID string) string {
	return fmt.Sprintf("device:%s:", deviceID)
}

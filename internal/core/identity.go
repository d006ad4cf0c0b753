package core

import (
	"fmt"
	"strconv"
	"strings"
)

// GuestPrefix starts every auto-generated name. Renames may not use it.
const GuestPrefix = "Guest"

// IdentityRegistry maps connections to display names and tracks which names are taken.
// It is not safe for concurrent use; the Hub owns it and touches it only from its loop.
type IdentityRegistry struct {
	nextGuest int
	names     map[string]string
	used      map[string]struct{}
}

// NewIdentityRegistry returns an empty registry with the guest counter seeded at 1.
func NewIdentityRegistry() *IdentityRegistry {
	return &IdentityRegistry{
		nextGuest: 1,
		names:     make(map[string]string),
		used:      make(map[string]struct{}),
	}
}

// AssignGuestName gives the connection the next Guest<N> name. Numbers are never reused.
func (r *IdentityRegistry) AssignGuestName(conn string) string {
	name := GuestPrefix + strconv.Itoa(r.nextGuest)
	r.nextGuest++
	r.names[conn] = name
	r.used[name] = struct{}{}
	return name
}

// AttemptRename switches the connection to requested and returns the name it had before.
// On error nothing is changed.
func (r *IdentityRegistry) AttemptRename(conn, requested string) (string, error) {
	if strings.HasPrefix(requested, GuestPrefix) {
		return "", ErrReservedPrefix
	}
	if r.InUse(requested) {
		return "", ErrNameTaken
	}

	previous := r.NameOf(conn)
	r.used[requested] = struct{}{}
	r.names[conn] = requested
	delete(r.used, previous)
	return previous, nil
}

// Release frees the connection's name. Unknown connections are ignored.
func (r *IdentityRegistry) Release(conn string) {
	name, ok := r.names[conn]
	if !ok {
		return
	}
	delete(r.used, name)
	delete(r.names, conn)
}

// NameOf returns the connection's display name.
// Every live connection has one, so a miss means cleanup ran out of order and panics.
func (r *IdentityRegistry) NameOf(conn string) string {
	name, ok := r.names[conn]
	if !ok {
		panic(fmt.Sprintf("core: no display name for connection %q", conn))
	}
	return name
}

// Lookup is NameOf without the invariant check.
func (r *IdentityRegistry) Lookup(conn string) (string, bool) {
	name, ok := r.names[conn]
	return name, ok
}

// InUse reports whether name is currently assigned to some connection.
func (r *IdentityRegistry) InUse(name string) bool {
	_, ok := r.used[name]
	return ok
}

// Len returns the number of named connections.
func (r *IdentityRegistry) Len() int {
	return len(r.names)
}

package socket

import "sync"

// Binding ties a live connection to the identity it authenticated as.
// Immutable for the life of the connection.
type Binding struct {
	UserID   string
	Username string
}

// Registry maps connections to identities and back. A user may hold any
// number of simultaneous connections (multiple tabs); delivery targets all
// of them. It holds no durable state: disconnect is the only teardown path.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]Binding
	byUser map[string]map[string]struct{}
}

// NewRegistry initializes an empty session registry
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]Binding),
		byUser: make(map[string]map[string]struct{}),
	}
}

// Bind records a newly authenticated connection
func (r *Registry) Bind(connID string, binding Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byConn[connID] = binding
	conns, ok := r.byUser[binding.UserID]
	if !ok {
		conns = make(map[string]struct{})
		r.byUser[binding.UserID] = conns
	}
	conns[connID] = struct{}{}
}

// Unbind purges a connection and reports the binding it held and whether
// the user still has other live connections.
func (r *Registry) Unbind(connID string) (Binding, bool, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	binding, ok := r.byConn[connID]
	if !ok {
		return Binding{}, false, false
	}
	delete(r.byConn, connID)

	stillOnline := false
	if conns, ok := r.byUser[binding.UserID]; ok {
		delete(conns, connID)
		if len(conns) == 0 {
			delete(r.byUser, binding.UserID)
		} else {
			stillOnline = true
		}
	}
	return binding, true, stillOnline
}

// Lookup resolves a connection to its identity
func (r *Registry) Lookup(connID string) (Binding, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	binding, ok := r.byConn[connID]
	return binding, ok
}

// Connections returns the ids of every live connection a user holds
func (r *Registry) Connections(userID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns, ok := r.byUser[userID]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(conns))
	for id := range conns {
		ids = append(ids, id)
	}
	return ids
}

// Online reports whether the user has at least one live connection
func (r *Registry) Online(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

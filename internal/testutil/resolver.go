// AngelaMos | 2026
// resolver.go

package testutil

import (
	"context"
	"sync"
)

// Resolver is an in-memory workspace resolver. Each lookup returns its
// configured error when set.
type Resolver struct {
	WorkspaceID string
	EmployerID  string
	StateCode   string
	Members     map[string]bool

	WorkspaceErr error
	EmployerErr  error
	StateErr     error
	MemberErr    error

	mu    sync.Mutex
	calls int
}

func NewResolver() *Resolver {
	return &Resolver{
		WorkspaceID: WorkspaceID,
		EmployerID:  EmployerID,
		StateCode:   "CA",
		Members:     map[string]bool{WorkspaceID: true},
	}
}

func (r *Resolver) ResolveActiveWorkspaceID(context.Context, string) (string, error) {
	r.track()
	if r.WorkspaceErr != nil {
		return "", r.WorkspaceErr
	}
	return r.WorkspaceID, nil
}

func (r *Resolver) ResolveEmployerIDForWorkspace(context.Context, string) (string, error) {
	r.track()
	if r.EmployerErr != nil {
		return "", r.EmployerErr
	}
	return r.EmployerID, nil
}

func (r *Resolver) ResolveEmployerStateForWorkspace(context.Context, string) (string, error) {
	r.track()
	if r.EmployerErr != nil {
		return "", r.EmployerErr
	}
	if r.StateErr != nil {
		return "", r.StateErr
	}
	return r.StateCode, nil
}

func (r *Resolver) IsMember(_ context.Context, _, workspaceID string) (bool, error) {
	r.track()
	if r.MemberErr != nil {
		return false, r.MemberErr
	}
	return r.Members[workspaceID], nil
}

// Calls counts lookups of any kind.
func (r *Resolver) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func (r *Resolver) track() {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
}

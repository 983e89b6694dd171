// AngelaMos | 2026
// resolver.go

package workspace

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/spryng/elevyn/internal/core"
)

var (
	ErrNoActiveWorkspace      = errors.New("no active workspace")
	ErrNoEmployerForWorkspace = errors.New("no employer for workspace")
	ErrMissingEmployerState   = errors.New("employer state code missing")
)

const defaultPersistTimeout = 5 * time.Second

// Resolver decides which workspace and employer a caller acts on. Every
// write is scoped through it; a client supplied workspace id is never used.
type Resolver struct {
	repo           Repository
	logger         *slog.Logger
	persistTimeout time.Duration
	pending        sync.WaitGroup
}

func NewResolver(repo Repository, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		repo:           repo,
		logger:         logger,
		persistTimeout: defaultPersistTimeout,
	}
}

// ResolveActiveWorkspaceID returns the caller's active workspace pointer,
// falling back to their oldest membership. A fallback hit is written back
// as the active pointer in the background; that write is lossy and its
// failure only logged.
func (r *Resolver) ResolveActiveWorkspaceID(
	ctx context.Context,
	userID string,
) (string, error) {
	id, err := r.repo.GetActiveWorkspaceID(ctx, userID)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return "", fmt.Errorf("resolve active workspace: %w", err)
	}

	id, err = r.repo.FirstMembershipWorkspaceID(ctx, userID)
	if errors.Is(err, core.ErrNotFound) {
		return "", ErrNoActiveWorkspace
	}
	if err != nil {
		return "", fmt.Errorf("resolve active workspace: %w", err)
	}

	core.AddSpanEvent(ctx, "workspace.membership_fallback", "workspace.id", id)
	r.persistActive(ctx, userID, id)
	return id, nil
}

func (r *Resolver) persistActive(ctx context.Context, userID, workspaceID string) {
	r.pending.Add(1)

	go func() {
		defer r.pending.Done()

		writeCtx, cancel := context.WithTimeout(
			context.WithoutCancel(ctx),
			r.persistTimeout,
		)
		defer cancel()

		if err := r.repo.SetActiveWorkspace(writeCtx, userID, workspaceID); err != nil {
			r.logger.Warn("persist fallback active workspace failed",
				"error", err,
				"user_id", userID,
				"workspace_id", workspaceID,
			)
		}
	}()
}

// Wait blocks until background active-workspace writes have finished.
func (r *Resolver) Wait() {
	r.pending.Wait()
}

func (r *Resolver) ResolveEmployer(
	ctx context.Context,
	workspaceID string,
) (*Employer, error) {
	e, err := r.repo.GetEmployerByWorkspace(ctx, workspaceID)
	if errors.Is(err, core.ErrNotFound) {
		return nil, ErrNoEmployerForWorkspace
	}
	if err != nil {
		return nil, fmt.Errorf("resolve employer: %w", err)
	}
	return e, nil
}

func (r *Resolver) ResolveEmployerIDForWorkspace(
	ctx context.Context,
	workspaceID string,
) (string, error) {
	e, err := r.ResolveEmployer(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	return e.ID, nil
}

func (r *Resolver) ResolveEmployerStateForWorkspace(
	ctx context.Context,
	workspaceID string,
) (string, error) {
	e, err := r.ResolveEmployer(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	if !e.HasState() {
		return "", ErrMissingEmployerState
	}
	return e.StateCode.String, nil
}

func (r *Resolver) IsMember(
	ctx context.Context,
	userID, workspaceID string,
) (bool, error) {
	return r.repo.IsMember(ctx, userID, workspaceID)
}

// ResolutionError maps resolver failures onto the response envelope.
// Store failures are left for the generic 500 path.
func ResolutionError(err error) error {
	switch {
	case errors.Is(err, ErrNoActiveWorkspace):
		return core.NewAppError(
			err,
			"no active workspace; complete company setup first",
			http.StatusBadRequest,
			core.CodeNoActiveWorkspace,
		)
	case errors.Is(err, ErrNoEmployerForWorkspace):
		return core.NewAppError(
			err,
			"no employer exists for this workspace",
			http.StatusBadRequest,
			core.CodeNoEmployerForWorkspace,
		)
	case errors.Is(err, ErrMissingEmployerState):
		return core.NewAppError(
			err,
			"employer has no state code",
			http.StatusBadRequest,
			core.CodeMissingEmployerState,
		)
	default:
		return err
	}
}

func IsResolutionError(err error) bool {
	return errors.Is(err, ErrNoActiveWorkspace) ||
		errors.Is(err, ErrNoEmployerForWorkspace) ||
		errors.Is(err, ErrMissingEmployerState)
}

// WriteError maps a failed scoped write. Resolver failures keep their own
// codes; anything else is relayed as a store rejection under code.
func WriteError(code string, err error) error {
	if IsResolutionError(err) {
		return ResolutionError(err)
	}
	return core.StoreWriteError(code, err)
}

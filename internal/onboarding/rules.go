// AngelaMos | 2026
// rules.go

package onboarding

import (
	"context"
	"errors"
	"net/url"

	"github.com/spryng/elevyn/internal/workspace"
)

const (
	PathLogin   = "/login"
	PathRouter  = "/onboarding"
	PathClaim   = "/onboarding/claim"
	PathCompany = "/onboarding/company"
	PathApp     = "/app"
)

// Facts answers the questions the rules ask about one request. Store-backed
// answers are loaded on first use so an early match costs no queries.
type Facts interface {
	Authenticated() bool
	HasPendingClaim() bool
	HasWorkspace(ctx context.Context) (bool, error)
	HasEmployer(ctx context.Context) (bool, error)
}

type Guard func(ctx context.Context, f Facts) (bool, error)

type Rule struct {
	Name        string
	Guard       Guard
	Destination string
}

// Rules is evaluated top to bottom and the first matching guard wins. A
// pending quiz claim outranks the workspace checks so answers taken before
// signup are attached before any company setup starts.
var Rules = []Rule{
	{
		Name:        "unauthenticated",
		Guard:       func(_ context.Context, f Facts) (bool, error) { return !f.Authenticated(), nil },
		Destination: PathLogin + "?next=" + url.QueryEscape(PathRouter),
	},
	{
		Name:        "pending claim",
		Guard:       func(_ context.Context, f Facts) (bool, error) { return f.HasPendingClaim(), nil },
		Destination: PathClaim,
	},
	{
		Name:        "no workspace",
		Guard:       negate(Facts.HasWorkspace),
		Destination: PathCompany,
	},
	{
		Name:        "no employer",
		Guard:       negate(Facts.HasEmployer),
		Destination: PathCompany,
	},
	{
		Name:        "ready",
		Guard:       func(context.Context, Facts) (bool, error) { return true, nil },
		Destination: PathApp,
	},
}

// Decide returns the destination of the first rule whose guard matches.
func Decide(ctx context.Context, rules []Rule, f Facts) (string, error) {
	for _, rule := range rules {
		ok, err := rule.Guard(ctx, f)
		if err != nil {
			return "", err
		}
		if ok {
			return rule.Destination, nil
		}
	}
	return PathApp, nil
}

func negate(check func(Facts, context.Context) (bool, error)) Guard {
	return func(ctx context.Context, f Facts) (bool, error) {
		ok, err := check(f, ctx)
		return !ok, err
	}
}

type WorkspaceResolver interface {
	ResolveActiveWorkspaceID(ctx context.Context, userID string) (string, error)
	ResolveEmployerIDForWorkspace(ctx context.Context, workspaceID string) (string, error)
}

type requestFacts struct {
	userID   string
	hasClaim bool
	resolver WorkspaceResolver

	workspaceID     string
	workspaceLoaded bool
}

// NewFacts builds the facts for one caller. userID is empty for anonymous
// requests.
func NewFacts(userID string, hasClaim bool, resolver WorkspaceResolver) Facts {
	return &requestFacts{
		userID:   userID,
		hasClaim: hasClaim,
		resolver: resolver,
	}
}

func (f *requestFacts) Authenticated() bool   { return f.userID != "" }
func (f *requestFacts) HasPendingClaim() bool { return f.hasClaim }

func (f *requestFacts) HasWorkspace(ctx context.Context) (bool, error) {
	if f.workspaceLoaded {
		return f.workspaceID != "", nil
	}

	id, err := f.resolver.ResolveActiveWorkspaceID(ctx, f.userID)
	if err != nil && !errors.Is(err, workspace.ErrNoActiveWorkspace) {
		return false, err
	}
	f.workspaceID = id
	f.workspaceLoaded = true
	return id != "", nil
}

func (f *requestFacts) HasEmployer(ctx context.Context) (bool, error) {
	ok, err := f.HasWorkspace(ctx)
	if err != nil || !ok {
		return false, err
	}

	_, err = f.resolver.ResolveEmployerIDForWorkspace(ctx, f.workspaceID)
	if errors.Is(err, workspace.ErrNoEmployerForWorkspace) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

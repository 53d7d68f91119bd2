package service

import (
	"fmt"

	"github.com/promptdeck/promptdeck-backend/internal/common"
	"github.com/promptdeck/promptdeck-backend/internal/domain"
)

// Moderation actions accepted on PUT /submissions/:id/status
const (
	ActionSubmit   = "submit"
	ActionApprove  = "approve"
	ActionReject   = "reject"
	ActionResubmit = "resubmit"
)

// Actor is the resolved identity attempting a transition
type Actor struct {
	ID   string
	Role string
}

// edge is one directed transition in the status graph
type edge struct {
	from string
	to   string
}

// rule constrains who may take an edge and what it requires.
// Exactly one of adminOnly / authorOnly is set per rule.
type rule struct {
	adminOnly   bool
	authorOnly  bool
	noteRequire bool
}

// transitionTable is the fixed legality table. An edge absent from the table
// is illegal for everyone, self-loops included.
var transitionTable = map[edge]rule{
	{domain.StatusDraft, domain.StatusPending}:    {authorOnly: true},
	{domain.StatusPending, domain.StatusApproved}: {adminOnly: true},
	{domain.StatusPending, domain.StatusRejected}: {adminOnly: true, noteRequire: true},
	{domain.StatusRejected, domain.StatusPending}: {authorOnly: true},
}

// actionTargets maps a requested action to the status it lands on
var actionTargets = map[string]string{
	ActionSubmit:   domain.StatusPending,
	ActionApprove:  domain.StatusApproved,
	ActionReject:   domain.StatusRejected,
	ActionResubmit: domain.StatusPending,
}

// ResolveAction translates an action name into its target status
func ResolveAction(action string) (string, error) {
	target, ok := actionTargets[action]
	if !ok {
		return "", fmt.Errorf("%w: unknown action %q", common.ErrInvalidInput, action)
	}
	return target, nil
}

// ValidateTransition checks the requested edge against the legality table,
// then the actor constraint, then the note requirement.
//
// The edge check comes first so "transition does not exist" and "you lack
// permission" stay distinguishable: the former is a client bug
// (ErrIllegalTransition), the latter a security-relevant rejection
// (ErrForbidden).
func ValidateTransition(current, target string, actor Actor, authorID string, note string) error {
	r, ok := transitionTable[edge{current, target}]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", common.ErrIllegalTransition, current, target)
	}

	switch {
	case r.adminOnly:
		if actor.Role != domain.RoleAdmin {
			return fmt.Errorf("%w: %s -> %s requires admin role", common.ErrForbidden, current, target)
		}
	case r.authorOnly:
		if actor.ID != authorID {
			return fmt.Errorf("%w: %s -> %s is reserved for the author", common.ErrForbidden, current, target)
		}
	}

	if r.noteRequire && note == "" {
		return fmt.Errorf("%w: a note explaining the rejection is required", common.ErrInvalidContent)
	}

	return nil
}

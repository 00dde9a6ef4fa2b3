// Package guard decides whether the current session may enter a protected
// view and which role-scoped actions it may perform.  Every decision is
// computed from the session passed in; nothing is cached.
package guard

import (
	"github.com/iliyamo/vacation-portal/internal/model"
	"github.com/iliyamo/vacation-portal/internal/session"
)

// CanEnter reports whether s may enter a protected view.
func CanEnter(s session.Session) bool {
	return s.Status == session.StatusAuthenticated && s.Principal != nil
}

// Action is a role-scoped operation a view may offer.
type Action string

const (
	ActionCreateVacation Action = "vacation.create"
	ActionEditVacation   Action = "vacation.edit"
	ActionDeleteVacation Action = "vacation.delete"
	ActionLikeVacation   Action = "vacation.like"
	ActionViewStatistics Action = "statistics.view"
)

// Can reports whether principal may perform action.  A nil principal is
// anonymous and may do nothing.  Managing vacations and the statistics
// dashboard are reserved for administrators; liking is offered to members
// only.
func Can(p *model.Principal, action Action) bool {
	if p == nil {
		return false
	}
	switch action {
	case ActionCreateVacation, ActionEditVacation, ActionDeleteVacation, ActionViewStatistics:
		return p.Role() == model.RoleAdministrator
	case ActionLikeVacation:
		return p.Role() == model.RoleMember
	}
	return false
}

// Affordances are the per-render action flags a view exposes.
type Affordances struct {
	CanCreate bool `json:"canCreate"`
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
	CanLike   bool `json:"canLike"`
}

// AffordancesFor evaluates every vacation action for p.
func AffordancesFor(p *model.Principal) Affordances {
	return Affordances{
		CanCreate: Can(p, ActionCreateVacation),
		CanEdit:   Can(p, ActionEditVacation),
		CanDelete: Can(p, ActionDeleteVacation),
		CanLike:   Can(p, ActionLikeVacation),
	}
}

// Guard carries the anonymous-accessible view to redirect to.
type Guard struct {
	RedirectTo string
}

// New returns a Guard redirecting to redirectTo, or "/login" when empty.
func New(redirectTo string) Guard {
	if redirectTo == "" {
		redirectTo = "/login"
	}
	return Guard{RedirectTo: redirectTo}
}

// Decision is the outcome of evaluating a navigation to View.
type Decision struct {
	View     string `json:"view"`
	Allowed  bool   `json:"allowed"`
	Redirect string `json:"redirect,omitempty"`
}

// Decide evaluates a navigation to view for s.
func (g Guard) Decide(view string, s session.Session) Decision {
	if CanEnter(s) {
		return Decision{View: view, Allowed: true}
	}
	return Decision{View: view, Allowed: false, Redirect: g.RedirectTo}
}

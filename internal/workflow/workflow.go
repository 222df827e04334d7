// Package workflow holds the fixed approval transition tables. A table maps
// (stage, role, decision, submitter kind) to the next stage; every stage that
// is not terminal names exactly one role as its current actor.
package workflow

import (
	"fmt"
)

type Role string

const (
	RoleHR       Role = "hr"
	RoleDeptHead Role = "dept_head"
	RoleAdmin    Role = "admin"
)

func ParseRole(v string) (Role, error) {
	switch r := Role(v); r {
	case RoleHR, RoleDeptHead, RoleAdmin:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, v)
	}
}

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// Submitter distinguishes who filed the request. SubmitterAny on a
// transition matches every submitter.
type Submitter string

const (
	SubmitterAny      Submitter = ""
	SubmitterEmployee Submitter = "employee"
	SubmitterDeptHead Submitter = "dept_head"
)

func SubmitterOf(isDeptHead bool) Submitter {
	if isDeptHead {
		return SubmitterDeptHead
	}
	return SubmitterEmployee
}

type Stage interface {
	~string
}

type Transition[S Stage] struct {
	From      S
	Role      Role
	Decision  Decision
	Submitter Submitter
	To        S
}

type Table[S Stage] struct {
	name        string
	initial     S
	actors      map[S]Role
	terminal    map[S]bool
	transitions []Transition[S]
}

func NewTable[S Stage](name string, initial S, actors map[S]Role, terminal []S, transitions ...Transition[S]) *Table[S] {
	t := &Table[S]{
		name:        name,
		initial:     initial,
		actors:      actors,
		terminal:    make(map[S]bool, len(terminal)),
		transitions: transitions,
	}
	for _, s := range terminal {
		t.terminal[s] = true
	}
	return t
}

func (t *Table[S]) Name() string { return t.name }

func (t *Table[S]) Initial() S { return t.initial }

// Actor returns the role that must act while a request sits in stage.
func (t *Table[S]) Actor(stage S) (Role, bool) {
	r, ok := t.actors[stage]
	return r, ok
}

func (t *Table[S]) IsTerminal(stage S) bool {
	return t.terminal[stage]
}

// Next resolves the stage reached when role takes decision on a request
// currently at from. A submitter-specific transition wins over SubmitterAny.
func (t *Table[S]) Next(from S, role Role, decision Decision, submitter Submitter) (S, error) {
	var zero S
	if t.IsTerminal(from) {
		return zero, fmt.Errorf("%w: %s is %s", ErrAlreadyProcessed, t.name, from)
	}

	actor, ok := t.actors[from]
	if !ok || actor != role {
		return zero, fmt.Errorf("%w: %s is %s, role %s cannot act", ErrNotInStage, t.name, from, role)
	}

	var fallback *Transition[S]
	for i := range t.transitions {
		tr := &t.transitions[i]
		if tr.From != from || tr.Role != role || tr.Decision != decision {
			continue
		}
		if tr.Submitter == submitter && submitter != SubmitterAny {
			return tr.To, nil
		}
		if tr.Submitter == SubmitterAny && fallback == nil {
			fallback = tr
		}
	}
	if fallback != nil {
		return fallback.To, nil
	}

	return zero, fmt.Errorf("%w: %s %s by %s at %s", ErrNoTransition, t.name, decision, role, from)
}

// Transitions exposes the table rows, mainly for tests and docs.
func (t *Table[S]) Transitions() []Transition[S] {
	out := make([]Transition[S], len(t.transitions))
	copy(out, t.transitions)
	return out
}

// Actor is the authenticated caller. Role is the raw claim; ordinary
// employees carry a role that ParseRole rejects.
type Actor struct {
	EmployeeID string
	Role       string
}

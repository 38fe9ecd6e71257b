package domain

import (
	"fmt"
	"time"
)

// InvalidTransitionError is returned by Advance when the requested target
// stage is not reachable from the school's current stage.
type InvalidTransitionError struct {
	From Stage
	To   Stage
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move school from %q to %q", e.From, e.To)
}

// StageMutation is the full set of field changes implied by a stage advance.
// It never carries contact fields or last-edited bookkeeping; those belong to
// ContactMutation.
type StageMutation struct {
	Stage           Stage
	LastContactDate time.Time
	// AssignRep is true only when the transition enters Appointment Booked;
	// SalesRepID/Name are meaningful only in that case.
	AssignRep    bool
	SalesRepID   string
	SalesRepName string
	// ExpectedVersion is the version the mutation was computed against.
	ExpectedVersion int
}

// Advance validates a stage transition and computes its side effects.
//
// Rep assignment happens exactly once, on entering Appointment Booked: that
// is the point where a rep earns ownership of the school. Later transitions
// keep whatever rep was set there, regardless of who performs them.
func Advance(s School, target Stage, actingRep RepRef, now time.Time) (StageMutation, error) {
	if !IsKnownStage(target) {
		return StageMutation{}, &InvalidTransitionError{From: s.Stage, To: target}
	}
	if !CanTransition(s.Stage, target) {
		return StageMutation{}, &InvalidTransitionError{From: s.Stage, To: target}
	}

	m := StageMutation{
		Stage:           target,
		LastContactDate: truncateToDate(now),
		ExpectedVersion: s.Version,
	}
	if target == StageAppointmentBooked {
		m.AssignRep = true
		m.SalesRepID = actingRep.ID
		m.SalesRepName = actingRep.Name
	}
	return m, nil
}

// Apply returns a copy of s with the mutation applied. The caller is
// responsible for persisting the result.
func (m StageMutation) Apply(s School) School {
	s.Stage = m.Stage
	s.LastContactDate = m.LastContactDate
	if m.AssignRep {
		repID := m.SalesRepID
		repName := m.SalesRepName
		s.SalesRepID = &repID
		s.SalesRepName = &repName
	}
	s.Version++
	return s
}

// ContactUpdate is a partial set of contact fields. Nil pointers mean "leave
// untouched"; a field is never cleared by omission.
type ContactUpdate struct {
	PrincipalName  *string
	PrincipalEmail *string
	SecretaryEmail *string
	StudentCount   *int
}

// ContactMutation is the change set produced by a contact-info edit.
type ContactMutation struct {
	ContactUpdate
	LastEditedBy    string
	LastEditedAt    time.Time
	ExpectedVersion int
}

// EditContact merges the provided contact fields and stamps the editor. It
// never touches the stage, the rep assignment, or LastContactDate.
func EditContact(s School, update ContactUpdate, editorName string, now time.Time) ContactMutation {
	return ContactMutation{
		ContactUpdate:   update,
		LastEditedBy:    editorName,
		LastEditedAt:    now,
		ExpectedVersion: s.Version,
	}
}

// Apply returns a copy of s with the contact mutation applied.
func (m ContactMutation) Apply(s School) School {
	if m.PrincipalName != nil {
		s.PrincipalName = *m.PrincipalName
	}
	if m.PrincipalEmail != nil {
		s.PrincipalEmail = *m.PrincipalEmail
	}
	if m.SecretaryEmail != nil {
		email := *m.SecretaryEmail
		s.SecretaryEmail = &email
	}
	if m.StudentCount != nil {
		s.StudentCount = *m.StudentCount
	}
	editedBy := m.LastEditedBy
	editedAt := m.LastEditedAt
	s.LastEditedBy = &editedBy
	s.LastEditedAt = &editedAt
	s.Version++
	return s
}

func truncateToDate(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

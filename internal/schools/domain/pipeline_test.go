package domain

import (
	"errors"
	"testing"
	"time"
)

var allStages = []Stage{
	StageColdLead,
	StageEmailSent,
	StageMoreInfoRequested,
	StageAppointmentBooked,
	StageFinalizing,
	StageLetterDistribution,
	StageCompleted,
	StageNotInterested,
}

var forwardOrder = []Stage{
	StageColdLead,
	StageEmailSent,
	StageMoreInfoRequested,
	StageAppointmentBooked,
	StageFinalizing,
	StageLetterDistribution,
	StageCompleted,
}

func testSchool(stage Stage) School {
	return School{
		Name:           "Greenwood High School",
		PrincipalName:  "A. Jacobs",
		PrincipalEmail: "principal@greenwood.co.za",
		Stage:          stage,
		Track:          TrackAcquisition,
		StudentCount:   640,
	}
}

// Every (from, to) stage pair must be accepted iff "to" is the immediate
// forward successor of "from", or "to" is Not Interested and "from" is
// non-terminal.
func TestCanTransitionFullTable(t *testing.T) {
	successor := make(map[Stage]Stage)
	for i := 0; i < len(forwardOrder)-1; i++ {
		successor[forwardOrder[i]] = forwardOrder[i+1]
	}

	for _, from := range allStages {
		for _, to := range allStages {
			want := false
			if !from.IsTerminal() {
				want = successor[from] == to || to == StageNotInterested
			}
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%q, %q) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestAdvanceRejectsUnreachableStages(t *testing.T) {
	rep := RepRef{ID: "rep_1", Name: "Thandi M"}
	now := time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC)

	cases := []struct {
		name   string
		from   Stage
		target Stage
	}{
		{"skip forward", StageColdLead, StageAppointmentBooked},
		{"move backward", StageFinalizing, StageAppointmentBooked},
		{"out of completed", StageCompleted, StageNotInterested},
		{"out of not interested", StageNotInterested, StageColdLead},
		{"self transition", StageEmailSent, StageEmailSent},
		{"unknown stage", StageColdLead, Stage("Warm Lead")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Advance(testSchool(tc.from), tc.target, rep, now)
			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("Advance(%q -> %q) err = %v, want InvalidTransitionError", tc.from, tc.target, err)
			}
			if invalid.From != tc.from || invalid.To != tc.target {
				t.Errorf("error carries (%q, %q), want (%q, %q)", invalid.From, invalid.To, tc.from, tc.target)
			}
		})
	}
}

func TestAdvanceAssignsRepOnlyAtAppointmentBooked(t *testing.T) {
	repA := RepRef{ID: "rep_a", Name: "Rep A"}
	repB := RepRef{ID: "rep_b", Name: "Rep B"}
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

	s := testSchool(StageMoreInfoRequested)

	m, err := Advance(s, StageAppointmentBooked, repA, now)
	if err != nil {
		t.Fatalf("Advance to Appointment Booked: %v", err)
	}
	if !m.AssignRep || m.SalesRepID != "rep_a" || m.SalesRepName != "Rep A" {
		t.Fatalf("expected rep A assignment, got %+v", m)
	}
	s = m.Apply(s)
	if s.SalesRepID == nil || *s.SalesRepID != "rep_a" {
		t.Fatalf("apply did not set rep: %+v", s)
	}

	// A different rep advancing further must not steal ownership.
	m, err = Advance(s, StageFinalizing, repB, now.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("Advance to Finalizing: %v", err)
	}
	if m.AssignRep {
		t.Fatal("Finalizing transition must not re-assign the rep")
	}
	s = m.Apply(s)
	if *s.SalesRepID != "rep_a" || *s.SalesRepName != "Rep A" {
		t.Errorf("rep changed to %q/%q, want rep A", *s.SalesRepID, *s.SalesRepName)
	}
}

func TestAdvanceUpdatesLastContactDateOnly(t *testing.T) {
	rep := RepRef{ID: "rep_1", Name: "Thandi M"}
	now := time.Date(2025, 6, 2, 23, 45, 12, 0, time.UTC)

	s := testSchool(StageColdLead)
	editor := "someone"
	editedAt := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
	s.LastEditedBy = &editor
	s.LastEditedAt = &editedAt

	m, err := Advance(s, StageEmailSent, rep, now)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC); !m.LastContactDate.Equal(want) {
		t.Errorf("LastContactDate = %v, want date-truncated %v", m.LastContactDate, want)
	}

	after := m.Apply(s)
	if *after.LastEditedBy != editor || !after.LastEditedAt.Equal(editedAt) {
		t.Error("stage advance must not touch lastEditedBy/lastEditedAt")
	}
	if after.PrincipalName != s.PrincipalName || after.PrincipalEmail != s.PrincipalEmail {
		t.Error("stage advance must not touch contact fields")
	}
}

func TestAdvanceToNotInterestedFromEveryNonTerminalStage(t *testing.T) {
	rep := RepRef{ID: "rep_1", Name: "Thandi M"}
	now := time.Now()

	for _, from := range allStages {
		if from.IsTerminal() {
			continue
		}
		m, err := Advance(testSchool(from), StageNotInterested, rep, now)
		if err != nil {
			t.Errorf("Advance(%q -> Not Interested): %v", from, err)
			continue
		}
		if m.AssignRep {
			t.Errorf("Not Interested from %q must not assign a rep", from)
		}
	}
}

func TestEditContactMergesPartially(t *testing.T) {
	s := testSchool(StageAppointmentBooked)
	repID := "rep_a"
	repName := "Rep A"
	s.SalesRepID = &repID
	s.SalesRepName = &repName

	newEmail := "head@greenwood.co.za"
	count := 700
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	m := EditContact(s, ContactUpdate{PrincipalEmail: &newEmail, StudentCount: &count}, "Thandi M", now)
	after := m.Apply(s)

	if after.PrincipalEmail != newEmail || after.StudentCount != count {
		t.Errorf("provided fields not merged: %+v", after)
	}
	if after.PrincipalName != s.PrincipalName {
		t.Error("omitted field was changed")
	}
	if after.SecretaryEmail != nil {
		t.Error("omitted nil field was set")
	}
	if after.LastEditedBy == nil || *after.LastEditedBy != "Thandi M" {
		t.Error("lastEditedBy not stamped")
	}
	if after.LastEditedAt == nil || !after.LastEditedAt.Equal(now) {
		t.Error("lastEditedAt not stamped")
	}

	// Field isolation: contact edits never move the pipeline or ownership.
	if after.Stage != s.Stage {
		t.Error("editContact mutated stage")
	}
	if *after.SalesRepID != repID || *after.SalesRepName != repName {
		t.Error("editContact mutated rep assignment")
	}
	if !after.LastContactDate.Equal(s.LastContactDate) {
		t.Error("editContact mutated lastContactDate")
	}
}

func TestMutationsCarryExpectedVersion(t *testing.T) {
	s := testSchool(StageColdLead)
	s.Version = 7

	m, err := Advance(s, StageEmailSent, RepRef{ID: "r", Name: "R"}, time.Now())
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if m.ExpectedVersion != 7 {
		t.Errorf("stage mutation ExpectedVersion = %d, want 7", m.ExpectedVersion)
	}
	if got := m.Apply(s).Version; got != 8 {
		t.Errorf("applied version = %d, want 8", got)
	}

	cm := EditContact(s, ContactUpdate{}, "editor", time.Now())
	if cm.ExpectedVersion != 7 {
		t.Errorf("contact mutation ExpectedVersion = %d, want 7", cm.ExpectedVersion)
	}
}

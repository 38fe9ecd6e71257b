package domain

import (
	"reflect"
	"testing"
)

func strptr(s string) *string { return &s }

func TestReconcileAssignment(t *testing.T) {
	cases := []struct {
		name        string
		stage       Stage
		repID       *string
		repName     *string
		wantID      *string
		wantName    *string
		wantChanged bool
	}{
		{
			name:        "legacy identity at appointment stage gets renamed",
			stage:       StageAppointmentBooked,
			repID:       strptr(LegacyAdminID),
			repName:     strptr(LegacyAdminName),
			wantID:      strptr(LegacyAdminID),
			wantName:    strptr(CanonicalAdminName),
			wantChanged: true,
		},
		{
			name:        "legacy name with foreign id is repointed at the admin",
			stage:       StageCompleted,
			repID:       strptr("rep_99"),
			repName:     strptr(LegacyAdminName),
			wantID:      strptr(LegacyAdminID),
			wantName:    strptr(CanonicalAdminName),
			wantChanged: true,
		},
		{
			name:        "legacy identity at early stage is cleared, not renamed",
			stage:       StageColdLead,
			repID:       strptr(LegacyAdminID),
			repName:     strptr(LegacyAdminName),
			wantID:      nil,
			wantName:    nil,
			wantChanged: true,
		},
		{
			name:        "non-legacy rep at early stage is cleared",
			stage:       StageEmailSent,
			repID:       strptr("rep_7"),
			repName:     strptr("Thandi M"),
			wantID:      nil,
			wantName:    nil,
			wantChanged: true,
		},
		{
			name:        "stray name without id at early stage is cleared",
			stage:       StageMoreInfoRequested,
			repID:       nil,
			repName:     strptr("Thandi M"),
			wantID:      nil,
			wantName:    nil,
			wantChanged: true,
		},
		{
			name:        "valid assignment at late stage untouched",
			stage:       StageFinalizing,
			repID:       strptr("rep_7"),
			repName:     strptr("Thandi M"),
			wantID:      strptr("rep_7"),
			wantName:    strptr("Thandi M"),
			wantChanged: false,
		},
		{
			name:        "unassigned early stage untouched",
			stage:       StageColdLead,
			repID:       nil,
			repName:     nil,
			wantID:      nil,
			wantName:    nil,
			wantChanged: false,
		},
		{
			name:        "unassigned late stage untouched",
			stage:       StageLetterDistribution,
			repID:       nil,
			repName:     nil,
			wantID:      nil,
			wantName:    nil,
			wantChanged: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := testSchool(tc.stage)
			s.SalesRepID = tc.repID
			s.SalesRepName = tc.repName

			fixed, changed := ReconcileAssignment(s)
			if changed != tc.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tc.wantChanged)
			}
			if !ptrEq(fixed.SalesRepID, tc.wantID) || !ptrEq(fixed.SalesRepName, tc.wantName) {
				t.Errorf("rep = (%s, %s), want (%s, %s)",
					fmtPtr(fixed.SalesRepID), fmtPtr(fixed.SalesRepName), fmtPtr(tc.wantID), fmtPtr(tc.wantName))
			}
		})
	}
}

// The sweep runs on every load, so applying it twice must be a no-op the
// second time.
func TestReconcileIdempotent(t *testing.T) {
	schools := []School{
		func() School {
			s := testSchool(StageAppointmentBooked)
			s.SalesRepID = strptr(LegacyAdminID)
			s.SalesRepName = strptr(LegacyAdminName)
			return s
		}(),
		func() School {
			s := testSchool(StageColdLead)
			s.SalesRepID = strptr("rep_3")
			s.SalesRepName = strptr("Piet V")
			return s
		}(),
		testSchool(StageEmailSent),
		func() School {
			s := testSchool(StageCompleted)
			s.SalesRepID = strptr("rep_5")
			s.SalesRepName = strptr("Lerato K")
			return s
		}(),
	}

	once, changedOnce := Reconcile(schools)
	twice, changedTwice := Reconcile(once)

	if !reflect.DeepEqual(once, twice) {
		t.Fatal("reconcile(reconcile(x)) != reconcile(x)")
	}
	if len(changedOnce) != 2 {
		t.Errorf("first pass changed %d schools, want 2", len(changedOnce))
	}
	if len(changedTwice) != 0 {
		t.Errorf("second pass changed %d schools, want 0", len(changedTwice))
	}
}

// After the sweep no school outside Appointment Booked or later may carry a
// rep, regardless of how the assignment got there.
func TestReconcileRestoresInvariant(t *testing.T) {
	var schools []School
	for _, stage := range allStages {
		withRep := testSchool(stage)
		withRep.SalesRepID = strptr("rep_1")
		withRep.SalesRepName = strptr("Thandi M")
		schools = append(schools, withRep, testSchool(stage))

		legacy := testSchool(stage)
		legacy.SalesRepID = strptr(LegacyAdminID)
		legacy.SalesRepName = strptr(LegacyAdminName)
		schools = append(schools, legacy)
	}

	corrected, _ := Reconcile(schools)
	for _, s := range corrected {
		assigned := s.SalesRepID != nil && s.SalesRepName != nil
		if assigned && !s.Stage.AppointmentOrLater() {
			t.Errorf("stage %q still carries rep %q after reconcile", s.Stage, *s.SalesRepID)
		}
		if (s.SalesRepID == nil) != (s.SalesRepName == nil) {
			t.Errorf("stage %q: rep id/name cleared inconsistently", s.Stage)
		}
	}
}

func ptrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func fmtPtr(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}

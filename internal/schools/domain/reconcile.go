package domain

// The reconcile sweep repairs two kinds of drift on every full load:
// historical records written under the old admin placeholder identity, and
// rep assignments that violate the ownership invariant (a rep may own a
// school only at Appointment Booked or later). Running it on load instead of
// as a one-off migration means future drift self-heals.

const (
	// LegacyAdminID is the well-known admin sentinel ID. It is still the
	// canonical admin ID; only the display name was ever wrong.
	LegacyAdminID = "admin_super"
	// LegacyAdminName is the placeholder display name found on old records.
	LegacyAdminName = "Super Admin"
	// CanonicalAdminName is the corrected admin display name.
	CanonicalAdminName = "Keagan Smith"
)

// ReconcileAssignment applies the assignment-hygiene rule to one school and
// reports whether anything changed. The rule is idempotent.
func ReconcileAssignment(s School) (School, bool) {
	later := s.Stage.AppointmentOrLater()

	hasLegacyIdentity := (s.SalesRepName != nil && *s.SalesRepName == LegacyAdminName) ||
		(s.SalesRepID != nil && *s.SalesRepID == LegacyAdminID)

	switch {
	case hasLegacyIdentity && later:
		if s.SalesRepID != nil && *s.SalesRepID == LegacyAdminID &&
			s.SalesRepName != nil && *s.SalesRepName == CanonicalAdminName {
			return s, false
		}
		repID := LegacyAdminID
		repName := CanonicalAdminName
		s.SalesRepID = &repID
		s.SalesRepName = &repName
		return s, true

	case hasLegacyIdentity:
		s.SalesRepID = nil
		s.SalesRepName = nil
		return s, true

	case !later && (s.SalesRepID != nil || s.SalesRepName != nil):
		// Non-legacy data can violate the invariant too, e.g. a school that
		// was manually recategorized to an early stage, or a stray display
		// name left behind without an ID.
		s.SalesRepID = nil
		s.SalesRepName = nil
		return s, true
	}

	return s, false
}

// Reconcile applies ReconcileAssignment to every school and returns the
// corrected list alongside the subset that actually changed.
func Reconcile(schools []School) (corrected []School, changed []School) {
	corrected = make([]School, len(schools))
	for i, s := range schools {
		fixed, dirty := ReconcileAssignment(s)
		corrected[i] = fixed
		if dirty {
			changed = append(changed, fixed)
		}
	}
	return corrected, changed
}

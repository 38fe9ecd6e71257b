// Package domain provides core business rules for the schools bounded context:
// the sales pipeline stage machine, duplicate-name detection, and the
// rep-assignment reconcile sweep. Everything here is a pure computation over
// in-memory values; persistence belongs to the repository layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stage is a school's position in the sales pipeline.
type Stage string

const (
	StageColdLead           Stage = "Cold Lead"
	StageEmailSent          Stage = "Email Sent"
	StageMoreInfoRequested  Stage = "More Info Requested"
	StageAppointmentBooked  Stage = "Appointment Booked"
	StageFinalizing         Stage = "Finalizing"
	StageLetterDistribution Stage = "Letter Distribution"
	StageCompleted          Stage = "Completed"
	StageNotInterested      Stage = "Not Interested"
)

// Track is the sales track a school was signed up for. Set at creation,
// never mutated by the pipeline.
type Track string

const (
	TrackAcquisition Track = "Acquisition Track"
	TrackEngagement  Track = "Engagement Track"
)

// nextStage is the explicit adjacency of the pipeline: each non-terminal
// stage has exactly one forward successor. The side branch to
// StageNotInterested is handled separately in CanTransition since it is
// reachable from every non-terminal stage.
var nextStage = map[Stage]Stage{
	StageColdLead:           StageEmailSent,
	StageEmailSent:          StageMoreInfoRequested,
	StageMoreInfoRequested:  StageAppointmentBooked,
	StageAppointmentBooked:  StageFinalizing,
	StageFinalizing:         StageLetterDistribution,
	StageLetterDistribution: StageCompleted,
}

var knownStages = map[Stage]struct{}{
	StageColdLead:           {},
	StageEmailSent:          {},
	StageMoreInfoRequested:  {},
	StageAppointmentBooked:  {},
	StageFinalizing:         {},
	StageLetterDistribution: {},
	StageCompleted:          {},
	StageNotInterested:      {},
}

// IsKnownStage reports whether stage is one of the eight pipeline stages.
func IsKnownStage(stage Stage) bool {
	_, ok := knownStages[stage]
	return ok
}

// IsTerminal reports whether no further transitions are allowed out of s.
func (s Stage) IsTerminal() bool {
	return s == StageCompleted || s == StageNotInterested
}

// AppointmentOrLater reports whether s is Appointment Booked or any stage
// after it in the forward sequence. A school may carry a rep assignment if
// and only if this holds.
func (s Stage) AppointmentOrLater() bool {
	switch s {
	case StageAppointmentBooked, StageFinalizing, StageLetterDistribution, StageCompleted:
		return true
	}
	return false
}

// CanTransition reports whether target is reachable from current: either the
// single forward successor, or Not Interested from any non-terminal stage.
func CanTransition(current, target Stage) bool {
	if current.IsTerminal() {
		return false
	}
	if target == StageNotInterested {
		return true
	}
	return nextStage[current] == target
}

// RepRef identifies a sales rep for assignment purposes.
type RepRef struct {
	ID   string
	Name string
}

// School is the unit of work flowing through the pipeline.
type School struct {
	ID             uuid.UUID
	Name           string
	PrincipalName  string
	PrincipalEmail string
	SecretaryEmail *string
	SalesRepID     *string
	SalesRepName   *string
	Stage          Stage
	Track          Track
	StudentCount   int
	// LastContactDate carries date precision only; it advances on every
	// stage transition.
	LastContactDate time.Time
	// CommissionEarned and EngagementRate are computed elsewhere and passed
	// through unchanged by the pipeline.
	CommissionEarned float64
	EngagementRate   float64
	Notes            string
	LastEditedBy     *string
	LastEditedAt     *time.Time
	// Version guards concurrent saves: a mutation computed against version N
	// only lands if the stored row is still at version N.
	Version int
}

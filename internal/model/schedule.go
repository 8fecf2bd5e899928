package model

// OutageType is the outage classification used by the energy ministry.
type OutageType string

const (
	OutageTypePlanned       OutageType = "planned"
	OutageTypeEmergency     OutageType = "emergency"
	OutageTypeStabilization OutageType = "stabilization"
)

// OutageStatus is informational only, consumers key off times.
type OutageStatus string

const (
	OutageStatusScheduled OutageStatus = "scheduled"
	OutageStatusActive    OutageStatus = "active"
	OutageStatusCompleted OutageStatus = "completed"
	OutageStatusCancelled OutageStatus = "cancelled"
)

// ScheduleStatus comes straight from the YASNO API.
type ScheduleStatus string

const (
	ScheduleApplies    ScheduleStatus = "ScheduleApplies"
	WaitingForSchedule ScheduleStatus = "WaitingForSchedule"
	EmergencyShutdowns ScheduleStatus = "EmergencyShutdowns"
)

// Outage is a single planned blackout window within one calendar day.
// StartTime < EndTime, both "HH:MM" region-local wall clock.
type Outage struct {
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Type        OutageType   `json:"type"`
	IsConfirmed bool         `json:"is_confirmed"`
	Status      OutageStatus `json:"status"`
}

// DaySchedule holds the ordered, non-overlapping outages for one date.
// When Status is EmergencyShutdowns the outage list is not authoritative
// and must be ignored; WaitingForSchedule means nothing published yet.
type DaySchedule struct {
	Date    string         `json:"date"`
	Outages []Outage       `json:"outages"`
	Status  ScheduleStatus `json:"status,omitempty"`
}

// QueueSchedule pairs today and tomorrow for one queue ("3.2" style).
type QueueSchedule struct {
	QueueNumber string      `json:"queue_number"`
	Today       DaySchedule `json:"today"`
	Tomorrow    DaySchedule `json:"tomorrow"`
}

// OperatorSchedule is the full picture for one operator/region.
type OperatorSchedule struct {
	OperatorCode string                   `json:"operator_code"`
	OperatorName string                   `json:"operator_name"`
	Region       string                   `json:"region"`
	Queues       map[string]QueueSchedule `json:"queues"`
	LastUpdated  string                   `json:"last_updated"`
}

// HasOutages reports whether any queue has outages today or tomorrow.
func (o OperatorSchedule) HasOutages() bool {
	for _, q := range o.Queues {
		if len(q.Today.Outages) > 0 || len(q.Tomorrow.Outages) > 0 {
			return true
		}
	}
	return false
}

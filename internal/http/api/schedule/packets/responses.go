package packets

// Meta describes what was fetched and when.
type Meta struct {
	OperatorCode string `json:"operator_code,omitempty"`
	QueueNumber  string `json:"queue_number,omitempty"`
	FetchedAt    string `json:"fetched_at"`
}

// ScheduleResponse is the envelope for both the all-operators listing and
// the single-queue lookup.
type ScheduleResponse struct {
	Success   bool `json:"success"`
	Data      any  `json:"data"`
	NoOutages bool `json:"no_outages"`
	Meta      Meta `json:"meta"`
}

package domain

// EventTypeAssigned is emitted after a job commit to Assigned.
const EventTypeAssigned = "assigned"

// AssignmentEvent is the payload published to the notification queue
// after a successful assignment commit.
type AssignmentEvent struct {
	JobID           string `json:"job_id"`
	SubcontractorID string `json:"subcontractor_id"`
	EventType       string `json:"event_type"`

	// DeliveryTag carries the broker delivery tag on the consumer side.
	DeliveryTag uint64 `json:"-"`
}

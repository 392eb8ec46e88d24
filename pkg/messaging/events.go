package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Timesheet lifecycle events
	EventTimesheetSubmitted = "timesheet.submitted"
	EventTimesheetCancelled = "timesheet.cancelled"

	// Advisory events surfaced to the submitting user
	EventTimesheetOverlapWarning = "timesheet.overlap.warning"
)

// Exchange names
const (
	ExchangeTimesheetEvents = "timesheet.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// TimesheetSubmittedEvent is published after a project timesheet is
// submitted and its time logs have been created.
type TimesheetSubmittedEvent struct {
	TimesheetID       string  `json:"timesheet_id"`
	Date              string  `json:"date"`
	Company           string  `json:"company"`
	TimeLogsCreated   int     `json:"time_logs_created"`
	TotalWorkingHours float64 `json:"total_working_hours"`
	TotalOvertime     float64 `json:"total_overtime"`
}

// TimesheetCancelledEvent is published after a submitted project timesheet
// is cancelled and its linked time logs have been reversed.
type TimesheetCancelledEvent struct {
	TimesheetID       string `json:"timesheet_id"`
	TimeLogsCancelled int    `json:"time_logs_cancelled"`
}

// OverlapWarningEvent carries non-blocking cross-document overlap warnings.
type OverlapWarningEvent struct {
	TimesheetID string   `json:"timesheet_id"`
	Date        string   `json:"date"`
	Warnings    []string `json:"warnings"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}

package events

import (
	"context"

	"github.com/badeeltechnology/cmecustom/internal/timesheet/domain"
	"github.com/badeeltechnology/cmecustom/pkg/logger"
	"github.com/badeeltechnology/cmecustom/pkg/messaging"
)

// TimesheetEventPublisher publishes timesheet lifecycle events. Publishing
// is best-effort: a broker failure is logged and never fails the operation
// that triggered it.
type TimesheetEventPublisher struct {
	publisher *messaging.Publisher
	rmq       *messaging.RabbitMQ
	logger    *logger.Logger
}

// NewTimesheetEventPublisher creates a new timesheet event publisher
func NewTimesheetEventPublisher(rmq *messaging.RabbitMQ, log *logger.Logger) (*TimesheetEventPublisher, error) {
	publisher, err := messaging.NewPublisher(rmq, messaging.ExchangeTimesheetEvents, "timesheet-service", log)
	if err != nil {
		return nil, err
	}

	return &TimesheetEventPublisher{
		publisher: publisher,
		rmq:       rmq,
		logger:    log,
	}, nil
}

// publish sends one event. On failure the event is dropped after logging,
// and a reconnect kicks off in the background so later events get a healthy
// channel.
func (p *TimesheetEventPublisher) publish(ctx context.Context, eventType, timesheetID string, data interface{}) {
	if err := p.publisher.Publish(ctx, eventType, data); err != nil {
		p.logger.Error().
			Err(err).
			Str("event_type", eventType).
			Str("timesheet_id", timesheetID).
			Msg("failed to publish timesheet event")

		go func() {
			if err := p.rmq.Reconnect(context.Background()); err != nil {
				p.logger.Error().Err(err).Msg("rabbitmq reconnect failed")
			}
		}()
	}
}

// PublishTimesheetSubmitted publishes a timesheet submitted event
func (p *TimesheetEventPublisher) PublishTimesheetSubmitted(ctx context.Context, t *domain.ProjectTimesheet, timeLogsCreated int) {
	data := messaging.TimesheetSubmittedEvent{
		TimesheetID:       t.ID,
		Date:              t.Date.Format("2006-01-02"),
		Company:           t.Company,
		TimeLogsCreated:   timeLogsCreated,
		TotalWorkingHours: t.TotalWorkingHours,
		TotalOvertime:     t.TotalOvertime,
	}

	p.publish(ctx, messaging.EventTimesheetSubmitted, t.ID, data)
}

// PublishTimesheetCancelled publishes a timesheet cancelled event
func (p *TimesheetEventPublisher) PublishTimesheetCancelled(ctx context.Context, t *domain.ProjectTimesheet, timeLogsCancelled int) {
	data := messaging.TimesheetCancelledEvent{
		TimesheetID:       t.ID,
		TimeLogsCancelled: timeLogsCancelled,
	}

	p.publish(ctx, messaging.EventTimesheetCancelled, t.ID, data)
}

// PublishOverlapWarnings publishes advisory cross-document overlap warnings
func (p *TimesheetEventPublisher) PublishOverlapWarnings(ctx context.Context, t *domain.ProjectTimesheet, warnings []domain.OverlapWarning) {
	if len(warnings) == 0 {
		return
	}

	messages := make([]string, len(warnings))
	for i, w := range warnings {
		messages[i] = w.String()
	}

	data := messaging.OverlapWarningEvent{
		TimesheetID: t.ID,
		Date:        t.Date.Format("2006-01-02"),
		Warnings:    messages,
	}

	p.publish(ctx, messaging.EventTimesheetOverlapWarning, t.ID, data)
}

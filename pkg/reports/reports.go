// Package reports carries position, speed and occupancy reports from drivers into the vehicle
// feed, either through a Redis backed queue or applied in process.
package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/adjust/rmq/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const QueueName = "vehicle-reports"

var ErrEmptyReport = errors.New("report does not change any field")

var validate = validator.New()

type Report struct {
	VehicleRef string    `json:"vehicleId" validate:"required"`
	ReportedBy string    `json:"reportedBy" validate:"omitempty,email"`
	Timestamp  time.Time `json:"timestamp"`

	Update ctdf.VehicleUpdate `json:"update"`
}

func (r *Report) Validate() error {
	if err := validate.Struct(r); err != nil {
		return err
	}
	if r.Update.IsEmpty() {
		return ErrEmptyReport
	}

	return nil
}

// VehicleUpdater is the part of the vehicle feed reports are applied to.
type VehicleUpdater interface {
	UpdateVehicle(identifier string, update ctdf.VehicleUpdate) bool
}

type Publisher interface {
	Publish(ctx context.Context, report Report) error
}

// QueuePublisher pushes reports onto the rmq queue for the consumers to apply.
type QueuePublisher struct {
	queue rmq.Queue
}

func NewQueuePublisher(queue rmq.Queue) *QueuePublisher {
	return &QueuePublisher{queue: queue}
}

func (p *QueuePublisher) Publish(ctx context.Context, report Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}

	if err := p.queue.PublishBytes(payload); err != nil {
		return fmt.Errorf("publishing report: %w", err)
	}

	return nil
}

// DirectPublisher applies reports straight to the feed.
type DirectPublisher struct {
	updater VehicleUpdater
}

func NewDirectPublisher(updater VehicleUpdater) *DirectPublisher {
	return &DirectPublisher{updater: updater}
}

func (p *DirectPublisher) Publish(ctx context.Context, report Report) error {
	if err := report.Validate(); err != nil {
		return err
	}

	apply(p.updater, report)

	return nil
}

func apply(updater VehicleUpdater, report Report) {
	if !updater.UpdateVehicle(report.VehicleRef, report.Update) {
		log.Warn().Str("vehicle", report.VehicleRef).Str("reportedBy", report.ReportedBy).Msg("Report for unknown vehicle")
		return
	}

	log.Debug().Str("vehicle", report.VehicleRef).Str("reportedBy", report.ReportedBy).Msg("Applied vehicle report")
}

// Package alerts keeps the service alerts shown on the alerts panel of every dashboard.
package alerts

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Super-mario11/Transport-Tracker/pkg/ctdf"
	"github.com/Super-mario11/Transport-Tracker/pkg/util"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	iso8601 "github.com/senseyeio/duration"
)

var validate = validator.New()

var ErrInvalidValidity = errors.New("validity must be a positive ISO8601 duration")

// Form is an alert as an admin submits it. ValidFor is an ISO8601 duration such as PT2H; empty
// means the alert stays until removed.
type Form struct {
	Type     string   `json:"type" validate:"required,oneof=Information Warning StopClosed ServiceSuspended Delays Planned"`
	Title    string   `json:"title" validate:"required,max=120"`
	Text     string   `json:"text" validate:"max=1000"`
	Matches  []string `json:"matches" validate:"dive,required"`
	ValidFor string   `json:"validFor"`
}

type Board struct {
	mutex  sync.RWMutex
	alerts []*ctdf.ServiceAlert

	now func() time.Time
}

func NewBoard() *Board {
	return &Board{now: time.Now}
}

// Publish validates the form and adds the resulting alert, valid from now.
func (b *Board) Publish(form Form, createdBy string) (*ctdf.ServiceAlert, error) {
	if err := validate.Struct(form); err != nil {
		return nil, err
	}

	now := b.now()

	alert := &ctdf.ServiceAlert{
		PrimaryIdentifier:  uuid.NewString(),
		AlertType:          ctdf.ServiceAlertType(form.Type),
		Title:              form.Title,
		Text:               form.Text,
		MatchedIdentifiers: util.UniqueIdentifiers(form.Matches),
		CreationDateTime:   now,
		CreatedBy:          createdBy,
		ValidFrom:          now,
	}

	if form.ValidFor != "" {
		validFor, err := iso8601.ParseISO8601(form.ValidFor)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidValidity, err)
		}

		alert.ValidUntil = validFor.Shift(now)
		if !alert.ValidUntil.After(now) {
			return nil, ErrInvalidValidity
		}
	}

	b.mutex.Lock()
	b.alerts = util.Retain(b.alerts, func(existing *ctdf.ServiceAlert) bool {
		return existing.ValidUntil.IsZero() || now.Before(existing.ValidUntil)
	})
	b.alerts = append(b.alerts, alert)
	b.mutex.Unlock()

	log.Info().Str("id", alert.PrimaryIdentifier).Str("type", string(alert.AlertType)).Str("createdBy", createdBy).Msg("Service alert published")

	return cloneAlert(alert), nil
}

// Active returns the alerts in force now, oldest first.
func (b *Board) Active() []*ctdf.ServiceAlert {
	return b.Matching("")
}

// Matching returns copies of the active alerts for the identifier, including network wide ones.
// An empty identifier matches every active alert.
func (b *Board) Matching(identifier string) []*ctdf.ServiceAlert {
	now := b.now()

	b.mutex.RLock()
	defer b.mutex.RUnlock()

	alerts := []*ctdf.ServiceAlert{}
	for _, alert := range b.alerts {
		if !alert.IsValid(now) {
			continue
		}
		if identifier != "" && !alert.Matches(identifier) {
			continue
		}

		alerts = append(alerts, cloneAlert(alert))
	}

	return alerts
}

func cloneAlert(alert *ctdf.ServiceAlert) *ctdf.ServiceAlert {
	clone := &ctdf.ServiceAlert{}
	if err := copier.Copy(clone, alert); err != nil {
		log.Error().Err(err).Str("id", alert.PrimaryIdentifier).Msg("Failed to copy service alert")
		*clone = *alert
	}
	clone.MatchedIdentifiers = slices.Clone(alert.MatchedIdentifiers)

	return clone
}

func (b *Board) Len() int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	return len(b.alerts)
}

func (b *Board) Remove(identifier string) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	for i, alert := range b.alerts {
		if alert.PrimaryIdentifier == identifier {
			b.alerts = slices.Delete(b.alerts, i, i+1)
			return true
		}
	}

	return false
}

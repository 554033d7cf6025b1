package ctdf

import (
	"time"

	"golang.org/x/exp/slices"
)

type ServiceAlert struct {
	PrimaryIdentifier string `json:"id" groups:"basic"`

	AlertType ServiceAlertType `json:"type" groups:"basic"`

	Title string `json:"title" groups:"basic"`
	Text  string `json:"text" groups:"basic"`

	// MatchedIdentifiers are the route, stop or vehicle identifiers the alert applies to. Empty
	// means network wide.
	MatchedIdentifiers []string `json:"matches" groups:"basic"`

	CreationDateTime time.Time `json:"createdAt" groups:"detailed"`
	CreatedBy        string    `json:"createdBy" groups:"internal"`

	ValidFrom  time.Time `json:"validFrom" groups:"detailed"`
	ValidUntil time.Time `json:"validUntil,omitempty" groups:"detailed"`
}

type ServiceAlertType string

const (
	ServiceAlertTypeInformation      ServiceAlertType = "Information"
	ServiceAlertTypeWarning          ServiceAlertType = "Warning"
	ServiceAlertTypeStopClosed       ServiceAlertType = "StopClosed"
	ServiceAlertTypeServiceSuspended ServiceAlertType = "ServiceSuspended"
	ServiceAlertTypeDelays           ServiceAlertType = "Delays"
	ServiceAlertTypePlanned          ServiceAlertType = "Planned"
)

// IsValid reports whether the alert is in force at checkTime. A zero ValidUntil never expires.
func (a *ServiceAlert) IsValid(checkTime time.Time) bool {
	if checkTime.Before(a.ValidFrom) {
		return false
	}

	return a.ValidUntil.IsZero() || checkTime.Before(a.ValidUntil)
}

func (a *ServiceAlert) Matches(identifier string) bool {
	return len(a.MatchedIdentifiers) == 0 || slices.Contains(a.MatchedIdentifiers, identifier)
}

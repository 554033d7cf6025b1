package session

import (
	"golang.org/x/exp/slices"
)

type Page string

const (
	PageLanding        Page = "/"
	PageLogin          Page = "/login"
	PageSignup         Page = "/signup"
	PageAbout          Page = "/about"
	PageContact        Page = "/contact"
	PageHome           Page = "/home"
	PageDriverPanel    Page = "/driver-panel"
	PageAdminDashboard Page = "/admin-dashboard"
)

var publicPages = []Page{PageLanding, PageLogin, PageSignup, PageAbout, PageContact}

// Panel is a section of the home dashboard.
type Panel struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

var (
	PanelLiveMap  = Panel{Key: "map", Name: "Live Map & Tracking"}
	PanelPlanner  = Panel{Key: "planner", Name: "Journey Planner"}
	PanelAlerts   = Panel{Key: "alerts", Name: "Alerts & Notifications"}
	PanelProfile  = Panel{Key: "profile", Name: "Profile & Settings"}
	PanelHistory  = Panel{Key: "history", Name: "History & Favorites"}
	PanelFares    = Panel{Key: "fares", Name: "Fare & Ticketing"}
	PanelFeedback = Panel{Key: "feedback", Name: "Feedback & Support"}
	PanelMyTrips  = Panel{Key: "trips", Name: "My Trips"}
	PanelReport   = Panel{Key: "report", Name: "Report Position"}
	PanelDrivers  = Panel{Key: "drivers", Name: "Manage Drivers"}
	PanelVehicles = Panel{Key: "vehicles", Name: "Manage Vehicles"}
	PanelRoutes   = Panel{Key: "routes", Name: "Manage Routes"}
	PanelStops    = Panel{Key: "stops", Name: "Manage Stops"}
)

// PagesFor lists the pages an authenticated user of the role may open besides the public ones.
func PagesFor(role Role) []Page {
	switch role {
	case RoleUser:
		return []Page{PageHome}
	case RoleDriver:
		return []Page{PageHome, PageDriverPanel}
	case RoleAdmin:
		return []Page{PageHome, PageAdminDashboard}
	}

	panic("session: unhandled role " + string(role))
}

// PanelsFor lists the home dashboard panels shown to the role, in display order.
func PanelsFor(role Role) []Panel {
	switch role {
	case RoleUser:
		return []Panel{PanelLiveMap, PanelPlanner, PanelAlerts, PanelProfile, PanelHistory, PanelFares, PanelFeedback}
	case RoleDriver:
		return []Panel{PanelLiveMap, PanelMyTrips, PanelReport, PanelAlerts, PanelProfile}
	case RoleAdmin:
		return []Panel{PanelLiveMap, PanelDrivers, PanelVehicles, PanelRoutes, PanelStops, PanelAlerts, PanelProfile}
	}

	panic("session: unhandled role " + string(role))
}

// HomePage is where a user of the role lands after logging in.
func HomePage(role Role) Page {
	switch role {
	case RoleUser, RoleDriver, RoleAdmin:
		return PageHome
	}

	panic("session: unhandled role " + string(role))
}

type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect"
	case Forbidden:
		return "forbidden"
	}

	return "unknown"
}

// Authorize decides whether the page can be shown. A nil user is anonymous.
func Authorize(user *User, page Page) Decision {
	if slices.Contains(publicPages, page) {
		return Allow
	}

	if user == nil {
		return RedirectToLogin
	}

	if slices.Contains(PagesFor(user.Role), page) {
		return Allow
	}

	return Forbidden
}

// RequireRole is the gate used by role specific actions rather than pages. No roles means any
// authenticated user.
func RequireRole(user *User, roles ...Role) Decision {
	if user == nil {
		return RedirectToLogin
	}

	if len(roles) == 0 || slices.Contains(roles, user.Role) {
		return Allow
	}

	return Forbidden
}

type Navigation struct {
	State  string  `json:"state"`
	Role   Role    `json:"role,omitempty"`
	Home   Page    `json:"home"`
	Pages  []Page  `json:"pages"`
	Panels []Panel `json:"panels"`
}

// NavigationFor builds what the presentation layer may link to for the user.
func NavigationFor(state State, user *User) Navigation {
	navigation := Navigation{
		State: state.String(),
		Home:  PageLanding,
		Pages: append([]Page(nil), publicPages...),
	}

	if user == nil {
		navigation.Panels = []Panel{}
		return navigation
	}

	navigation.Role = user.Role
	navigation.Home = HomePage(user.Role)
	navigation.Pages = append(navigation.Pages, PagesFor(user.Role)...)
	navigation.Panels = PanelsFor(user.Role)

	return navigation
}

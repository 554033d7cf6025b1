package session

import (
	"testing"
)

func TestTablesCoverEveryRole(t *testing.T) {
	for _, role := range Roles {
		if len(PagesFor(role)) == 0 {
			t.Errorf("no pages for %s", role)
		}
		if len(PanelsFor(role)) == 0 {
			t.Errorf("no panels for %s", role)
		}
		if HomePage(role) != PageHome {
			t.Errorf("%s lands on %s", role, HomePage(role))
		}
		if Authorize(&User{Role: role}, HomePage(role)) != Allow {
			t.Errorf("%s cannot open its home page", role)
		}
	}
}

func TestUnknownRolePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()

	PagesFor(Role("pilot"))
}

func TestAuthorize(t *testing.T) {
	user := &User{Email: "user@example.com", Role: RoleUser}
	driver := &User{Email: "driver@example.com", Role: RoleDriver, VehicleRef: "bus101"}
	admin := &User{Email: "admin@example.com", Role: RoleAdmin}

	tests := []struct {
		user *User
		page Page
		want Decision
	}{
		{nil, PageLanding, Allow},
		{nil, PageLogin, Allow},
		{nil, PageSignup, Allow},
		{nil, PageAbout, Allow},
		{nil, PageContact, Allow},
		{nil, PageHome, RedirectToLogin},
		{nil, PageDriverPanel, RedirectToLogin},
		{nil, PageAdminDashboard, RedirectToLogin},
		{user, PageHome, Allow},
		{user, PageDriverPanel, Forbidden},
		{user, PageAdminDashboard, Forbidden},
		{driver, PageDriverPanel, Allow},
		{driver, PageAdminDashboard, Forbidden},
		{admin, PageAdminDashboard, Allow},
		{admin, PageDriverPanel, Forbidden},
		{admin, PageAbout, Allow},
	}

	for _, tt := range tests {
		name := "anonymous"
		if tt.user != nil {
			name = tt.user.Role.String()
		}

		t.Run(name+string(tt.page), func(t *testing.T) {
			if got := Authorize(tt.user, tt.page); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	driver := &User{Role: RoleDriver}

	if RequireRole(nil) != RedirectToLogin {
		t.Error("anonymous should be redirected")
	}
	if RequireRole(driver) != Allow {
		t.Error("any authenticated user should pass an empty role list")
	}
	if RequireRole(driver, RoleAdmin) != Forbidden {
		t.Error("driver passed admin gate")
	}
	if RequireRole(driver, RoleDriver, RoleAdmin) != Allow {
		t.Error("driver rejected from driver gate")
	}
}

func TestCanOperateVehicle(t *testing.T) {
	if !(User{Role: RoleAdmin}).CanOperateVehicle("bus202") {
		t.Error("admin should operate any vehicle")
	}
	if !(User{Role: RoleDriver, VehicleRef: "bus101"}).CanOperateVehicle("bus101") {
		t.Error("driver should operate own vehicle")
	}
	if (User{Role: RoleDriver, VehicleRef: "bus101"}).CanOperateVehicle("bus202") {
		t.Error("driver operated another vehicle")
	}
	if (User{Role: RoleDriver}).CanOperateVehicle("") {
		t.Error("unassigned driver operated a vehicle")
	}
	if (User{Role: RoleUser}).CanOperateVehicle("bus101") {
		t.Error("commuter operated a vehicle")
	}
}

func TestNavigationFor(t *testing.T) {
	anonymous := NavigationFor(StateAnonymous, nil)
	if anonymous.Home != PageLanding || len(anonymous.Panels) != 0 || len(anonymous.Pages) != 5 {
		t.Errorf("unexpected anonymous navigation %+v", anonymous)
	}

	admin := NavigationFor(StateAuthenticated, &User{Role: RoleAdmin})
	if admin.Role != RoleAdmin || admin.Home != PageHome {
		t.Errorf("unexpected admin navigation %+v", admin)
	}
	if admin.Pages[len(admin.Pages)-1] != PageAdminDashboard {
		t.Errorf("admin pages %v", admin.Pages)
	}
	if admin.Panels[1] != PanelDrivers {
		t.Errorf("admin panels %v", admin.Panels)
	}

	user := NavigationFor(StateAuthenticated, &User{Role: RoleUser})
	if len(user.Panels) != 7 || user.Panels[0] != PanelLiveMap {
		t.Errorf("user panels %v", user.Panels)
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles {
		parsed, err := ParseRole(string(role))
		if err != nil || parsed != role {
			t.Errorf("ParseRole(%s) = %s, %v", role, parsed, err)
		}
	}

	if _, err := ParseRole("pilot"); err == nil {
		t.Error("expected error")
	}
}

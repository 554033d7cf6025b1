package session

// Identity is a registry entry. Passwords are compared in plaintext; this registry only ever
// holds the demo accounts and accounts created through signup.
type Identity struct {
	Email    string
	Password string
	Role     Role

	VehicleRef string
}

// User is the session-visible part of an Identity, without the password.
type User struct {
	Email string `json:"email" groups:"basic"`
	Role  Role   `json:"role" groups:"basic"`

	VehicleRef string `json:"vehicleId,omitempty" groups:"basic"`
}

func (i Identity) User() User {
	return User{
		Email:      i.Email,
		Role:       i.Role,
		VehicleRef: i.VehicleRef,
	}
}

// CanOperateVehicle reports whether the user may overwrite the fields of the given vehicle.
func (u User) CanOperateVehicle(vehicleRef string) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleDriver:
		return u.VehicleRef != "" && u.VehicleRef == vehicleRef
	case RoleUser:
		return false
	}

	return false
}

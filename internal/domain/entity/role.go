package entity

// Role is the access class of a user profile. It is derived once when the
// profile is created and never changes afterwards.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RolePatient:
		return true
	}
	return false
}

// LoginPath returns the login surface an anonymous caller is sent to when
// a surface requiring this role is requested.
func (r Role) LoginPath() string {
	switch r {
	case RoleAdmin:
		return "/admin/login"
	case RoleDoctor:
		return "/doctor/login"
	default:
		return "/login"
	}
}

func (r Role) String() string {
	return string(r)
}

package access

// Role is the closed set of dashboard roles. The zero value is invalid;
// role checks dispatch on the variant, never on raw strings.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleOwner   Role = "owner"
	RolePetugas Role = "petugas"
)

// ParseRole maps a stored or wire value to a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleOwner, RolePetugas:
		return Role(s), nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RolePetugas:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }

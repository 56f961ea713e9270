package role

// Key is the fixed role enumeration. Roles attach to a membership, not to a
// user globally; Superadmin additionally comes from the system-admin
// registry independent of any membership.
type Key string

const (
	Superadmin Key = "superadmin"
	Admin      Key = "admin"
	User       Key = "user"
	None       Key = "none"
)

func (k Key) Valid() bool {
	switch k {
	case Superadmin, Admin, User:
		return true
	}
	return false
}

// AtLeast reports whether k grants everything other does.
func (k Key) AtLeast(other Key) bool {
	return rank(k) >= rank(other)
}

func rank(k Key) int {
	switch k {
	case Superadmin:
		return 3
	case Admin:
		return 2
	case User:
		return 1
	default:
		return 0
	}
}

package domain

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleClubLeader Role = "ClubLeader"
	RoleStudent    Role = "Student"
	RoleMember     Role = "Member"
)

// User is owned by the identity subsystem; this service only reads it.
type User struct {
	ID       int32  `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
}

// Actor is the already-authenticated caller of an operation.
type Actor struct {
	UserID int32
	Roles  []Role
}

func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

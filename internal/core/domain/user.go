package domain

// Role is the authorization level of an authenticated user.
type Role string

const (
	RoleSaaSAdmin  Role = "SAAS_ADMIN"
	RolePoolAdmin  Role = "POOL_ADMIN"
	RolePoolMember Role = "POOL_MEMBER"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSaaSAdmin, RolePoolAdmin, RolePoolMember:
		return true
	}
	return false
}

// IsAdmin reports whether r may manage pools, groups and participants.
func (r Role) IsAdmin() bool {
	return r == RoleSaaSAdmin || r == RolePoolAdmin
}

// User is the identity of the current session.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	CPF    string `json:"cpf,omitempty"`
	PixKey string `json:"pixKey,omitempty"`
}

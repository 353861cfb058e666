package models

// Role is the capability class a credential grants.
type Role string

const (
	// RoleCollaborator unlocks the management plane.
	RoleCollaborator Role = "COLABORADOR"
	// RolePatient is the default role for clinic users.
	RolePatient Role = "PACIENTE"
)

// User is an authenticable account. SenhaHash is a bcrypt digest and never
// leaves this package boundary in a response.
type User struct {
	ID        int64
	Email     string
	SenhaHash string
	Role      Role
}

// LoginRequest is the credential payload for POST /auth/login.
type LoginRequest struct {
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

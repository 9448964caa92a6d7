package models

// Access scopes granted on login.
const (
	AccessAll   = "all"
	AccessEvent = "event"
)

// Roles known to the backend.
const (
	RoleAdmin  = "admin"
	RoleVendor = "vendor"
)

type LoginRequest struct {
	Role     string `json:"role"`
	Password string `json:"password"`
	EventID  *int64 `json:"eventId,omitempty"`
}

type LoginResponse struct {
	Role    string `json:"role"`
	Access  string `json:"access"`
	EventID *int64 `json:"eventId,omitempty"`
	Token   string `json:"token"`
}

package models

// Role is the marketplace role of an authenticated user.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleISV      Role = "isv"
	RoleReseller Role = "reseller"
	RoleClient   Role = "client"
)

// User is the identity returned by the auth endpoints.
type User struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
	Role   Role   `json:"role"`
}

// LoginResponse is the body of POST /api/auth/login.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	User     *User  `json:"user,omitempty"`
	Token    string `json:"token,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

// SignupRequest carries the signup form fields.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
	Company  string `json:"company,omitempty"`
	Mobile   string `json:"mobile,omitempty"`
}

// SignupResponse is the body of POST /api/auth/signup.
type SignupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

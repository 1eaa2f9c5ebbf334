package domain

import "strings"

var Roles = []string{"student", "amateur", "professional", "songwriter", "other"}

type Registration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks that every field is filled and the role is a known one.
func (r Registration) Validate() error {
	fields := []struct{ name, value string }{
		{"fullName", r.FullName},
		{"email", r.Email},
		{"username", r.Username},
		{"password", r.Password},
		{"role", r.Role},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &FieldError{Field: f.name, Err: ErrInvalidRegistration}
		}
	}
	if !strings.Contains(r.Email, "@") {
		return &FieldError{Field: "email", Err: ErrInvalidRegistration}
	}
	for _, role := range Roles {
		if r.Role == role {
			return nil
		}
	}
	return &FieldError{Field: "role", Err: ErrInvalidRegistration}
}

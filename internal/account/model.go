// File: internal/account/model.go
package account

import (
	"bytes"
	"encoding/json"
)

// Account represents a registration record in the database.
// Password is nil for accounts created through an OAuth provider.
type Account struct {
	ID          uint64  `gorm:"column:id;primaryKey;autoIncrement"`
	FirstName   string  `gorm:"column:firstname;type:varchar(100)"`
	LastName    string  `gorm:"column:lastname;type:varchar(100)"`
	CompanyName *string `gorm:"column:companyname;type:varchar(255)"`
	Email       string  `gorm:"column:email;type:varchar(255);not null;uniqueIndex"`
	Password    *string `gorm:"column:password;type:varchar(255)"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "registrations"
}

// PasswordHash returns the stored hash, or "" for a federated-only account.
func (a *Account) PasswordHash() string {
	if a.Password == nil {
		return ""
	}
	return *a.Password
}

// IsLocal reports whether the account can log in with a password.
func (a *Account) IsLocal() bool {
	return a.PasswordHash() != ""
}

// Registration is a local sign-up submission. It only lives for one request.
type Registration struct {
	FirstName   string
	LastName    string
	CompanyName string
	Email       string
	Password    string
}

// --- DTOs (Data Transfer Objects) for API requests ---

// lenientString decodes JSON strings and turns every other JSON value into "",
// so a wrongly typed field fails validation instead of failing the whole body.
type lenientString string

func (s *lenientString) UnmarshalJSON(data []byte) error {
	*s = ""
	if len(data) == 0 || data[0] != '"' {
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*s = lenientString(v)
	return nil
}

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	FirstName   lenientString `json:"firstname"`
	LastName    lenientString `json:"lastname"`
	CompanyName lenientString `json:"companyname"`
	Email       lenientString `json:"email"`
	Password    lenientString `json:"password"`
}

// ToRegistration converts the request DTO to a Registration.
func (r RegisterRequest) ToRegistration() Registration {
	return Registration{
		FirstName:   string(r.FirstName),
		LastName:    string(r.LastName),
		CompanyName: string(r.CompanyName),
		Email:       string(r.Email),
		Password:    string(r.Password),
	}
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    lenientString `json:"email"`
	Password lenientString `json:"password"`
}

// GoogleLoginRequest is the body of POST /google/login.
type GoogleLoginRequest struct {
	Email      lenientString `json:"email"`
	FamilyName lenientString `json:"family_name"`
	GivenName  lenientString `json:"given_name"`
}

// decodeBody decodes a JSON object into dst. Anything that is not a JSON object
// leaves dst zeroed, which every required field then rejects.
func decodeBody(body []byte, dst interface{ reset() }) bool {
	dst.reset()
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		dst.reset()
		return false
	}
	return true
}

func (r *RegisterRequest) reset()    { *r = RegisterRequest{} }
func (r *LoginRequest) reset()       { *r = LoginRequest{} }
func (r *GoogleLoginRequest) reset() { *r = GoogleLoginRequest{} }

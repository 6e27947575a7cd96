package forms

import (
	"net/url"
)

// RegistrationForm collects a new customer identity
type RegistrationForm struct {
	Username  string `form:"username" validate:"required,max=150,username"`
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Email     string `form:"email" validate:"required,email,max=255"`
	Password  string `form:"password" validate:"required,min=8,max=128" trim:"false"`
	Password2 string `form:"password2" validate:"required,eqfield=Password" trim:"false"`
}

// Registration is a validated registration request
type Registration struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ValidateRegistration checks raw, including that both password entries match
func ValidateRegistration(raw url.Values) (Registration, FieldErrors) {
	var f RegistrationForm
	if errs := bind(raw, &f); !errs.Valid() {
		return Registration{}, errs
	}

	return Registration{
		Username:  f.Username,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
	}, nil
}

// LoginForm carries submitted credentials
type LoginForm struct {
	Username string `form:"username" validate:"required,max=150"`
	Password string `form:"password" validate:"required" trim:"false"`
}

// Credentials is a validated login request
type Credentials struct {
	Username string
	Password string
}

// ValidateLogin checks that both credentials were supplied
func ValidateLogin(raw url.Values) (Credentials, FieldErrors) {
	var f LoginForm
	if errs := bind(raw, &f); !errs.Valid() {
		return Credentials{}, errs
	}

	return Credentials{Username: f.Username, Password: f.Password}, nil
}

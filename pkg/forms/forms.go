// Package forms validates the login and signup forms before they reach the session store.
package forms

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const (
	MessageInvalidEmail     = "Please enter a valid email address."
	MessageMissingFields    = "Email and password are required."
	MessagePasswordMismatch = "Passwords do not match."
	MessagePasswordTooShort = "Password must be at least 6 characters."
)

var validate = validator.New()

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type SignupForm struct {
	Email           string `json:"email" form:"email" validate:"required,email"`
	Password        string `json:"password" form:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" form:"confirmPassword" validate:"eqfield=Password"`
}

func (f *LoginForm) Validate() error {
	if err := validate.Struct(f); err != nil {
		return &ValidationError{Field: firstField(err), Message: MessageMissingFields}
	}

	return nil
}

// Validate reports the first problem in the order the signup page checks them: the address, the
// confirmation and then the password length.
func (f *SignupForm) Validate() error {
	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	failed := map[string]bool{}
	for _, fieldError := range validationErrors {
		failed[fieldError.Field()] = true
	}

	switch {
	case failed["Email"]:
		return &ValidationError{Field: "email", Message: MessageInvalidEmail}
	case failed["ConfirmPassword"]:
		return &ValidationError{Field: "confirmPassword", Message: MessagePasswordMismatch}
	default:
		return &ValidationError{Field: "password", Message: MessagePasswordTooShort}
	}
}

func firstField(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return validationErrors[0].Field()
	}

	return ""
}

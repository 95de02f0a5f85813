// Package forms declares the field sets accepted by the registration and login pages.
//
// The forms only check field shape. Matching passwords, unique usernames and
// credential lookups are not part of either form.
package forms

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// RegistrationForm is submitted by the register page
type RegistrationForm struct {
	Username  string `form:"username" json:"username" validate:"required,max=45"`
	Email     string `form:"email" json:"email" validate:"required,email"`
	Password1 string `form:"password1" json:"password1" validate:"required,max=45"`
	Password2 string `form:"password2" json:"password2" validate:"required,max=45"`
}

// LoginForm is submitted by the login page
type LoginForm struct {
	Username string `form:"username" json:"username" validate:"required,max=45"`
	Password string `form:"password" json:"password" validate:"required,max=45"`
}

// FieldErrors maps a form field name to a human readable problem
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+fe[f])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// Validate checks the registration fields
func (f RegistrationForm) Validate() error {
	return check(f)
}

// Validate checks the login fields
func (f LoginForm) Validate() error {
	return check(f)
}

func check(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := make(FieldErrors, len(verrs))
	for _, e := range verrs {
		fe[strings.ToLower(e.Field())] = message(e)
	}
	return fe
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters (it has %d)", e.Param(), len([]rune(e.Value().(string))))
	case "email":
		return "enter a valid email address"
	default:
		return "invalid value"
	}
}

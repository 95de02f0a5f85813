package forms

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func validRegistration() RegistrationForm {
	return RegistrationForm{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password1: "secret",
		Password2: "secret",
	}
}

func TestRegistrationForm_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(f *RegistrationForm)
		wantFields []string
	}{
		{name: "valid", mutate: func(f *RegistrationForm) {}},
		{name: "username_at_limit", mutate: func(f *RegistrationForm) { f.Username = strings.Repeat("a", 45) }},
		{name: "username_too_long", mutate: func(f *RegistrationForm) { f.Username = strings.Repeat("a", 46) }, wantFields: []string{"username"}},
		{name: "invalid_email", mutate: func(f *RegistrationForm) { f.Email = "jdoe.example.com" }, wantFields: []string{"email"}},
		{name: "passwords_differ", mutate: func(f *RegistrationForm) { f.Password2 = "something-else" }},
		{name: "password_too_long", mutate: func(f *RegistrationForm) { f.Password1 = strings.Repeat("p", 46) }, wantFields: []string{"password1"}},
		{name: "all_empty", mutate: func(f *RegistrationForm) { *f = RegistrationForm{} }, wantFields: []string{"username", "email", "password1", "password2"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := validRegistration()
			tc.mutate(&f)

			err := f.Validate()
			if len(tc.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			var fe FieldErrors
			require.True(t, errors.As(err, &fe))
			require.Len(t, fe, len(tc.wantFields))
			for _, field := range tc.wantFields {
				require.Contains(t, fe, field)
			}
		})
	}
}

func TestLoginForm_Validate(t *testing.T) {
	t.Parallel()

	// no user lookup happens, any in-limit pair passes
	require.NoError(t, LoginForm{Username: "nobody", Password: "wrong"}.Validate())
	require.NoError(t, LoginForm{Username: strings.Repeat("n", 45), Password: strings.Repeat("p", 45)}.Validate())

	err := LoginForm{Username: strings.Repeat("n", 46), Password: "x"}.Validate()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe))
	require.Contains(t, fe["username"], "at most 45 characters")

	err = LoginForm{}.Validate()
	require.True(t, errors.As(err, &fe))
	require.Equal(t, "this field is required", fe["password"])
	require.Equal(t, "invalid form: password: this field is required; username: this field is required", err.Error())
}

package services

import (
	"testing"

	"stayhub/auth"
	"stayhub/domain"
	"stayhub/errors"

	"github.com/stretchr/testify/require"
)

func Test_Register_And_Login(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	request := auth.RegisterRequest{
		Email:     "alice@example.com",
		Password:  "Sup3r$ecretPass!",
		FirstName: "Alice",
		LastName:  "Martin",
		Phone:     "+33612345678",
		Role:      "host",
	}

	token, user, err := env.auth.Register(request)
	req.NoError(err)
	req.NotEmpty(token)
	req.Equal(domain.RoleHost, user.Role)
	req.Equal("alice@example.com", user.Email)

	token, logged, err := env.auth.Login("alice@example.com", "Sup3r$ecretPass!")
	req.NoError(err)
	req.NotEmpty(token)
	req.Equal(user.ID, logged.ID)
}

func Test_Register_Defaults_To_Guest_Role(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	_, user, err := env.auth.Register(auth.RegisterRequest{
		Email:     "bob@example.com",
		Password:  "Sup3r$ecretPass!",
		FirstName: "Bob",
		LastName:  "Durand",
	})
	req.NoError(err)
	req.Equal(domain.RoleGuest, user.Role)
}

func Test_Register_Rejects_Weak_Password_And_Duplicate_Email(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	weak := auth.RegisterRequest{
		Email:     "carol@example.com",
		Password:  "password",
		FirstName: "Carol",
		LastName:  "Petit",
	}
	_, _, err := env.auth.Register(weak)
	req.Error(err)

	// Failed registration must not reserve the email.
	valid := weak
	valid.Password = "Sup3r$ecretPass!"
	_, _, err = env.auth.Register(valid)
	req.NoError(err)

	_, _, err = env.auth.Register(valid)
	req.ErrorIs(err, errors.ErrDuplicateKey)
}

func Test_Login_Failures_Are_Indistinguishable(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	_, _, err := env.auth.Register(auth.RegisterRequest{
		Email:     "dana@example.com",
		Password:  "Sup3r$ecretPass!",
		FirstName: "Dana",
		LastName:  "Leroy",
	})
	req.NoError(err)

	// Wrong password and unknown account yield the same error, so a caller
	// cannot probe which emails are registered.
	_, _, wrongPassword := env.auth.Login("dana@example.com", "WrongPass123!")
	req.ErrorIs(wrongPassword, errors.ErrInvalidCredentials)

	_, _, unknownAccount := env.auth.Login("nobody@example.com", "WrongPass123!")
	req.ErrorIs(unknownAccount, errors.ErrInvalidCredentials)

	req.Equal(wrongPassword.Error(), unknownAccount.Error())
}

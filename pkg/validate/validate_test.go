package validate

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Username string `validate:"required,username"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestUsernameTag(t *testing.T) {
	v := newValidator(t)
	for name, ok := range map[string]bool{
		"alice":      true,
		"a.b-c_d":    true,
		"ab":         false,
		"with space": false,
		"bad!name":   false,
		"0123456789": true,
	} {
		err := v.Var(name, "username")
		assert.Equal(t, ok, err == nil, name)
	}
}

func TestMessage(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(signup{Username: "x", Email: "nope", Password: "short"})
	require.Error(t, err)

	msg := Message(err)
	assert.Contains(t, msg, "username may only contain")
	assert.Contains(t, msg, "email must be a valid email")
	assert.Contains(t, msg, "password must be at least 8 characters")

	assert.Equal(t, "plain", Message(errors.New("plain")))
}

func TestInstall(t *testing.T) {
	require.NoError(t, Install())
	require.NoError(t, Install())
}

package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldNames(t *testing.T, username, email, password string) []string {
	t.Helper()
	var names []string
	for _, e := range validateUser(username, email, password) {
		names = append(names, e.Field)
	}
	return names
}

func TestValidateUserAcceptsGoodInput(t *testing.T) {
	errs := validateUser("sam", "sam@example.com", "longenough")
	assert.Empty(t, errs)
}

func TestValidateUserShortUsername(t *testing.T) {
	assert.Contains(t, fieldNames(t, "ab", "a@b.com", "longenough"), "username")
}

func TestValidateUserUsernameWithAtSign(t *testing.T) {
	assert.Contains(t, fieldNames(t, "sam@home", "a@b.com", "longenough"), "username")
}

func TestValidateUserBadEmail(t *testing.T) {
	assert.Contains(t, fieldNames(t, "sam", "not-an-email", "longenough"), "email")
}

func TestValidateUserShortPassword(t *testing.T) {
	assert.Contains(t, fieldNames(t, "sam", "a@b.com", "short"), "password")
}

func TestValidateUserCollectsEveryError(t *testing.T) {
	errs := validateUser("a@", "nope", "pw")
	// short username, @ in username, bad email, short password
	require.Len(t, errs, 4)
}

func TestValidatePasswordBoundary(t *testing.T) {
	assert.Nil(t, validatePassword("12345678"))
	assert.NotNil(t, validatePassword("1234567"))
}

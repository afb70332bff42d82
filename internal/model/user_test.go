package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleAtLeast(t *testing.T) {
	ranked := []string{RolePlayer, RoleStoryteller, RoleAdmin}
	for i, role := range ranked {
		for j, minimum := range ranked {
			assert.Equal(t, i >= j, RoleAtLeast(role, minimum), "%s vs %s", role, minimum)
		}
	}

	// Unknown roles never pass, in either position.
	for _, pair := range [][2]string{
		{"narrator", RolePlayer},
		{RoleAdmin, "narrator"},
		{"", ""},
		{"", RolePlayer},
	} {
		assert.False(t, RoleAtLeast(pair[0], pair[1]), "%q vs %q", pair[0], pair[1])
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RolePlayer))
	assert.True(t, ValidRole(RoleStoryteller))
	assert.True(t, ValidRole(RoleAdmin))
	assert.False(t, ValidRole("Storyteller"))
	assert.False(t, ValidRole("user"))
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword(""))
	assert.Error(t, ValidatePassword("masque"))
	assert.Error(t, ValidatePassword("1234567"))
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword("the city remembers"))
}

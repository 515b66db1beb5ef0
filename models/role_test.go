package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"player", "parent", "academy", "clinic", "agent"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}

	_, err := ParseRole("admin")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestRoleKinds(t *testing.T) {
	assert.True(t, RolePlayer.IsCustomer())
	assert.True(t, RoleParent.IsCustomer())
	assert.False(t, RoleAgent.IsCustomer())

	assert.True(t, RoleAcademy.IsProvider())
	assert.True(t, RoleClinic.IsProvider())
	assert.False(t, RoleParent.IsProvider())
}

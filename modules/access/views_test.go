package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparking/parkd/modules/access"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"admin", "owner", "petugas"} {
		role, err := access.ParseRole(raw)
		require.NoError(t, err)
		assert.True(t, role.Valid())
		assert.Equal(t, raw, role.String())
	}

	_, err := access.ParseRole("superuser")
	require.ErrorIs(t, err, access.ErrUnknownRole)
	assert.False(t, access.Role("superuser").Valid())
}

func TestViewFor(t *testing.T) {
	t.Parallel()

	hasNav := func(v access.View, key string) bool {
		for _, n := range v.Nav {
			if n.Key == key {
				return true
			}
		}
		return false
	}

	t.Run("admin sees everything", func(t *testing.T) {
		t.Parallel()
		v, err := access.ViewFor(access.RoleAdmin)
		require.NoError(t, err)
		assert.True(t, hasNav(v, "users"))
		assert.True(t, hasNav(v, "reports"))
		assert.True(t, access.Allowed(access.RoleAdmin, access.PermManageUsers))
		assert.True(t, access.Allowed(access.RoleAdmin, access.PermRecordExit))
	})

	t.Run("owner has no user management", func(t *testing.T) {
		t.Parallel()
		v, err := access.ViewFor(access.RoleOwner)
		require.NoError(t, err)
		assert.False(t, hasNav(v, "users"))
		assert.True(t, hasNav(v, "reports"))
		assert.False(t, access.Allowed(access.RoleOwner, access.PermManageUsers))
		assert.False(t, access.Allowed(access.RoleOwner, access.PermRecordExit))
		assert.True(t, access.Allowed(access.RoleOwner, access.PermExport))
	})

	t.Run("petugas gets the gate workflow only", func(t *testing.T) {
		t.Parallel()
		v, err := access.ViewFor(access.RolePetugas)
		require.NoError(t, err)
		assert.False(t, hasNav(v, "users"))
		assert.False(t, hasNav(v, "reports"))
		assert.True(t, access.Allowed(access.RolePetugas, access.PermRecordEntry))
		assert.True(t, access.Allowed(access.RolePetugas, access.PermRecordExit))
		assert.False(t, access.Allowed(access.RolePetugas, access.PermViewReports))
		assert.False(t, access.Allowed(access.RolePetugas, access.PermManageAreas))
	})

	t.Run("unknown role denied everywhere", func(t *testing.T) {
		t.Parallel()
		_, err := access.ViewFor(access.Role("ghost"))
		require.ErrorIs(t, err, access.ErrUnknownRole)
		assert.False(t, access.Allowed(access.Role("ghost"), access.PermRecordEntry))
	})
}

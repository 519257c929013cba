package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("admin"))
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleSeller, ParseRole("Seller"))
	assert.Equal(t, RoleStaff, ParseRole("staff"))
	assert.Equal(t, RoleBuyer, ParseRole("buyer"))

	// Anything unknown collapses to guest.
	assert.Equal(t, RoleGuest, ParseRole(""))
	assert.Equal(t, RoleGuest, ParseRole("superuser"))
	assert.Equal(t, RoleGuest, ParseRole("moderator"))
}

func TestCapabilityMatrix(t *testing.T) {
	cases := []struct {
		role Role
		want Capabilities
	}{
		{RoleGuest, Capabilities{Read: true}},
		{RoleBuyer, Capabilities{Read: true}},
		{RoleSeller, Capabilities{Read: true, Create: true, Update: true}},
		{RoleStaff, Capabilities{Read: true, Create: true, Update: true}},
		{RoleAdmin, Capabilities{Read: true, Create: true, Update: true, Delete: true}},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.role.Capabilities(), "role %s", tc.role)
	}
}

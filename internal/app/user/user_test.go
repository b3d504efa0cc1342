package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleStringRoundTrip(t *testing.T) {
	for _, role := range []Role{RoleMember, RoleStoreManager, RoleOwner} {
		assert.Equal(t, role, RoleFromString(role.String()))
	}
}

func TestRoleFromStringUnknownDefaultsToMember(t *testing.T) {
	assert.Equal(t, RoleMember, RoleFromString(""))
	assert.Equal(t, RoleMember, RoleFromString("admin"))
	assert.Equal(t, RoleMember, RoleFromString("OWNER"))
}

func TestReservedRole(t *testing.T) {
	owners := []string{"boss"}
	managers := []string{"shopkeeper_one", "shopkeeper_two"}

	assert.Equal(t, RoleOwner, ReservedRole("boss", owners, managers))
	assert.Equal(t, RoleStoreManager, ReservedRole("shopkeeper_two", owners, managers))
	assert.Equal(t, RoleMember, ReservedRole("random_user", owners, managers))
	assert.Equal(t, RoleMember, ReservedRole("boss", nil, nil))
}

func TestReservedRoleOwnerListWinsOverManagerList(t *testing.T) {
	overlap := []string{"boss"}
	assert.Equal(t, RoleOwner, ReservedRole("boss", overlap, overlap))
}

package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uminion/internal/app/user"
)

func owner() user.User   { return user.User{ID: "owner-1", Role: user.RoleOwner} }
func manager() user.User { return user.User{ID: "mgr-1", Role: user.RoleStoreManager} }
func member() user.User  { return user.User{ID: "mem-1", Role: user.RoleMember} }

func blockedMember() user.User {
	u := member()
	u.Blocked = true
	return u
}

func TestResolvePartitionOwnerAlwaysWritesMain(t *testing.T) {
	for _, requested := range []int{0, 1, 5, 30, 99} {
		partition, customErr := ResolvePartition(owner(), requested)
		require.Nil(t, customErr)
		assert.Equal(t, StoreTypeMain, partition.StoreType)
		assert.Equal(t, MainStoreID, partition.StoreID)
		assert.Empty(t, partition.OwnerID)
	}
}

func TestResolvePartitionManagerNeedsStoreID(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		wantErr   bool
	}{
		{name: "absent", requested: 0, wantErr: true},
		{name: "below range", requested: -3, wantErr: true},
		{name: "lowest", requested: 1},
		{name: "middle", requested: 17},
		{name: "highest", requested: 30},
		{name: "above range", requested: 31, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			partition, customErr := ResolvePartition(manager(), tt.requested)

			if tt.wantErr {
				require.NotNil(t, customErr)
				assert.Equal(t, 4001, customErr.Code)
				return
			}

			require.Nil(t, customErr)
			assert.Equal(t, StoreTypeNumbered, partition.StoreType)
			assert.Equal(t, tt.requested, partition.StoreID)
		})
	}
}

func TestResolvePartitionMemberIgnoresRequestedStore(t *testing.T) {
	// A requested numbered store is ignored, not rejected: the highest tier
	// decides, and a member's highest tier is the personal partition.
	partition, customErr := ResolvePartition(member(), 12)
	require.Nil(t, customErr)

	assert.Equal(t, StoreTypeUser, partition.StoreType)
	assert.Equal(t, "mem-1", partition.OwnerID)
}

func TestResolvePartitionBlockedAccountRejected(t *testing.T) {
	for _, requested := range []int{0, 5} {
		_, customErr := ResolvePartition(blockedMember(), requested)
		require.NotNil(t, customErr)
		assert.Equal(t, 3009, customErr.Code)
	}

	blockedOwner := owner()
	blockedOwner.Blocked = true
	_, customErr := ResolvePartition(blockedOwner, 0)
	require.NotNil(t, customErr)
	assert.Equal(t, 3009, customErr.Code)
}

func TestCanWrite(t *testing.T) {
	mainProduct := Product{ID: "p1", StoreType: StoreTypeMain, StoreID: MainStoreID}
	numberedProduct := Product{ID: "p2", StoreType: StoreTypeNumbered, StoreID: 7}
	memberProduct := Product{ID: "p3", StoreType: StoreTypeUser, OwnerID: "mem-1"}
	otherMemberProduct := Product{ID: "p4", StoreType: StoreTypeUser, OwnerID: "mem-2"}

	tests := []struct {
		name     string
		caller   user.User
		product  Product
		wantCode int
	}{
		{name: "owner writes main", caller: owner(), product: mainProduct},
		{name: "owner cannot touch numbered store", caller: owner(), product: numberedProduct, wantCode: 4003},
		{name: "owner cannot touch personal store", caller: owner(), product: memberProduct, wantCode: 4003},
		{name: "manager writes any numbered store", caller: manager(), product: numberedProduct},
		{name: "manager cannot touch main store", caller: manager(), product: mainProduct, wantCode: 4003},
		{name: "manager cannot touch personal store", caller: manager(), product: memberProduct, wantCode: 4003},
		{name: "member writes own store", caller: member(), product: memberProduct},
		{name: "member cannot touch another personal store", caller: member(), product: otherMemberProduct, wantCode: 4003},
		{name: "member cannot touch main store", caller: member(), product: mainProduct, wantCode: 4003},
		{name: "member cannot touch numbered store", caller: member(), product: numberedProduct, wantCode: 4003},
		{name: "blocked member cannot write own store", caller: blockedMember(), product: memberProduct, wantCode: 3009},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customErr := CanWrite(tt.caller, tt.product)

			if tt.wantCode == 0 {
				assert.Nil(t, customErr)
			} else {
				require.NotNil(t, customErr)
				assert.Equal(t, tt.wantCode, customErr.Code)
			}
		})
	}
}

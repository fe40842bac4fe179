package contracts_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
)

func TestMinimalAdmin(t *testing.T) {
	tb := newTestbed(t)
	admin := tb.create(deployer, contracts.MinimalAdminArtifact.MustInitCode(alice))

	owner, err := tb.admin.UnpackOwner(tb.call(bob, admin, tb.admin.PackOwner()))
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	version, err := tb.admin.UnpackUPGRADEINTERFACEVERSION(tb.call(bob, admin, tb.admin.PackUPGRADEINTERFACEVERSION()))
	require.NoError(t, err)
	assert.Equal(t, "5.0.0", version)

	t.Run("zero initial owner", func(t *testing.T) {
		r := tb.host.Transact(chain.Message{From: deployer, Data: contracts.MinimalAdminArtifact.MustInitCode(common.Address{})})
		expectRevert(t, r, tb.admin.ABI(), "InvalidNewOwner", common.Address{})
	})

	t.Run("transferOwnership", func(t *testing.T) {
		r := tb.send(bob, admin, tb.admin.PackTransferOwnership(bob), 0)
		expectRevert(t, r, tb.admin.ABI(), "UnauthorizedAccount", bob)

		r = tb.send(alice, admin, tb.admin.PackTransferOwnership(common.Address{}), 0)
		expectRevert(t, r, tb.admin.ABI(), "InvalidNewOwner", common.Address{})

		r = tb.mustSend(alice, admin, tb.admin.PackTransferOwnership(bob), 0)
		require.Len(t, r.Logs, 1)
		ev, err := tb.admin.UnpackOwnershipTransferredEvent(r.Logs[0])
		require.NoError(t, err)
		assert.Equal(t, alice, ev.PreviousOwner)
		assert.Equal(t, bob, ev.NewOwner)

		owner, err := tb.admin.UnpackOwner(tb.call(bob, admin, tb.admin.PackOwner()))
		require.NoError(t, err)
		assert.Equal(t, bob, owner)
	})

	t.Run("calldata shape", func(t *testing.T) {
		r := tb.send(bob, admin, []byte{0x01, 0x02}, 0)
		expectRevert(t, r, tb.admin.ABI(), "InvalidCalldataLength")

		r = tb.send(bob, admin, nil, 0)
		expectRevert(t, r, tb.admin.ABI(), "InvalidCalldataLength")

		r = tb.send(bob, admin, []byte{0x01, 0x02, 0x03, 0x04}, 0)
		expectRevert(t, r, tb.admin.ABI(), "InvalidSelector")
	})

	t.Run("upgradeAndCall is owner only", func(t *testing.T) {
		r := tb.send(alice, admin, tb.admin.PackUpgradeAndCall(common.Address{0x99}, tb.v1, nil), 0)
		expectRevert(t, r, tb.admin.ABI(), "UnauthorizedAccount", alice)
	})
}

func TestAdminRelaysToProxy(t *testing.T) {
	tb := newTestbed(t)

	// A proxy deployed directly, with alice owning its admin.
	proxy := tb.create(deployer, contracts.TransparentProxyArtifact.MustInitCode(tb.v1, alice, tb.mockV1.PackInitialize(big.NewInt(4))))
	admin := contracts.AdminAddress(proxy)

	r := tb.send(alice, admin, tb.admin.PackUpgradeAndCall(proxy, alice, nil), 0)
	expectRevert(t, r, tb.proxy.ABI(), "InvalidImplementation", alice)

	tb.mustSend(alice, admin, tb.admin.PackUpgradeAndCall(proxy, tb.v2, tb.mockV2.PackInitialize("relayed")), 0)
	assert.Equal(t, tb.v2, tb.slotAddress(proxy, bindings.ImplementationSlot))
	data, err := tb.mockV2.UnpackString("getData", tb.call(bob, proxy, tb.mockV2.Pack("getData")))
	require.NoError(t, err)
	assert.Equal(t, "relayed", data)
	assert.Equal(t, int64(4), tb.uintAt(proxy, tb.mockV2, "getValue").Int64())
}

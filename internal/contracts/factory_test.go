package contracts_test

import (
	"math"
	"math/big"
	"math/rand"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
	"github.com/trebuchet-org/proxyforge/internal/contracts/samples"
	"github.com/trebuchet-org/proxyforge/pkg/address"
)

func TestMockUpgradeScenario(t *testing.T) {
	tb := newTestbed(t)

	proxy := tb.deploy(bob, tb.v1, alice, tb.mockV1.PackInitialize(big.NewInt(100)))
	assert.Equal(t, int64(100), tb.uintAt(proxy, tb.mockV1, "getValue").Int64())
	assert.Equal(t, int64(1), tb.uintAt(proxy, tb.mockV1, "version").Int64())

	tb.mustSend(alice, tb.factory, tb.forge.PackUpgradeAndCall(proxy, tb.v2, tb.mockV2.PackInitialize("X")), 0)
	assert.Equal(t, int64(2), tb.uintAt(proxy, tb.mockV2, "version").Int64())
	data, err := tb.mockV2.UnpackString("getData", tb.call(bob, proxy, tb.mockV2.Pack("getData")))
	require.NoError(t, err)
	assert.Equal(t, "X", data)
	assert.Equal(t, int64(100), tb.uintAt(proxy, tb.mockV2, "getValue").Int64(), "storage survives the upgrade")

	r := tb.send(bob, tb.factory, tb.forge.PackUpgrade(proxy, tb.v1), 0)
	expectRevert(t, r, tb.forge.ABI(), "UnauthorizedAccount", bob)
}

func TestDeployRecords(t *testing.T) {
	tb := newTestbed(t)

	predicted, err := tb.forge.UnpackComputeProxyAddress(tb.call(bob, tb.factory, tb.forge.PackComputeProxyAddress(new(big.Int).SetUint64(tb.host.Nonce(tb.factory)))))
	require.NoError(t, err)

	r := tb.mustSend(bob, tb.factory, tb.forge.PackDeploy(tb.v1, alice), 0)
	proxy, err := tb.forge.UnpackDeploy(r.ReturnData)
	require.NoError(t, err)
	assert.Equal(t, predicted, proxy)
	assert.Equal(t, crypto.CreateAddress(tb.factory, 1), proxy, "factory starts at nonce 1")

	admin, implementation, owner := tb.record(proxy)
	assert.Equal(t, crypto.CreateAddress(proxy, 1), admin)
	assert.Equal(t, contracts.AdminAddress(proxy), admin)
	assert.Equal(t, tb.v1, implementation)
	assert.Equal(t, alice, owner)

	t.Run("aliases read the same records", func(t *testing.T) {
		a, _ := tb.forge.UnpackAdminOf(tb.call(bob, tb.factory, tb.forge.PackGetProxyAdmin(proxy)))
		i, _ := tb.forge.UnpackImplementationOf(tb.call(bob, tb.factory, tb.forge.PackGetProxyImplementation(proxy)))
		o, _ := tb.forge.UnpackOwnerOf(tb.call(bob, tb.factory, tb.forge.PackGetProxyOwner(proxy)))
		assert.Equal(t, []common.Address{admin, implementation, owner}, []common.Address{a, i, o})
	})

	t.Run("proxy state agrees", func(t *testing.T) {
		assert.Equal(t, tb.v1, tb.slotAddress(proxy, bindings.ImplementationSlot))
		assert.Equal(t, admin, tb.slotAddress(proxy, bindings.AdminSlot))
		assert.Equal(t, admin, tb.host.ContractAt(proxy).(*contracts.TransparentProxy).Admin())
		assert.Equal(t, uint64(2), tb.host.Nonce(proxy), "admin is the proxy's only creation")

		adminOwner, err := tb.admin.UnpackOwner(tb.call(bob, admin, tb.admin.PackOwner()))
		require.NoError(t, err)
		assert.Equal(t, tb.factory, adminOwner, "factory owns every admin")
	})

	t.Run("events", func(t *testing.T) {
		require.Len(t, r.Logs, 6)

		upgraded, err := tb.proxy.UnpackUpgradedEvent(r.Logs[0])
		require.NoError(t, err)
		assert.Equal(t, tb.v1, upgraded.Implementation)
		assert.Equal(t, proxy, r.Logs[0].Address)

		transferred, err := tb.admin.UnpackOwnershipTransferredEvent(r.Logs[1])
		require.NoError(t, err)
		assert.Equal(t, common.Address{}, transferred.PreviousOwner)
		assert.Equal(t, tb.factory, transferred.NewOwner)
		assert.Equal(t, admin, r.Logs[1].Address)

		changed, err := tb.proxy.UnpackAdminChangedEvent(r.Logs[2])
		require.NoError(t, err)
		assert.Equal(t, common.Address{}, changed.PreviousAdmin)
		assert.Equal(t, admin, changed.NewAdmin)

		implEv, err := tb.forge.UnpackProxyImplementationChangedEvent(r.Logs[3])
		require.NoError(t, err)
		assert.Equal(t, proxy, implEv.Proxy)
		assert.Equal(t, tb.v1, implEv.Implementation)

		adminEv, err := tb.forge.UnpackProxyAdminChangedEvent(r.Logs[4])
		require.NoError(t, err)
		assert.Equal(t, admin, adminEv.Admin)

		ownerEv, err := tb.forge.UnpackProxyOwnerChangedEvent(r.Logs[5])
		require.NoError(t, err)
		assert.Equal(t, alice, ownerEv.Owner)

		for _, l := range r.Logs[3:] {
			assert.Equal(t, tb.factory, l.Address)
		}
	})
}

func TestDeployValidation(t *testing.T) {
	tb := newTestbed(t)
	nonce := tb.host.Nonce(tb.factory)

	t.Run("implementation without code", func(t *testing.T) {
		r := tb.send(bob, tb.factory, tb.forge.PackDeploy(alice, alice), 0)
		expectRevert(t, r, tb.forge.ABI(), "InvalidProxyImplementation", alice)

		r = tb.send(bob, tb.factory, tb.forge.PackDeploy(common.Address{}, alice), 0)
		expectRevert(t, r, tb.forge.ABI(), "InvalidProxyImplementation", common.Address{})
	})

	t.Run("zero owner", func(t *testing.T) {
		r := tb.send(bob, tb.factory, tb.forge.PackDeploy(tb.v1, common.Address{}), 0)
		expectRevert(t, r, tb.forge.ABI(), "InvalidProxyOwner", common.Address{})
	})

	t.Run("value without init data", func(t *testing.T) {
		r := tb.send(bob, tb.factory, tb.forge.PackDeploy(tb.v1, alice), 5)
		expectRevert(t, r, tb.proxy.ABI(), "NonPayable")
		assert.Equal(t, uint64(5), tb.host.Balance(bob).Uint64(), "value returned on revert")
	})

	t.Run("initializer revert is forwarded", func(t *testing.T) {
		r := tb.send(bob, tb.factory, tb.forge.PackDeployAndCall(tb.v1, alice, tb.mockV1.Pack("failCustom", big.NewInt(42))), 0)
		expectRevert(t, r, tb.mockV1.ABI(), "MockFailure", big.NewInt(42))
	})

	t.Run("initializer without return data", func(t *testing.T) {
		r := tb.send(bob, tb.factory, tb.forge.PackDeployAndCall(tb.v1, alice, []byte{0xde, 0xad, 0xbe, 0xef}), 0)
		expectRevert(t, r, tb.forge.ABI(), "DeploymentFailed")
	})

	assert.Equal(t, nonce, tb.host.Nonce(tb.factory), "failed deployments leave no trace")
}

func TestDeployForwardsValue(t *testing.T) {
	tb := newTestbed(t)

	r := tb.mustSend(bob, tb.factory, tb.forge.PackDeployAndCall(tb.v1, alice, tb.mockV1.PackInitialize(big.NewInt(7))), 1000)
	proxy, err := tb.forge.UnpackDeployAndCall(r.ReturnData)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), tb.host.Balance(proxy).Uint64())
	assert.True(t, tb.host.Balance(tb.factory).IsZero())
}

func TestComputeCreateAddressMatchesDeployment(t *testing.T) {
	nonces := []uint64{1, 2, 127, 128, 255, 256, 65535, 65536, 1 << 32, address.MaxNonce - 1, address.MaxNonce}

	for _, nonce := range nonces {
		tb := newTestbed(t)
		tb.host.SetNonce(tb.factory, nonce)

		predicted, err := tb.forge.UnpackComputeProxyAddress(tb.call(bob, tb.factory, tb.forge.PackComputeProxyAddress(new(big.Int).SetUint64(nonce))))
		require.NoError(t, err)
		local, err := address.ComputeCreateAddress(tb.factory, nonce)
		require.NoError(t, err)
		assert.Equal(t, local, predicted)

		proxy := tb.deploy(bob, tb.v1, alice, nil)
		assert.Equal(t, predicted, proxy, "nonce %d", nonce)
	}

	t.Run("nonce 2^64-1", func(t *testing.T) {
		tb := newTestbed(t)
		n := new(big.Int).SetUint64(math.MaxUint64)
		_, err := tb.host.Call(chain.Message{From: bob, To: &tb.factory, Data: tb.forge.PackComputeProxyAddress(n)})
		require.Error(t, err)
		want, _ := bindings.PackError(tb.forge.ABI(), "InvalidNonce", n)
		assert.Equal(t, want, chain.RevertData(err))

		tb.host.SetNonce(tb.factory, math.MaxUint64)
		r := tb.send(bob, tb.factory, tb.forge.PackDeploy(tb.v1, alice), 0)
		expectRevert(t, r, tb.forge.ABI(), "DeploymentFailed")
	})

	t.Run("nonce beyond 64 bits", func(t *testing.T) {
		tb := newTestbed(t)
		n := new(big.Int).Lsh(big.NewInt(1), 100)
		_, err := tb.host.Call(chain.Message{From: bob, To: &tb.factory, Data: tb.forge.PackComputeProxyAddress(n)})
		assert.True(t, contracts.IsError(err, "InvalidNonce"))
	})
}

func saltFor(owner common.Address, tail uint64) [32]byte {
	var salt [32]byte
	copy(salt[:20], owner.Bytes())
	new(big.Int).SetUint64(tail).FillBytes(salt[24:])
	return salt
}

func TestDeployDeterministic(t *testing.T) {
	tb := newTestbed(t)
	init := tb.mockV1.PackInitialize(big.NewInt(5))

	predict := func(salt [32]byte, data []byte) common.Address {
		addr, err := tb.forge.UnpackComputeProxyAddress0(tb.call(bob, tb.factory, tb.forge.PackComputeProxyAddress0(tb.v1, salt, data)))
		require.NoError(t, err)
		return addr
	}

	t.Run("prediction matches deployment", func(t *testing.T) {
		salt := saltFor(bob, 1)
		predicted := predict(salt, init)
		assert.Equal(t, predicted, predict(salt, init))
		assert.Equal(t, address.ComputeCreate2AddressFromCode(tb.factory, salt, contracts.ProxyInitCode(tb.v1, tb.factory, init)), predicted)

		r := tb.mustSend(bob, tb.factory, tb.forge.PackDeployDeterministicAndCall(tb.v1, alice, salt, init), 0)
		proxy, err := tb.forge.UnpackDeployDeterministicAndCall(r.ReturnData)
		require.NoError(t, err)
		assert.Equal(t, predicted, proxy)
		assert.Equal(t, int64(5), tb.uintAt(proxy, tb.mockV1, "getValue").Int64())
		assert.Equal(t, crypto.CreateAddress(proxy, 1), contracts.AdminAddress(proxy))
	})

	t.Run("salt and data sensitivity", func(t *testing.T) {
		assert.NotEqual(t, predict(saltFor(bob, 2), init), predict(saltFor(bob, 3), init))
		assert.NotEqual(t, predict(saltFor(bob, 2), init), predict(saltFor(bob, 2), nil))
	})

	t.Run("zero prefix is open to anyone", func(t *testing.T) {
		salt := saltFor(common.Address{}, 99)
		r := tb.mustSend(alice, tb.factory, tb.forge.PackDeployDeterministic(tb.v1, alice, salt), 0)
		proxy, err := tb.forge.UnpackDeployDeterministic(r.ReturnData)
		require.NoError(t, err)
		assert.Equal(t, predict(salt, nil), proxy)
	})

	t.Run("collision", func(t *testing.T) {
		salt := saltFor(bob, 7)
		tb.mustSend(bob, tb.factory, tb.forge.PackDeployDeterministic(tb.v1, alice, salt), 0)
		r := tb.send(bob, tb.factory, tb.forge.PackDeployDeterministic(tb.v1, alice, salt), 0)
		expectRevert(t, r, tb.forge.ABI(), "DeploymentFailed")

		// The owner is recorded by the factory, not baked into the init code.
		r = tb.send(bob, tb.factory, tb.forge.PackDeployDeterministic(tb.v1, bob, salt), 0)
		expectRevert(t, r, tb.forge.ABI(), "DeploymentFailed")
	})

	t.Run("foreign salt prefix always rejected", func(t *testing.T) {
		rng := rand.New(rand.NewSource(1))
		for i := 0; i < 25; i++ {
			var caller, other common.Address
			rng.Read(caller[:])
			rng.Read(other[:])
			if other == caller || other == (common.Address{}) {
				continue
			}
			salt := saltFor(other, rng.Uint64())
			r := tb.send(caller, tb.factory, tb.forge.PackDeployDeterministicAndCall(tb.v1, alice, salt, init), 0)
			expectRevert(t, r, tb.forge.ABI(), "InvalidSalt", salt)
		}
	})
}

func TestTransparency(t *testing.T) {
	tb := newTestbed(t)
	proxy := tb.deploy(bob, tb.v1, alice, tb.mockV1.PackInitialize(big.NewInt(11)))
	admin, _, _ := tb.record(proxy)

	t.Run("admin is denied business logic", func(t *testing.T) {
		for _, input := range [][]byte{
			tb.mockV1.Pack("getValue"),
			tb.mockV1.Pack("setValue", big.NewInt(1)),
			{0x01},
			nil,
		} {
			r := tb.send(admin, proxy, input, 0)
			expectRevert(t, r, tb.proxy.ABI(), "ProxyDeniedAdminAccess")
		}
	})

	t.Run("admin may upgrade", func(t *testing.T) {
		r := tb.send(admin, proxy, tb.proxy.PackUpgradeToAndCall(common.Address{0x01}, nil), 0)
		expectRevert(t, r, tb.proxy.ABI(), "InvalidImplementation", common.Address{0x01})
	})

	t.Run("users reach the implementation", func(t *testing.T) {
		out, err := tb.mockV1.ABI().Unpack("whoami", tb.call(bob, proxy, tb.mockV1.Pack("whoami")))
		require.NoError(t, err)
		assert.Equal(t, bob, out[0])
		assert.Equal(t, proxy, out[1], "implementation runs against proxy storage")

		direct := tb.send(bob, tb.v1, tb.mockV1.Pack("fail"), 0)
		viaProxy := tb.send(bob, proxy, tb.mockV1.Pack("fail"), 0)
		require.False(t, viaProxy.Succeeded())
		assert.Equal(t, direct.RevertData(), viaProxy.RevertData())
		assert.Equal(t, "Error(\"MockV1: failure\")", contracts.DecodeRevert(viaProxy.RevertData()).String())

		direct = tb.send(bob, tb.v1, tb.mockV1.Pack("failCustom", big.NewInt(3)), 0)
		viaProxy = tb.send(bob, proxy, tb.mockV1.Pack("failCustom", big.NewInt(3)), 0)
		assert.Equal(t, direct.RevertData(), viaProxy.RevertData())

		unknown := tb.send(bob, proxy, []byte{0xaa, 0xbb, 0xcc, 0xdd}, 0)
		require.False(t, unknown.Succeeded())
		assert.Empty(t, unknown.RevertData())
	})

	t.Run("user calls with the upgrade selector are forwarded", func(t *testing.T) {
		r := tb.send(bob, proxy, tb.proxy.PackUpgradeToAndCall(tb.v2, nil), 0)
		require.False(t, r.Succeeded())
		assert.Empty(t, r.RevertData(), "MockV1 has no such function")
		assert.Equal(t, tb.v1, tb.slotAddress(proxy, bindings.ImplementationSlot))
	})
}

func TestUpgradeAtomicity(t *testing.T) {
	tb := newTestbed(t)
	proxy := tb.deploy(bob, tb.v1, alice, tb.mockV1.PackInitialize(big.NewInt(1)))
	otherV1 := tb.create(deployer, samples.MockV1Artifact.MustInitCode())

	unchanged := func(t *testing.T) {
		t.Helper()
		_, implementation, _ := tb.record(proxy)
		assert.Equal(t, tb.v1, implementation)
		assert.Equal(t, tb.v1, tb.slotAddress(proxy, bindings.ImplementationSlot))
	}

	t.Run("implementation without code", func(t *testing.T) {
		r := tb.send(alice, tb.factory, tb.forge.PackUpgrade(proxy, bob), 0)
		expectRevert(t, r, tb.forge.ABI(), "InvalidProxyImplementation", bob)
		unchanged(t)
	})

	t.Run("same implementation", func(t *testing.T) {
		r := tb.send(alice, tb.factory, tb.forge.PackUpgrade(proxy, tb.v1), 0)
		expectRevert(t, r, tb.forge.ABI(), "InvalidProxyImplementation", tb.v1)
		unchanged(t)
	})

	t.Run("initializer revert is forwarded", func(t *testing.T) {
		r := tb.send(alice, tb.factory, tb.forge.PackUpgradeAndCall(proxy, otherV1, tb.mockV1.Pack("failCustom", big.NewInt(9))), 0)
		expectRevert(t, r, tb.mockV1.ABI(), "MockFailure", big.NewInt(9))
		unchanged(t)
	})

	t.Run("silent failure becomes UpgradeFailed", func(t *testing.T) {
		r := tb.send(alice, tb.factory, tb.forge.PackUpgradeAndCall(proxy, tb.v2, []byte{0x12, 0x34, 0x56, 0x78}), 0)
		expectRevert(t, r, tb.forge.ABI(), "UpgradeFailed")
		unchanged(t)
	})

	t.Run("value without data", func(t *testing.T) {
		r := tb.send(alice, tb.factory, tb.forge.PackUpgrade(proxy, tb.v2), 3)
		expectRevert(t, r, tb.proxy.ABI(), "NonPayable")
		unchanged(t)
	})

	t.Run("success", func(t *testing.T) {
		r := tb.mustSend(alice, tb.factory, tb.forge.PackUpgradeAndCall(proxy, otherV1, tb.mockV1.PackInitialize(big.NewInt(50))), 20)
		_, implementation, _ := tb.record(proxy)
		assert.Equal(t, otherV1, implementation)
		assert.Equal(t, otherV1, tb.slotAddress(proxy, bindings.ImplementationSlot))
		assert.Equal(t, int64(50), tb.uintAt(proxy, tb.mockV1, "getValue").Int64())
		assert.Equal(t, uint64(20), tb.host.Balance(proxy).Uint64())

		last := r.Logs[len(r.Logs)-1]
		ev, err := tb.forge.UnpackProxyImplementationChangedEvent(last)
		require.NoError(t, err)
		assert.Equal(t, otherV1, ev.Implementation)
		for _, l := range r.Logs[:len(r.Logs)-1] {
			assert.NotEqual(t, tb.factory, l.Address, "one factory event per upgrade")
		}
	})
}

func TestOwnershipGating(t *testing.T) {
	tb := newTestbed(t)
	proxy := tb.deploy(bob, tb.v1, alice, nil)
	carol := common.HexToAddress("0xca401")

	for _, caller := range []common.Address{bob, carol, deployer} {
		r := tb.send(caller, tb.factory, tb.forge.PackUpgrade(proxy, tb.v2), 0)
		expectRevert(t, r, tb.forge.ABI(), "UnauthorizedAccount", caller)

		r = tb.send(caller, tb.factory, tb.forge.PackChangeOwner(proxy, caller), 0)
		expectRevert(t, r, tb.forge.ABI(), "UnauthorizedAccount", caller)
	}

	r := tb.send(alice, tb.factory, tb.forge.PackChangeOwner(proxy, common.Address{}), 0)
	expectRevert(t, r, tb.forge.ABI(), "InvalidProxyOwner", common.Address{})

	r = tb.mustSend(alice, tb.factory, tb.forge.PackChangeOwner(proxy, bob), 0)
	require.Len(t, r.Logs, 1)
	ev, err := tb.forge.UnpackProxyOwnerChangedEvent(r.Logs[0])
	require.NoError(t, err)
	assert.Equal(t, proxy, ev.Proxy)
	assert.Equal(t, bob, ev.Owner)

	r = tb.send(alice, tb.factory, tb.forge.PackUpgrade(proxy, tb.v2), 0)
	expectRevert(t, r, tb.forge.ABI(), "UnauthorizedAccount", alice)

	tb.mustSend(bob, tb.factory, tb.forge.PackSetProxyOwner(proxy, carol), 0)
	_, _, owner := tb.record(proxy)
	assert.Equal(t, carol, owner)

	t.Run("unknown proxy", func(t *testing.T) {
		r := tb.send(alice, tb.factory, tb.forge.PackUpgrade(common.Address{0x42}, tb.v2), 0)
		expectRevert(t, r, tb.forge.ABI(), "UnauthorizedAccount", alice)
	})

	t.Run("zero address owns nothing", func(t *testing.T) {
		unknown := common.Address{0x42}
		for _, input := range [][]byte{
			tb.forge.PackUpgrade(unknown, tb.v2),
			tb.forge.PackChangeOwner(unknown, alice),
		} {
			_, err := tb.host.Call(chain.Message{From: common.Address{}, To: &tb.factory, Data: input})
			want, packErr := bindings.PackError(tb.forge.ABI(), "UnauthorizedAccount", common.Address{})
			require.NoError(t, packErr)
			assert.Equal(t, want, chain.RevertData(err))

			r := tb.send(common.Address{}, tb.factory, input, 0)
			require.False(t, r.Succeeded())
			assert.ErrorIs(t, r.Err, chain.ErrZeroSender)
		}

		_, implementation, owner := tb.record(unknown)
		assert.Equal(t, common.Address{}, implementation)
		assert.Equal(t, common.Address{}, owner)
	})

	t.Run("contract sender rejected", func(t *testing.T) {
		r := tb.send(tb.factory, tb.factory, tb.forge.PackUpgrade(proxy, tb.v2), 0)
		require.False(t, r.Succeeded())
		assert.ErrorIs(t, r.Err, chain.ErrSenderNoEOA)
	})

	t.Run("changeOwner is not payable", func(t *testing.T) {
		r := tb.send(carol, tb.factory, tb.forge.PackChangeOwner(proxy, alice), 1)
		require.False(t, r.Succeeded())
		assert.Empty(t, r.RevertData())
	})
}

func TestReentrantInitializerSeesOldRecord(t *testing.T) {
	tb := newTestbed(t)
	proxy := tb.deploy(bob, tb.v1, alice, nil)
	reentrant := tb.create(deployer, samples.ReentrantUpgraderArtifact.MustInitCode(tb.factory))
	sample := bindings.NewReentrantUpgrader()

	tb.mustSend(alice, tb.factory, tb.forge.PackUpgradeAndCall(proxy, reentrant, sample.PackInitialize()), 0)

	observed, err := sample.UnpackAddress("observedImplementation", tb.call(bob, proxy, sample.Pack("observedImplementation")))
	require.NoError(t, err)
	assert.Equal(t, tb.v1, observed, "record is committed after the external call")

	succeeded, err := sample.UnpackBool("reentrySucceeded", tb.call(bob, proxy, sample.Pack("reentrySucceeded")))
	require.NoError(t, err)
	assert.False(t, succeeded)

	out, err := sample.ABI().Unpack("reentryRevert", tb.call(bob, proxy, sample.Pack("reentryRevert")))
	require.NoError(t, err)
	sel := out[0].([4]byte)
	assert.Equal(t, tb.forge.ABI().Errors["UnauthorizedAccount"].ID.Bytes()[:4], sel[:])

	_, implementation, _ := tb.record(proxy)
	assert.Equal(t, reentrant, implementation)
}

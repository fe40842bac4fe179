package contracts_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/proxyforge/internal/bindings"
	"github.com/trebuchet-org/proxyforge/internal/chain"
	"github.com/trebuchet-org/proxyforge/internal/contracts"
	"github.com/trebuchet-org/proxyforge/internal/contracts/samples"
)

var (
	deployer = common.HexToAddress("0x00000000000000000000000000000000000d0d0d")
	alice    = common.HexToAddress("0x000000000000000000000000000000000000a11c")
	bob      = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

type testbed struct {
	t       *testing.T
	host    *chain.Host
	factory common.Address
	v1      common.Address
	v2      common.Address

	forge  *bindings.ProxyForge
	admin  *bindings.MinimalAdmin
	proxy  *bindings.TransparentProxy
	mockV1 *bindings.Sample
	mockV2 *bindings.Sample
}

func newTestbed(t *testing.T) *testbed {
	t.Helper()
	host := chain.NewHost(nil, contracts.Artifacts()...)
	host.Register(samples.Artifacts()...)

	tb := &testbed{
		t:      t,
		host:   host,
		forge:  bindings.NewProxyForge(),
		admin:  bindings.NewMinimalAdmin(),
		proxy:  bindings.NewTransparentProxy(),
		mockV1: bindings.NewMockV1(),
		mockV2: bindings.NewMockV2(),
	}
	tb.factory = tb.create(deployer, contracts.ProxyForgeArtifact.MustInitCode())
	tb.v1 = tb.create(deployer, samples.MockV1Artifact.MustInitCode())
	tb.v2 = tb.create(deployer, samples.MockV2Artifact.MustInitCode())
	return tb
}

func (tb *testbed) create(from common.Address, initCode []byte) common.Address {
	tb.t.Helper()
	r := tb.host.Transact(chain.Message{From: from, Data: initCode})
	require.True(tb.t, r.Succeeded(), "create failed: %v", r.Err)
	return r.ContractAddress
}

func (tb *testbed) send(from, to common.Address, data []byte, value uint64) *chain.Receipt {
	tb.t.Helper()
	if value > 0 {
		tb.host.Fund(from, uint256.NewInt(value))
	}
	return tb.host.Transact(chain.Message{From: from, To: &to, Data: data, Value: uint256.NewInt(value)})
}

func (tb *testbed) mustSend(from, to common.Address, data []byte, value uint64) *chain.Receipt {
	tb.t.Helper()
	r := tb.send(from, to, data, value)
	require.True(tb.t, r.Succeeded(), "transaction reverted: %s", contracts.DecodeRevert(r.RevertData()))
	return r
}

func (tb *testbed) call(from, to common.Address, data []byte) []byte {
	tb.t.Helper()
	ret, err := tb.host.Call(chain.Message{From: from, To: &to, Data: data})
	require.NoError(tb.t, err, "call reverted: %s", contracts.DecodeRevert(chain.RevertData(err)))
	return ret
}

// deploy creates a proxy through the factory and returns its address.
func (tb *testbed) deploy(caller, implementation, owner common.Address, data []byte) common.Address {
	tb.t.Helper()
	r := tb.mustSend(caller, tb.factory, tb.forge.PackDeployAndCall(implementation, owner, data), 0)
	proxy, err := tb.forge.UnpackDeployAndCall(r.ReturnData)
	require.NoError(tb.t, err)
	return proxy
}

func (tb *testbed) record(proxy common.Address) (admin, implementation, owner common.Address) {
	tb.t.Helper()
	var err error
	admin, err = tb.forge.UnpackAdminOf(tb.call(bob, tb.factory, tb.forge.PackAdminOf(proxy)))
	require.NoError(tb.t, err)
	implementation, err = tb.forge.UnpackImplementationOf(tb.call(bob, tb.factory, tb.forge.PackImplementationOf(proxy)))
	require.NoError(tb.t, err)
	owner, err = tb.forge.UnpackOwnerOf(tb.call(bob, tb.factory, tb.forge.PackOwnerOf(proxy)))
	require.NoError(tb.t, err)
	return admin, implementation, owner
}

func (tb *testbed) uintAt(proxy common.Address, sample *bindings.Sample, method string) *big.Int {
	tb.t.Helper()
	v, err := sample.UnpackUint(method, tb.call(bob, proxy, sample.Pack(method)))
	require.NoError(tb.t, err)
	return v
}

func (tb *testbed) slotAddress(account common.Address, slot common.Hash) common.Address {
	return common.BytesToAddress(tb.host.StorageAt(account, slot).Bytes())
}

func expectRevert(t *testing.T, r *chain.Receipt, contractABI abi.ABI, name string, args ...interface{}) {
	t.Helper()
	require.False(t, r.Succeeded(), "expected revert %s", name)
	want, err := bindings.PackError(contractABI, name, args...)
	require.NoError(t, err)
	require.Equal(t, want, r.RevertData(), "got %s", contracts.DecodeRevert(r.RevertData()))
}

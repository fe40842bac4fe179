// Package chain is an in-process host with EVM account semantics: nonces,
// balances, code, word storage, CALL, DELEGATECALL, STATICCALL, CREATE and
// CREATE2, event logs, revert data and journaled rollback of failed frames.
//
// Contracts are Go programs registered as artifacts. Addresses are derived
// with go-ethereum's own CREATE and CREATE2 rules.
package chain

import (
	"encoding/binary"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// Message is a transaction or read-only call. A nil To deploys Data as
// creation code.
type Message struct {
	From  common.Address
	To    *common.Address
	Value *uint256.Int
	Data  []byte
}

// Receipt is the outcome of a transaction.
type Receipt struct {
	TxHash          common.Hash
	BlockNumber     uint64
	From            common.Address
	To              *common.Address
	Nonce           uint64
	Status          uint64
	ContractAddress common.Address
	ReturnData      []byte
	Logs            []*types.Log
	Err             error
}

// Succeeded reports whether the transaction did not revert.
func (r *Receipt) Succeeded() bool {
	return r.Status == types.ReceiptStatusSuccessful
}

// RevertData returns the revert payload of a failed transaction.
func (r *Receipt) RevertData() []byte {
	return RevertData(r.Err)
}

// Host owns the world state. Transactions are applied one at a time.
type Host struct {
	mu        sync.Mutex
	state     *state
	artifacts map[common.Hash]*Artifact
	byName    map[string]*Artifact
	block     uint64
	log       *slog.Logger
}

// NewHost returns an empty host with the given artifacts registered.
func NewHost(log *slog.Logger, artifacts ...*Artifact) *Host {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	h := &Host{
		state:     newState(),
		artifacts: make(map[common.Hash]*Artifact),
		byName:    make(map[string]*Artifact),
		log:       log.With("component", "Host"),
	}
	h.Register(artifacts...)
	return h
}

// Register makes artifacts deployable.
func (h *Host) Register(artifacts ...*Artifact) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, a := range artifacts {
		h.artifacts[common.BytesToHash(a.Bytecode())] = a
		h.byName[a.Name] = a
	}
}

// Artifact looks up a registered artifact by name.
func (h *Host) Artifact(name string) (*Artifact, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	a, ok := h.byName[name]
	return a, ok
}

// Fund credits amount to addr.
func (h *Host) Fund(addr common.Address, amount *uint256.Int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.state
	s.setBalance(addr, new(uint256.Int).Add(s.account(addr).balance, amount))
	s.journal.reset()
}

// SetNonce overrides the nonce of addr.
func (h *Host) SetNonce(addr common.Address, nonce uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.setNonce(addr, nonce)
	h.state.journal.reset()
}

func (h *Host) Balance(addr common.Address) *uint256.Int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.balance(addr)
}

func (h *Host) Nonce(addr common.Address) uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.nonce(addr)
}

func (h *Host) Code(addr common.Address) []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	return common.CopyBytes(h.state.code(addr))
}

func (h *Host) StorageAt(addr common.Address, key common.Hash) common.Hash {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.getState(addr, key)
}

// ContractAt returns the runtime deployed at addr, or nil.
func (h *Host) ContractAt(addr common.Address) Contract {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state.account(addr).contract
}

// BlockNumber is the number of the last applied transaction. Every
// transaction gets its own block.
func (h *Host) BlockNumber() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.block
}

// Transact applies msg. The sender's nonce is consumed even when execution
// reverts; every other effect of a failed transaction is rolled back.
// Messages from the zero address or from an account with code are rejected
// before execution (EIP-3607).
func (h *Host) Transact(msg Message) *Receipt {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.state
	if err := h.validate(msg); err != nil {
		h.log.Debug("transaction rejected", "from", msg.From.Hex(), "error", err)
		return &Receipt{
			From:   msg.From,
			To:     msg.To,
			Nonce:  s.nonce(msg.From),
			Status: types.ReceiptStatusFailed,
			Err:    Fail(err),
		}
	}
	s.journal.reset()
	s.logs = nil
	h.block++

	value := msg.Value
	if value == nil {
		value = new(uint256.Int)
	}
	nonce := s.nonce(msg.From)
	receipt := &Receipt{
		TxHash:      txHash(msg, nonce),
		BlockNumber: h.block,
		From:        msg.From,
		To:          msg.To,
		Nonce:       nonce,
	}

	origin := h.origin(msg.From, value)
	if msg.To == nil {
		addr, err := origin.Create(msg.Data, value)
		receipt.ContractAddress = addr
		receipt.Err = err
	} else {
		if nonce+1 < nonce {
			receipt.Err = Fail(ErrNonceUintOverflow)
		} else {
			s.setNonce(msg.From, nonce+1)
			receipt.ReturnData, receipt.Err = origin.Call(*msg.To, msg.Data, value)
		}
	}

	if receipt.Err != nil {
		receipt.Status = types.ReceiptStatusFailed
		receipt.ReturnData = RevertData(receipt.Err)
	} else {
		receipt.Status = types.ReceiptStatusSuccessful
		for i, l := range s.logs {
			l.BlockNumber = h.block
			l.TxHash = receipt.TxHash
			l.Index = uint(i)
		}
		receipt.Logs = s.logs
	}
	s.logs = nil
	s.journal.reset()

	h.log.Debug("transaction",
		"from", msg.From.Hex(),
		"to", toString(msg.To),
		"nonce", nonce,
		"status", receipt.Status,
		"logs", len(receipt.Logs))
	return receipt
}

func (h *Host) validate(msg Message) error {
	if msg.From == (common.Address{}) {
		return ErrZeroSender
	}
	if len(h.state.code(msg.From)) > 0 {
		return ErrSenderNoEOA
	}
	return nil
}

// Call executes msg against the current state and discards every change.
func (h *Host) Call(msg Message) ([]byte, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.state
	snap := s.snapshot()
	defer func() {
		s.revertTo(snap)
		s.logs = nil
	}()

	value := msg.Value
	if value == nil {
		value = new(uint256.Int)
	}
	origin := h.origin(msg.From, value)
	if msg.To == nil {
		addr, err := origin.Create(msg.Data, value)
		if err != nil {
			return RevertData(err), err
		}
		return addr.Bytes(), nil
	}
	ret, err := origin.Call(*msg.To, msg.Data, value)
	if err != nil {
		return RevertData(err), err
	}
	return ret, nil
}

// origin is the pseudo-frame of an externally owned account sending a
// transaction; its children run at depth zero.
func (h *Host) origin(from common.Address, value *uint256.Int) *Env {
	return &Env{
		Caller:      from,
		Address:     from,
		CodeAddress: from,
		Value:       value,
		host:        h,
		depth:       -1,
	}
}

func (h *Host) call(env *Env, input []byte, transfer bool) ([]byte, error) {
	if env.depth > MaxCallDepth {
		return nil, Fail(ErrDepth)
	}
	s := h.state
	if transfer && !s.canTransfer(env.Caller, env.Value) {
		return nil, Fail(ErrInsufficientBalance)
	}

	snap := s.snapshot()
	if transfer {
		s.transfer(env.Caller, env.Address, env.Value)
	}

	contract := s.account(env.CodeAddress).contract
	if contract == nil {
		return nil, nil
	}

	ret, err := contract.Run(env, input)
	if err == nil && env.fault != nil {
		err = Fail(env.fault)
	}
	if err != nil {
		s.revertTo(snap)
		r := asRevert(err)
		h.log.Debug("frame reverted", "address", env.Address.Hex(), "code", env.CodeAddress.Hex(), "depth", env.depth, "error", r)
		return nil, r
	}
	return ret, nil
}

func (h *Host) create(parent *Env, initCode []byte, value *uint256.Int, addr common.Address) (common.Address, error) {
	if value == nil {
		value = new(uint256.Int)
	}
	depth := parent.depth + 1
	if depth > MaxCallDepth {
		return common.Address{}, Fail(ErrDepth)
	}
	if parent.static {
		return common.Address{}, Fail(ErrWriteProtection)
	}
	s := h.state
	if !s.canTransfer(parent.Address, value) {
		return common.Address{}, Fail(ErrInsufficientBalance)
	}
	nonce := s.nonce(parent.Address)
	if nonce+1 < nonce {
		return common.Address{}, Fail(ErrNonceUintOverflow)
	}
	s.setNonce(parent.Address, nonce+1)

	if target := s.account(addr); target.nonce != 0 || len(target.code) != 0 || len(target.storage) != 0 {
		return common.Address{}, Fail(ErrContractAddressCollision)
	}

	snap := s.snapshot()
	s.createAccount(addr)
	s.setNonce(addr, 1)
	s.transfer(parent.Address, addr, value)

	fail := func(err error) (common.Address, error) {
		s.revertTo(snap)
		r := asRevert(err)
		h.log.Debug("create reverted", "address", addr.Hex(), "depth", depth, "error", r)
		return common.Address{}, r
	}

	if len(initCode) < common.HashLength {
		return fail(ErrUnknownCode)
	}
	artifact, ok := h.artifacts[common.BytesToHash(initCode[:common.HashLength])]
	if !ok {
		return fail(ErrUnknownCode)
	}
	args, err := artifact.decodeArgs(initCode)
	if err != nil {
		return fail(err)
	}

	env := &Env{
		Caller:      parent.Address,
		Address:     addr,
		CodeAddress: addr,
		Value:       value,
		host:        h,
		depth:       depth,
	}
	contract, err := artifact.Construct(env, args)
	if err == nil && env.fault != nil {
		err = env.fault
	}
	if err != nil {
		return fail(err)
	}
	s.setCode(addr, artifact.DeployedBytecode(), contract)
	return addr, nil
}

func txHash(msg Message, nonce uint64) common.Hash {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	to := []byte{}
	if msg.To != nil {
		to = msg.To.Bytes()
	}
	return crypto.Keccak256Hash(msg.From.Bytes(), n[:], to, msg.Data)
}

func toString(addr *common.Address) string {
	if addr == nil {
		return "<create>"
	}
	return addr.Hex()
}

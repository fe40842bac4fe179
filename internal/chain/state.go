package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

type account struct {
	nonce    uint64
	balance  *uint256.Int
	code     []byte
	contract Contract
	storage  map[common.Hash]common.Hash
}

func newAccount() *account {
	return &account{
		balance: new(uint256.Int),
		storage: make(map[common.Hash]common.Hash),
	}
}

// empty follows EIP-161: no nonce, no balance, no code.
func (a *account) empty() bool {
	return a.nonce == 0 && a.balance.IsZero() && len(a.code) == 0
}

// state is the world state of the host. Every mutation goes through the
// journal so failed frames can be rolled back.
type state struct {
	accounts map[common.Address]*account
	logs     []*types.Log
	journal  journal
}

func newState() *state {
	return &state{accounts: make(map[common.Address]*account)}
}

// account returns the account at addr, creating it outside the journal.
// Reads of untouched accounts go through here, so the created entry is
// indistinguishable from a missing one.
func (s *state) account(addr common.Address) *account {
	acc, ok := s.accounts[addr]
	if !ok {
		acc = newAccount()
		s.accounts[addr] = acc
	}
	return acc
}

func (s *state) exists(addr common.Address) bool {
	acc, ok := s.accounts[addr]
	return ok && !acc.empty()
}

func (s *state) snapshot() int {
	return s.journal.snapshot()
}

func (s *state) revertTo(snapshot int) {
	s.journal.revertTo(s, snapshot)
}

func (s *state) createAccount(addr common.Address) {
	prev, ok := s.accounts[addr]
	if ok {
		// Keep any balance sent to the address before it was deployed to.
		acc := newAccount()
		acc.balance = prev.balance
		s.journal.append(restoreAccount{addr: addr, prev: prev})
		s.accounts[addr] = acc
		return
	}
	s.journal.append(createAccountChange{addr: addr})
	s.accounts[addr] = newAccount()
}

func (s *state) nonce(addr common.Address) uint64 {
	return s.account(addr).nonce
}

func (s *state) setNonce(addr common.Address, nonce uint64) {
	acc := s.account(addr)
	s.journal.append(nonceChange{addr: addr, prev: acc.nonce})
	acc.nonce = nonce
}

func (s *state) balance(addr common.Address) *uint256.Int {
	return new(uint256.Int).Set(s.account(addr).balance)
}

func (s *state) setBalance(addr common.Address, amount *uint256.Int) {
	acc := s.account(addr)
	s.journal.append(balanceChange{addr: addr, prev: acc.balance})
	acc.balance = new(uint256.Int).Set(amount)
}

// transfer moves value between accounts. The caller checks the balance.
func (s *state) transfer(from, to common.Address, value *uint256.Int) {
	if value.IsZero() || from == to {
		return
	}
	s.setBalance(from, new(uint256.Int).Sub(s.account(from).balance, value))
	s.setBalance(to, new(uint256.Int).Add(s.account(to).balance, value))
}

func (s *state) canTransfer(from common.Address, value *uint256.Int) bool {
	return s.account(from).balance.Cmp(value) >= 0
}

func (s *state) getState(addr common.Address, key common.Hash) common.Hash {
	return s.account(addr).storage[key]
}

func (s *state) setState(addr common.Address, key, value common.Hash) {
	acc := s.account(addr)
	prev := acc.storage[key]
	if prev == value {
		return
	}
	s.journal.append(storageChange{addr: addr, key: key, prev: prev})
	if value == (common.Hash{}) {
		delete(acc.storage, key)
		return
	}
	acc.storage[key] = value
}

func (s *state) code(addr common.Address) []byte {
	return s.account(addr).code
}

func (s *state) setCode(addr common.Address, code []byte, contract Contract) {
	acc := s.account(addr)
	s.journal.append(codeChange{addr: addr, prevCode: acc.code, prevContract: acc.contract})
	acc.code = code
	acc.contract = contract
}

func (s *state) addLog(l *types.Log) {
	s.journal.append(logChange{prevLen: len(s.logs)})
	s.logs = append(s.logs, l)
}

type restoreAccount struct {
	addr common.Address
	prev *account
}

func (c restoreAccount) revert(s *state) {
	s.accounts[c.addr] = c.prev
}

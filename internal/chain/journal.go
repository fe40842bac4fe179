package chain

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// journalEntry is a state modification that can be undone.
type journalEntry interface {
	revert(s *state)
}

// journal records modifications so a failed frame can roll back to a snapshot.
type journal struct {
	entries []journalEntry
}

func (j *journal) append(e journalEntry) {
	j.entries = append(j.entries, e)
}

func (j *journal) snapshot() int {
	return len(j.entries)
}

// revertTo undoes every entry after snapshot, newest first.
func (j *journal) revertTo(s *state, snapshot int) {
	for i := len(j.entries) - 1; i >= snapshot; i-- {
		j.entries[i].revert(s)
	}
	j.entries = j.entries[:snapshot]
}

func (j *journal) reset() {
	j.entries = j.entries[:0]
}

type (
	createAccountChange struct {
		addr common.Address
	}
	nonceChange struct {
		addr common.Address
		prev uint64
	}
	balanceChange struct {
		addr common.Address
		prev *uint256.Int
	}
	storageChange struct {
		addr common.Address
		key  common.Hash
		prev common.Hash
	}
	codeChange struct {
		addr         common.Address
		prevCode     []byte
		prevContract Contract
	}
	logChange struct {
		prevLen int
	}
)

func (c createAccountChange) revert(s *state) {
	delete(s.accounts, c.addr)
}

func (c nonceChange) revert(s *state) {
	s.account(c.addr).nonce = c.prev
}

func (c balanceChange) revert(s *state) {
	s.account(c.addr).balance = c.prev
}

func (c storageChange) revert(s *state) {
	acc := s.account(c.addr)
	if c.prev == (common.Hash{}) {
		delete(acc.storage, c.key)
		return
	}
	acc.storage[c.key] = c.prev
}

func (c codeChange) revert(s *state) {
	acc := s.account(c.addr)
	acc.code = c.prevCode
	acc.contract = c.prevContract
}

func (c logChange) revert(s *state) {
	s.logs = s.logs[:c.prevLen]
}

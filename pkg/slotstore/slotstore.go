// Package slotstore keeps per-subject attributes in hashed 32-byte storage
// slots, without any map bookkeeping in the storage itself.
package slotstore

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Seed identifies one attribute tracked per subject.
type Seed uint32

// Storage is word-addressed contract storage.
type Storage interface {
	GetState(key common.Hash) common.Hash
	SetState(key common.Hash, value common.Hash)
}

// SlotFor returns keccak256(subject ‖ 0x00*8 ‖ seed), with seed big-endian
// in the last four bytes of the 32-byte word.
func SlotFor(subject common.Address, seed Seed) common.Hash {
	var word [32]byte
	copy(word[:common.AddressLength], subject.Bytes())
	binary.BigEndian.PutUint32(word[28:], uint32(seed))
	return crypto.Keccak256Hash(word[:])
}

// Store reads and writes attributes through a Storage backend.
type Store struct {
	storage Storage
}

// New wraps storage.
func New(storage Storage) *Store {
	return &Store{storage: storage}
}

func (s *Store) Get(subject common.Address, seed Seed) common.Hash {
	return s.storage.GetState(SlotFor(subject, seed))
}

func (s *Store) Set(subject common.Address, seed Seed, value common.Hash) {
	s.storage.SetState(SlotFor(subject, seed), value)
}

// GetAddress loads the slot and masks it to the low 160 bits.
func (s *Store) GetAddress(subject common.Address, seed Seed) common.Address {
	return common.BytesToAddress(s.Get(subject, seed).Bytes())
}

// SetAddress stores value right-aligned in the slot.
func (s *Store) SetAddress(subject common.Address, seed Seed, value common.Address) {
	s.Set(subject, seed, common.BytesToHash(value.Bytes()))
}

// MapStorage is an in-memory Storage. Zero values are not retained.
type MapStorage map[common.Hash]common.Hash

func (m MapStorage) GetState(key common.Hash) common.Hash {
	return m[key]
}

func (m MapStorage) SetState(key common.Hash, value common.Hash) {
	if value == (common.Hash{}) {
		delete(m, key)
		return
	}
	m[key] = value
}

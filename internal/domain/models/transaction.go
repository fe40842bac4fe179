package models

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// TxResult is the outcome of one transaction against the proxy system.
type TxResult struct {
	TxHash      common.Hash     `json:"txHash"`
	BlockNumber uint64          `json:"blockNumber"`
	From        common.Address  `json:"from"`
	To          *common.Address `json:"to,omitempty"`
	Nonce       uint64          `json:"nonce"`
	Success     bool            `json:"success"`

	// ContractAddress is set for creations and for factory deploys, where it
	// is the new proxy.
	ContractAddress common.Address `json:"contractAddress,omitempty"`
	ReturnData      hexutil.Bytes  `json:"returnData,omitempty"`
	Events          []Event        `json:"events"`
	Revert          *Revert        `json:"revert,omitempty"`
}

// Event is a decoded log.
type Event struct {
	Address  common.Address `json:"address"`
	Contract string         `json:"contract,omitempty"`
	Name     string         `json:"name"`
	Args     []EventArg     `json:"args,omitempty"`
	Topics   []common.Hash  `json:"topics"`
	Data     hexutil.Bytes  `json:"data,omitempty"`
}

type EventArg struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Revert is decoded revert data. Name is empty for unknown or empty data.
type Revert struct {
	Name    string        `json:"name,omitempty"`
	Args    []string      `json:"args,omitempty"`
	Data    hexutil.Bytes `json:"data"`
	Message string        `json:"message"`
}

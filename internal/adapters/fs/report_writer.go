package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/internal/usecase"
)

// ReportWriterAdapter writes scenario results as indented JSON
type ReportWriterAdapter struct{}

// NewReportWriterAdapter creates a new report writer adapter
func NewReportWriterAdapter() *ReportWriterAdapter {
	return &ReportWriterAdapter{}
}

// WriteReport writes result to path, creating parent directories
func (w *ReportWriterAdapter) WriteReport(ctx context.Context, path string, result *domain.ScenarioResult) error {
	data, err := MarshalReport(result)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil { //nolint:gosec // user-supplied report path
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// MarshalReport renders a result with checksummed addresses and hex bytes
func MarshalReport(result *domain.ScenarioResult) ([]byte, error) {
	data, err := json.MarshalIndent(newReport(result), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	return append(data, '\n'), nil
}

type report struct {
	Name     string                 `json:"name"`
	Passed   bool                   `json:"passed"`
	Factory  string                 `json:"factory"`
	Accounts map[string]string      `json:"accounts"`
	Steps    []stepReport           `json:"steps"`
	Proxies  map[string]proxyReport `json:"proxies"`
}

type stepReport struct {
	Index    int       `json:"index"`
	Name     string    `json:"name"`
	Action   string    `json:"action"`
	Passed   bool      `json:"passed"`
	Failure  string    `json:"failure,omitempty"`
	Tx       *txReport `json:"tx,omitempty"`
	Returned []string  `json:"returned,omitempty"`
}

type txReport struct {
	Hash            string        `json:"hash"`
	Block           uint64        `json:"block"`
	From            string        `json:"from"`
	To              string        `json:"to,omitempty"`
	Nonce           uint64        `json:"nonce"`
	Success         bool          `json:"success"`
	ContractAddress string        `json:"contractAddress,omitempty"`
	ReturnData      hexutil.Bytes `json:"returnData,omitempty"`
	Events          []eventReport `json:"events"`
	Revert          *revertReport `json:"revert,omitempty"`
}

type eventReport struct {
	Address  string            `json:"address"`
	Contract string            `json:"contract,omitempty"`
	Name     string            `json:"name,omitempty"`
	Args     []models.EventArg `json:"args,omitempty"`
	Topics   []string          `json:"topics,omitempty"`
	Data     hexutil.Bytes     `json:"data,omitempty"`
}

type revertReport struct {
	Name    string        `json:"name,omitempty"`
	Args    []string      `json:"args,omitempty"`
	Message string        `json:"message"`
	Data    hexutil.Bytes `json:"data"`
}

type proxyReport struct {
	Proxy              string   `json:"proxy"`
	Admin              string   `json:"admin"`
	Implementation     string   `json:"implementation"`
	Owner              string   `json:"owner"`
	SlotImplementation string   `json:"slotImplementation"`
	SlotAdmin          string   `json:"slotAdmin"`
	AdminOwner         string   `json:"adminOwner"`
	Consistent         bool     `json:"consistent"`
	Mismatches         []string `json:"mismatches,omitempty"`
}

func newReport(result *domain.ScenarioResult) report {
	r := report{
		Name:     result.Name,
		Passed:   result.Passed,
		Factory:  result.Factory,
		Accounts: result.Accounts,
		Steps:    make([]stepReport, 0, len(result.Steps)),
		Proxies:  make(map[string]proxyReport, len(result.Proxies)),
	}
	for _, step := range result.Steps {
		r.Steps = append(r.Steps, stepReport{
			Index:    step.Index,
			Name:     step.Name,
			Action:   string(step.Action),
			Passed:   step.Passed,
			Failure:  step.Failure,
			Tx:       newTxReport(step.Tx),
			Returned: step.Returned,
		})
	}
	for name, record := range result.Proxies {
		r.Proxies[name] = proxyReport{
			Proxy:              record.Proxy.Hex(),
			Admin:              record.Admin.Hex(),
			Implementation:     record.Implementation.Hex(),
			Owner:              record.Owner.Hex(),
			SlotImplementation: record.SlotImplementation.Hex(),
			SlotAdmin:          record.SlotAdmin.Hex(),
			AdminOwner:         record.AdminOwner.Hex(),
			Consistent:         record.Consistent(),
			Mismatches:         record.Mismatches(),
		}
	}
	return r
}

func newTxReport(tx *models.TxResult) *txReport {
	if tx == nil {
		return nil
	}
	out := &txReport{
		Hash:       tx.TxHash.Hex(),
		Block:      tx.BlockNumber,
		From:       tx.From.Hex(),
		Nonce:      tx.Nonce,
		Success:    tx.Success,
		ReturnData: tx.ReturnData,
		Events:     make([]eventReport, 0, len(tx.Events)),
	}
	if tx.To != nil {
		out.To = tx.To.Hex()
	}
	if tx.ContractAddress != (common.Address{}) {
		out.ContractAddress = tx.ContractAddress.Hex()
	}
	for _, e := range tx.Events {
		ev := eventReport{Address: e.Address.Hex(), Contract: e.Contract, Name: e.Name, Args: e.Args}
		if e.Name == "" {
			for _, topic := range e.Topics {
				ev.Topics = append(ev.Topics, topic.Hex())
			}
			ev.Data = e.Data
		}
		out.Events = append(out.Events, ev)
	}
	if tx.Revert != nil {
		out.Revert = &revertReport{
			Name:    tx.Revert.Name,
			Args:    tx.Revert.Args,
			Message: tx.Revert.Message,
			Data:    tx.Revert.Data,
		}
	}
	return out
}

var _ usecase.ReportWriter = (*ReportWriterAdapter)(nil)

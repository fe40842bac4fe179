package domain

import (
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
)

// StepAction is what a scenario step does.
type StepAction string

const (
	ActionDeploy      StepAction = "deploy"
	ActionUpgrade     StepAction = "upgrade"
	ActionChangeOwner StepAction = "change_owner"
	ActionCall        StepAction = "call"
)

// ExpectEmptyRevert as expect_revert matches a revert without data.
const ExpectEmptyRevert = "empty"

// Scenario is an ordered script of factory interactions read from YAML.
//
// References in from, owner, proxy, to and address arguments are names of
// accounts, implementations or saved proxies, "factory", or hex addresses.
type Scenario struct {
	Name            string                     `yaml:"name"`
	Accounts        map[string]ScenarioAccount `yaml:"accounts"`
	Implementations map[string]string          `yaml:"implementations"`
	Steps           []ScenarioStep             `yaml:"steps"`
}

// ScenarioAccount funds a named account. Key, when set, is a hex private
// key the address is derived from.
type ScenarioAccount struct {
	Balance string `yaml:"balance"`
	Key     string `yaml:"key"`
}

// ScenarioStep is one transaction or read.
type ScenarioStep struct {
	Name   string     `yaml:"name"`
	Action StepAction `yaml:"action"`
	From   string     `yaml:"from"`
	Value  string     `yaml:"value"`

	Implementation string `yaml:"implementation"`
	Owner          string `yaml:"owner"`
	// Salt is a 32-byte hex word or "<reference>:<n>", which puts the
	// reference's address in the upper 20 bytes and n below it.
	Salt  string `yaml:"salt"`
	Proxy string `yaml:"proxy"`
	To    string `yaml:"to"`

	Call *CallSpec `yaml:"call"`
	Save string    `yaml:"save"`

	ExpectRevert string   `yaml:"expect_revert"`
	Returns      []string `yaml:"returns"`
	Expect       []string `yaml:"expect"`
}

// CallSpec is calldata written as a signature and string arguments.
type CallSpec struct {
	Signature string   `yaml:"signature"`
	Args      []string `yaml:"args"`
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Index    int              `json:"index"`
	Name     string           `json:"name"`
	Action   StepAction       `json:"action"`
	Tx       *models.TxResult `json:"tx,omitempty"`
	Returned []string         `json:"returned,omitempty"`
	Passed   bool             `json:"passed"`
	Failure  string           `json:"failure,omitempty"`
}

// ScenarioResult is the outcome of a scenario run.
type ScenarioResult struct {
	Name     string                        `json:"name"`
	Factory  string                        `json:"factory"`
	Accounts map[string]string             `json:"accounts"`
	Steps    []*StepResult                 `json:"steps"`
	Proxies  map[string]*models.ProxyRecord `json:"proxies"`
	Passed   bool                          `json:"passed"`
}

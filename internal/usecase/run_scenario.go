package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/proxyforge/internal/domain"
	"github.com/trebuchet-org/proxyforge/internal/domain/models"
	"github.com/trebuchet-org/proxyforge/pkg/address"
)

// RunScenarioParams contains parameters for running a scenario file
type RunScenarioParams struct {
	// Path, when empty, is chosen from the project's scenarios
	Path string
	// ReportPath, when set, receives the result as JSON
	ReportPath string
}

// RunScenario executes a scenario against a proxy backend and checks its
// expectations
type RunScenario struct {
	backend  ProxyBackend
	loader   ScenarioLoader
	selector ScenarioSelector
	codec    CallCodec
	reports  ReportWriter
	sink     ProgressSink
	log      *slog.Logger
}

// NewRunScenario creates a new RunScenario use case
func NewRunScenario(
	backend ProxyBackend,
	loader ScenarioLoader,
	selector ScenarioSelector,
	codec CallCodec,
	reports ReportWriter,
	sink ProgressSink,
	log *slog.Logger,
) *RunScenario {
	return &RunScenario{
		backend:  backend,
		loader:   loader,
		selector: selector,
		codec:    codec,
		reports:  reports,
		sink:     sink,
		log:      log.With("component", "RunScenario"),
	}
}

// Run executes the scenario. The result is returned even when expectations
// fail; the error is then an *domain.ExpectationError.
func (uc *RunScenario) Run(ctx context.Context, params RunScenarioParams) (*domain.ScenarioResult, error) {
	path, err := uc.resolvePath(ctx, params.Path)
	if err != nil {
		return nil, err
	}
	scenario, err := uc.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}

	run := &scenarioRun{
		uc:       uc,
		scenario: scenario,
		refs: map[string]common.Address{
			"factory":  uc.backend.Factory(),
			"deployer": uc.backend.Deployer(),
		},
		result: &domain.ScenarioResult{
			Name:     scenario.Name,
			Factory:  uc.backend.Factory().Hex(),
			Accounts: map[string]string{},
			Proxies:  map[string]*models.ProxyRecord{},
		},
	}

	if err := run.setup(ctx); err != nil {
		return nil, err
	}
	for i := range scenario.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := run.step(ctx, i); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, stepName(i, scenario.Steps[i]), err)
		}
	}
	if err := run.checkProxies(ctx); err != nil {
		return nil, err
	}

	run.result.Passed = len(run.failures) == 0
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "complete",
		Current: len(scenario.Steps),
		Total:   len(scenario.Steps),
		Message: "Scenario finished",
	})

	if params.ReportPath != "" {
		if err := uc.reports.WriteReport(ctx, params.ReportPath, run.result); err != nil {
			return run.result, fmt.Errorf("failed to write report: %w", err)
		}
	}

	if !run.result.Passed {
		return run.result, &domain.ExpectationError{Scenario: scenario.Name, Failures: run.failures}
	}
	return run.result, nil
}

// resolvePath picks a project scenario when no path was given
func (uc *RunScenario) resolvePath(ctx context.Context, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	paths, err := uc.loader.List(ctx)
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("no scenario given and none found in the project: %w", domain.ErrNotFound)
	}
	return uc.selector.SelectScenario(ctx, paths)
}

// scenarioRun is the state of one scenario execution
type scenarioRun struct {
	uc       *RunScenario
	scenario *domain.Scenario
	refs     map[string]common.Address
	proxies  []string
	result   *domain.ScenarioResult
	failures []string
}

func (r *scenarioRun) setup(ctx context.Context) error {
	names := lo.Keys(r.scenario.Accounts)
	sort.Strings(names)
	for _, name := range names {
		account := r.scenario.Accounts[name]
		balance, err := parseWei(account.Balance)
		if err != nil {
			return fmt.Errorf("account %s: %w", name, err)
		}
		source := name
		if account.Key != "" {
			source = account.Key
		}
		addr, err := r.uc.backend.CreateAccount(ctx, source, balance)
		if err != nil {
			return fmt.Errorf("account %s: %w", name, err)
		}
		r.refs[name] = addr
		r.result.Accounts[name] = addr.Hex()
	}

	labels := lo.Keys(r.scenario.Implementations)
	sort.Strings(labels)
	for _, label := range labels {
		addr, err := r.uc.backend.DeployImplementation(ctx, r.scenario.Implementations[label])
		if err != nil {
			return fmt.Errorf("implementation %s: %w", label, err)
		}
		r.refs[label] = addr
		r.uc.log.Debug("Deployed implementation", "label", label, "address", addr)
	}
	return nil
}

func (r *scenarioRun) step(ctx context.Context, i int) error {
	step := r.scenario.Steps[i]
	name := stepName(i, step)
	r.uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "step",
		Current: i + 1,
		Total:   len(r.scenario.Steps),
		Message: name,
		Spinner: true,
	})

	from, err := r.resolveOr(step.From, "deployer")
	if err != nil {
		return err
	}
	value, err := parseWei(step.Value)
	if err != nil {
		return err
	}
	data, err := r.calldata(step.Call)
	if err != nil {
		return err
	}

	var tx *models.TxResult
	switch step.Action {
	case domain.ActionDeploy:
		tx, err = r.deploy(ctx, step, from, data, value)
	case domain.ActionUpgrade:
		tx, err = r.upgrade(ctx, step, from, data, value)
	case domain.ActionChangeOwner:
		tx, err = r.changeOwner(ctx, step, from)
	case domain.ActionCall:
		tx, err = r.call(ctx, step, from, data, value)
	default:
		return fmt.Errorf("unknown action %q", step.Action)
	}
	if err != nil {
		return err
	}

	res := &domain.StepResult{Index: i + 1, Name: name, Action: step.Action, Tx: tx, Passed: true}
	r.result.Steps = append(r.result.Steps, res)

	if failure := checkRevert(step, tx); failure != "" {
		r.fail(res, failure)
	}
	if !tx.Success {
		return nil
	}

	if step.Action == domain.ActionDeploy && step.Save != "" {
		r.refs[step.Save] = tx.ContractAddress
		r.proxies = append(r.proxies, step.Save)
	}
	if len(step.Returns) > 0 && res.Passed {
		if failure := r.checkReturns(step, res); failure != "" {
			r.fail(res, failure)
		}
	}
	return nil
}

func (r *scenarioRun) fail(res *domain.StepResult, failure string) {
	res.Passed = false
	res.Failure = failure
	r.failures = append(r.failures, fmt.Sprintf("step %d (%s): %s", res.Index, res.Name, failure))
}

func (r *scenarioRun) deploy(ctx context.Context, step domain.ScenarioStep, from common.Address, data []byte, value *big.Int) (*models.TxResult, error) {
	implementation, err := r.resolve(step.Implementation)
	if err != nil {
		return nil, err
	}
	owner, err := r.resolveOr(step.Owner, step.From)
	if err != nil {
		return nil, err
	}

	req := DeployRequest{
		From:           from,
		Implementation: implementation,
		Owner:          owner,
		Data:           data,
		Value:          value,
	}
	if step.Salt != "" {
		salt, err := r.salt(step.Salt)
		if err != nil {
			return nil, err
		}
		req.Salt = &salt
	}
	return r.uc.backend.Deploy(ctx, req)
}

func (r *scenarioRun) upgrade(ctx context.Context, step domain.ScenarioStep, from common.Address, data []byte, value *big.Int) (*models.TxResult, error) {
	proxy, err := r.resolve(step.Proxy)
	if err != nil {
		return nil, err
	}
	implementation, err := r.resolve(step.Implementation)
	if err != nil {
		return nil, err
	}
	return r.uc.backend.Upgrade(ctx, UpgradeRequest{
		From:           from,
		Proxy:          proxy,
		Implementation: implementation,
		Data:           data,
		Value:          value,
	})
}

func (r *scenarioRun) changeOwner(ctx context.Context, step domain.ScenarioStep, from common.Address) (*models.TxResult, error) {
	proxy, err := r.resolve(step.Proxy)
	if err != nil {
		return nil, err
	}
	owner, err := r.resolve(step.Owner)
	if err != nil {
		return nil, err
	}
	return r.uc.backend.ChangeOwner(ctx, ChangeOwnerRequest{From: from, Proxy: proxy, NewOwner: owner})
}

func (r *scenarioRun) call(ctx context.Context, step domain.ScenarioStep, from common.Address, data []byte, value *big.Int) (*models.TxResult, error) {
	if step.Call == nil {
		return nil, fmt.Errorf("call step needs a call")
	}
	to, err := r.resolveOr(step.To, step.Proxy)
	if err != nil {
		return nil, err
	}
	return r.uc.backend.Transact(ctx, from, to, data, value)
}

func (r *scenarioRun) calldata(call *domain.CallSpec) ([]byte, error) {
	if call == nil {
		return nil, nil
	}
	return r.uc.codec.EncodeCall(call.Signature, call.Args, r.resolve)
}

func (r *scenarioRun) checkReturns(step domain.ScenarioStep, res *domain.StepResult) string {
	returned, err := r.uc.codec.DecodeReturns(step.Returns, res.Tx.ReturnData)
	if err != nil {
		return err.Error()
	}
	res.Returned = returned
	if len(step.Expect) == 0 {
		return ""
	}
	if len(step.Expect) != len(returned) {
		return fmt.Sprintf("expected %d return value(s), got %d", len(step.Expect), len(returned))
	}
	for i, raw := range step.Expect {
		want, err := r.uc.codec.NormalizeValue(step.Returns[i], raw, r.resolve)
		if err != nil {
			return fmt.Sprintf("expect[%d]: %v", i, err)
		}
		if want != returned[i] {
			return fmt.Sprintf("return value %d: got %s, want %s", i, returned[i], want)
		}
	}
	return ""
}

// checkProxies compares the factory records of every saved proxy with the
// proxy's own slots
func (r *scenarioRun) checkProxies(ctx context.Context) error {
	for _, name := range r.proxies {
		record, err := r.uc.backend.Record(ctx, r.refs[name])
		if err != nil {
			return fmt.Errorf("proxy %s: %w", name, err)
		}
		r.result.Proxies[name] = record
		for _, mismatch := range record.Mismatches() {
			r.failures = append(r.failures, fmt.Sprintf("proxy %s: %s: %s", name, domain.ErrRecordMismatch, mismatch))
		}
	}
	return nil
}

func (r *scenarioRun) resolve(ref string) (common.Address, error) {
	ref = strings.TrimSpace(ref)
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	if addr, ok := r.refs[ref]; ok {
		return addr, nil
	}
	return common.Address{}, fmt.Errorf("%w: %q", domain.ErrUnknownAccount, ref)
}

func (r *scenarioRun) resolveOr(ref, fallback string) (common.Address, error) {
	if ref == "" {
		ref = fallback
	}
	if ref == "" {
		ref = "deployer"
	}
	return r.resolve(ref)
}

// salt parses a 32-byte hex word or "<reference>:<n>"
func (r *scenarioRun) salt(raw string) (common.Hash, error) {
	if ref, suffix, ok := strings.Cut(raw, ":"); ok {
		prefix, err := r.resolve(ref)
		if err != nil {
			return common.Hash{}, err
		}
		n, ok := new(big.Int).SetString(suffix, 0)
		if !ok {
			return common.Hash{}, fmt.Errorf("invalid salt suffix %q", suffix)
		}
		salt, err := address.ComposeSalt(prefix, n)
		if err != nil {
			return common.Hash{}, fmt.Errorf("salt %q: %w", raw, err)
		}
		return salt, nil
	}

	b, err := hexutil.Decode(raw)
	if err != nil || len(b) > common.HashLength {
		return common.Hash{}, fmt.Errorf("invalid salt %q", raw)
	}
	return common.BytesToHash(b), nil
}

func checkRevert(step domain.ScenarioStep, tx *models.TxResult) string {
	if step.ExpectRevert == "" {
		if !tx.Success {
			return "unexpected revert: " + revertMessage(tx)
		}
		return ""
	}
	if tx.Success {
		return fmt.Sprintf("expected revert %s, but the transaction succeeded", step.ExpectRevert)
	}
	if step.ExpectRevert == domain.ExpectEmptyRevert {
		if tx.Revert != nil && len(tx.Revert.Data) > 0 {
			return "expected a revert without data, got " + revertMessage(tx)
		}
		return ""
	}
	if tx.Revert == nil || (tx.Revert.Name != step.ExpectRevert && tx.Revert.Message != step.ExpectRevert) {
		return fmt.Sprintf("expected revert %s, got %s", step.ExpectRevert, revertMessage(tx))
	}
	return ""
}

func revertMessage(tx *models.TxResult) string {
	if tx.Revert == nil {
		return "reverted"
	}
	return tx.Revert.Message
}

func stepName(i int, step domain.ScenarioStep) string {
	if step.Name != "" {
		return step.Name
	}
	return fmt.Sprintf("%s #%d", step.Action, i+1)
}

// parseWei parses a decimal or 0x-prefixed amount; empty is zero
func parseWei(raw string) (*big.Int, error) {
	if raw == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(strings.TrimSpace(raw), 0)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	return v, nil
}

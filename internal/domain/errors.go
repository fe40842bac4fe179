package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrUnknownArtifact is returned when no registered artifact has the requested name
	ErrUnknownArtifact = errors.New("unknown artifact")

	// ErrUnknownAccount is returned when a name does not resolve to an account or contract
	ErrUnknownAccount = errors.New("unknown account")

	// ErrNotAProxy is returned when the inspected address has no proxy code or slots
	ErrNotAProxy = errors.New("not a proxy")

	// ErrRecordMismatch is returned when factory records disagree with the proxy's slots
	ErrRecordMismatch = errors.New("record mismatch")

	// ErrScenarioFailed is returned when at least one scenario expectation did not hold
	ErrScenarioFailed = errors.New("scenario failed")
)

// RevertError is a transaction that reverted where success was required.
type RevertError struct {
	// Reason is the decoded revert, e.g. UnauthorizedAccount(0x...).
	Reason string
	Data   []byte
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

// ExpectationError collects the expectations of a scenario that did not hold.
type ExpectationError struct {
	Scenario string
	Failures []string
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("scenario %q: %d expectation(s) failed:\n  - %s",
		e.Scenario, len(e.Failures), strings.Join(e.Failures, "\n  - "))
}

func (e *ExpectationError) Unwrap() error {
	return ErrScenarioFailed
}

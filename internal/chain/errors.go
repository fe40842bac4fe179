package chain

import (
	"encoding/hex"
	"errors"
	"fmt"
)

// Frame-level failures. They abort a frame without revert data, the way the
// EVM reports them to the caller.
var (
	ErrDepth                    = errors.New("max call depth exceeded")
	ErrInsufficientBalance      = errors.New("insufficient balance for transfer")
	ErrContractAddressCollision = errors.New("contract address collision")
	ErrNonceUintOverflow        = errors.New("nonce uint64 overflow")
	ErrUnknownCode              = errors.New("init code does not match a registered artifact")
	ErrInvalidConstructorArgs   = errors.New("invalid constructor arguments")
	ErrWriteProtection          = errors.New("write protection")
)

// Transaction validity failures. A transaction rejected with one of these
// never executes and leaves state, nonces and the block number untouched.
var (
	ErrZeroSender  = errors.New("sender is the zero address")
	ErrSenderNoEOA = errors.New("sender not an eoa")
)

// Revert is a failed frame. Data holds the exact bytes handed back to the
// caller, which may be empty.
type Revert struct {
	Data  []byte
	cause error
}

// NewRevert fails a frame with the given return data.
func NewRevert(data []byte) *Revert {
	return &Revert{Data: data}
}

// Fail fails a frame with no return data.
func Fail(cause error) *Revert {
	return &Revert{cause: cause}
}

func (r *Revert) Error() string {
	switch {
	case r.cause != nil:
		return r.cause.Error()
	case len(r.Data) == 0:
		return "execution reverted"
	default:
		return fmt.Sprintf("execution reverted: 0x%s", hex.EncodeToString(r.Data))
	}
}

func (r *Revert) Unwrap() error {
	return r.cause
}

// RevertData returns the revert payload carried by err, if any.
func RevertData(err error) []byte {
	var r *Revert
	if errors.As(err, &r) {
		return r.Data
	}
	return nil
}

// asRevert normalizes anything returned from a contract into a *Revert.
func asRevert(err error) *Revert {
	var r *Revert
	if errors.As(err, &r) {
		return r
	}
	return Fail(err)
}

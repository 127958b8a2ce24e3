package secret

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nspcc-dev/secret-contract/contracts/secret/secretconst"
	"github.com/nspcc-dev/secret-contract/store"
)

// Errors of the contract methods. They are the same as the ones of the
// off-chain store, so callers may handle both the same way.
var (
	ErrUnauthorized       = store.ErrUnauthorized
	ErrNotSet             = store.ErrNotSet
	ErrAlreadyInitialized = store.ErrAlreadyInitialized
)

// ErrFault is returned for contract exceptions ClassifyFault does not
// recognize.
var ErrFault = errors.New("contract invocation failed")

var knownExceptions = []struct {
	msg string
	err error
}{
	{secretconst.ErrUnauthorized, ErrUnauthorized},
	{secretconst.ErrNotSet, ErrNotSet},
	{secretconst.ErrAlreadyInitialized, ErrAlreadyInitialized},
}

// ClassifyFault converts FAULT exception of the Secret contract into one of
// the package errors. Unknown exceptions are wrapped into ErrFault.
func ClassifyFault(exception string) error {
	for _, e := range knownExceptions {
		if strings.Contains(exception, e.msg) {
			return e.err
		}
	}

	return fmt.Errorf("%w: %s", ErrFault, exception)
}

// classifyError recognizes contract exceptions in errors of actor calls, which
// test-run the script before signing it. Other errors are returned unchanged.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	msg := err.Error()
	for _, e := range knownExceptions {
		if strings.Contains(msg, e.msg) {
			return fmt.Errorf("%w: %w", e.err, err)
		}
	}

	return err
}

package ledger

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a ledger operation failed
type Kind int

const (
	KindTransportFailure Kind = iota
	KindNotConnected
	KindNotFound
	KindInvalidArgument
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindTransportFailure:
		return "transport failure"
	case KindNotConnected:
		return "not connected"
	case KindNotFound:
		return "not found"
	case KindInvalidArgument:
		return "invalid argument"
	case KindRejected:
		return "rejected"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *OperationFailed of the same kind
var (
	ErrTransportFailure = errors.New("ledger transport failure")
	ErrNotConnected     = errors.New("no wallet connected")
	ErrNotFound         = errors.New("not found on ledger")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrRejected         = errors.New("rejected by ledger")
)

var sentinels = map[Kind]error{
	KindTransportFailure: ErrTransportFailure,
	KindNotConnected:     ErrNotConnected,
	KindNotFound:         ErrNotFound,
	KindInvalidArgument:  ErrInvalidArgument,
	KindRejected:         ErrRejected,
}

// OperationFailed is the single error type returned by Client operations
type OperationFailed struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *OperationFailed) Error() string {
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *OperationFailed) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match on the failure kind
func (e *OperationFailed) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of a failed operation, or false if err did not
// come from a Client operation.
func KindOf(err error) (Kind, bool) {
	var op *OperationFailed
	if errors.As(err, &op) {
		return op.Kind, true
	}
	return 0, false
}

// RevertError is a contract-level rejection carrying the revert reason
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return "execution reverted"
	}
	return "execution reverted: " + e.Reason
}

var notFoundMarkers = []string{"not found", "does not exist", "invalid session", "unknown session", "no session"}

// classify maps a transport error to a failure kind
func classify(err error) Kind {
	if errors.Is(err, ErrNotConnected) {
		return KindNotConnected
	}

	var revert *RevertError
	if !errors.As(err, &revert) {
		return KindTransportFailure
	}

	reason := strings.ToLower(revert.Reason)
	for _, marker := range notFoundMarkers {
		if strings.Contains(reason, marker) {
			return KindNotFound
		}
	}
	return KindRejected
}

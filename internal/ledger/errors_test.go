package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{ErrNotConnected, KindNotConnected},
		{fmt.Errorf("wrapped: %w", ErrNotConnected), KindNotConnected},
		{&RevertError{Reason: "session does not exist"}, KindNotFound},
		{&RevertError{Reason: "Session Not Found"}, KindNotFound},
		{&RevertError{Reason: "not session owner"}, KindRejected},
		{&RevertError{}, KindRejected},
		{errors.New("dial tcp: connection refused"), KindTransportFailure},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.err), tt.err.Error())
	}
}

func TestOperationFailedMatchesOnlyItsKind(t *testing.T) {
	err := error(&OperationFailed{Op: "performReading", Kind: KindNotFound, Err: &RevertError{Reason: "x"}})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrTransportFailure)
	assert.NotErrorIs(t, err, ErrNotConnected)

	var revert *RevertError
	require.ErrorAs(t, err, &revert)
	assert.Equal(t, "x", revert.Reason)
	assert.Contains(t, err.Error(), "performReading failed (not found)")
}

type dataError struct {
	data any
}

func (e dataError) Error() string  { return "execution reverted" }
func (e dataError) ErrorData() any { return e.data }

func TestRevertFrom(t *testing.T) {
	stringType, err := abi.NewType("string", "", nil)
	require.NoError(t, err)
	packed, err := abi.Arguments{{Type: stringType}}.Pack("cards already drawn")
	require.NoError(t, err)
	data := append([]byte{0x08, 0xc3, 0x79, 0xa0}, packed...)

	got := revertFrom(dataError{data: hexutil.Encode(data)})
	var revert *RevertError
	require.ErrorAs(t, got, &revert)
	assert.Equal(t, "cards already drawn", revert.Reason)

	got = revertFrom(errors.New("execution reverted: session does not exist"))
	require.ErrorAs(t, got, &revert)
	assert.Equal(t, "session does not exist", revert.Reason)

	plain := errors.New("i/o timeout")
	assert.Same(t, plain, revertFrom(plain))
}

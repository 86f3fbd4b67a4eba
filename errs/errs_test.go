package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrappersMatchBothKindAndDetail(t *testing.T) {
	detail := errors.New("bpc must be in [1,63]")

	err := Config(detail)
	require.ErrorIs(t, err, ErrConfigInvalid)
	require.ErrorIs(t, err, detail)
	require.Equal(t, detail.Error(), err.Error())

	require.ErrorIs(t, Format(detail), ErrFormatInvalid)
	require.ErrorIs(t, IO(detail), ErrIOError)
	require.ErrorIs(t, Numeric(detail), ErrNumericUnrepresentable)
}

func TestWrappersReturnNilForNilDetail(t *testing.T) {
	require.NoError(t, Config(nil))
	require.NoError(t, Format(nil))
	require.NoError(t, IO(nil))
	require.NoError(t, Numeric(nil))
}

func TestFinerSentinelsWrapTheirKind(t *testing.T) {
	err := Config(ErrBPCOutOfRange)
	require.ErrorIs(t, err, ErrConfigInvalid)
	require.ErrorIs(t, err, ErrBPCOutOfRange)
}

package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCategories(t *testing.T) {
	invalid := []error{
		ErrNonFiniteValue, ErrValueOutOfRange, ErrDeltaOverflow, ErrUnknownEmotionCode,
		ErrTimestampOutOfRange, ErrOutOfOrderState, ErrInvalidChannelName, ErrTooManyChannels,
		ErrInvalidOption, ErrSessionSealed, ErrChannelNotFound, ErrUnsupportedCodec,
	}
	for _, err := range invalid {
		require.ErrorIs(t, err, ErrInvalidInput, err.Error())
		require.False(t, errors.Is(err, ErrFormat), err.Error())
	}

	format := []error{
		ErrTruncatedRecord, ErrTruncatedSegment, ErrInvalidRunCount, ErrInvalidHeaderSize,
		ErrInvalidMagicNumber, ErrInvalidHeaderFlags, ErrPayloadSizeMismatch, ErrChecksumMismatch,
		ErrCorruptPayload,
	}
	for _, err := range format {
		require.ErrorIs(t, err, ErrFormat, err.Error())
		require.False(t, errors.Is(err, ErrInvalidInput), err.Error())
	}
}

package blob

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/arloliu/emotrace/compress"
	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
	"github.com/arloliu/emotrace/internal/options"
	"github.com/arloliu/emotrace/section"
)

// RecorderConfig holds the settings a Recorder is built from.
type RecorderConfig struct {
	header       *section.SessionHeader
	engine       endian.EndianEngine
	codec        compress.Codec
	sessionID    uuid.UUID
	overflow     format.OverflowPolicy
	autoClassify bool
	stateCap     int
}

func newRecorderConfig(baseMs int64) *RecorderConfig {
	header := section.NewSessionHeader(baseMs, [16]byte{})
	header.Flag.SetHasChannelNames(true)

	return &RecorderConfig{
		header:       header,
		engine:       header.Flag.GetEndianEngine(),
		overflow:     format.OverflowReject,
		autoClassify: true,
	}
}

func (c *RecorderConfig) setCompression(comp format.CompressionType) error {
	codec, err := compress.GetCodec(comp)
	if err != nil {
		return fmt.Errorf("%w: payload compression: %w", errs.ErrInvalidOption, err)
	}
	c.header.Flag.SetCompressionType(comp)
	c.codec = codec

	return nil
}

func (c *RecorderConfig) setEndianness(big bool) {
	if big {
		c.header.Flag.WithBigEndian()
	} else {
		c.header.Flag.WithLittleEndian()
	}
	c.engine = c.header.Flag.GetEndianEngine()
}

// RecorderOption configures a Recorder.
type RecorderOption = options.Option[*RecorderConfig]

// WithPayloadCompression selects the block codec applied to the sealed body.
// The default is format.CompressionNone.
func WithPayloadCompression(comp format.CompressionType) RecorderOption {
	return options.New(func(c *RecorderConfig) error {
		return c.setCompression(comp)
	})
}

// WithOverflowPolicy selects what happens when a channel sample jumps by more
// than the int16 delta range. The default is format.OverflowReject.
func WithOverflowPolicy(policy format.OverflowPolicy) RecorderOption {
	return options.New(func(c *RecorderConfig) error {
		if !policy.IsValid() {
			return fmt.Errorf("%w: overflow policy %s", errs.ErrInvalidOption, policy)
		}
		c.overflow = policy

		return nil
	})
}

// WithQuantization selects how emotional states are quantized. The default
// is format.QuantizeRound.
func WithQuantization(mode format.QuantizeMode) RecorderOption {
	return options.New(func(c *RecorderConfig) error {
		if !mode.IsValid() {
			return fmt.Errorf("%w: quantization %s", errs.ErrInvalidOption, mode)
		}
		c.header.Flag.SetQuantizeMode(mode)

		return nil
	})
}

// WithAutoClassify controls whether state categories are derived from VAD
// coordinates (default) or taken from the State as given.
func WithAutoClassify(enabled bool) RecorderOption {
	return options.NoError(func(c *RecorderConfig) {
		c.autoClassify = enabled
	})
}

// WithSessionID sets the session id. A random version 4 UUID is generated
// when it is not set.
func WithSessionID(id uuid.UUID) RecorderOption {
	return options.New(func(c *RecorderConfig) error {
		if id == uuid.Nil {
			return fmt.Errorf("%w: nil session id", errs.ErrInvalidOption)
		}
		c.sessionID = id

		return nil
	})
}

// WithChannelNames controls whether channel names are stored in the blob.
// It is enabled by default. Without names, channels can only be looked up by
// id after decoding.
func WithChannelNames(enabled bool) RecorderOption {
	return options.NoError(func(c *RecorderConfig) {
		c.header.Flag.SetHasChannelNames(enabled)
	})
}

// WithStateCapacity preallocates room for n emotional states.
func WithStateCapacity(n int) RecorderOption {
	return options.New(func(c *RecorderConfig) error {
		if n < 0 {
			return fmt.Errorf("%w: state capacity %d", errs.ErrInvalidOption, n)
		}
		c.stateCap = n

		return nil
	})
}

// WithLittleEndian writes the blob little-endian. It is the default.
func WithLittleEndian() RecorderOption {
	return options.NoError(func(c *RecorderConfig) {
		c.setEndianness(false)
	})
}

// WithBigEndian writes the blob big-endian. It is only needed when the blob
// is consumed by tooling that expects network byte order.
func WithBigEndian() RecorderOption {
	return options.NoError(func(c *RecorderConfig) {
		c.setEndianness(true)
	})
}

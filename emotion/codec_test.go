package emotion

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/emotrace/endian"
	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/format"
)

const baseMs = int64(1_700_000_000_000)

func newCodec(t *testing.T, opts ...CodecOption) *Codec {
	t.Helper()

	c, err := NewCodec(opts...)
	require.NoError(t, err)

	return c
}

func randomState(rng *rand.Rand, ts int64) State {
	return State{
		TimestampMs: ts,
		Valence:     rng.Float64()*2 - 1,
		Arousal:     rng.Float64(),
		Dominance:   rng.Float64(),
		Confidence:  rng.Float64(),
		Intensity:   rng.Float64(),
		Engagement:  rng.Float64(),
	}
}

func requireWithin(t *testing.T, want, got State, tolerance float64) {
	t.Helper()

	for d := range numDimensions {
		require.InDelta(t, want.Get(d), got.Get(d), tolerance, d.String())
	}
}

func TestCodec_Defaults(t *testing.T) {
	c := newCodec(t)
	require.Equal(t, format.QuantizeRound, c.Mode())
	require.InDelta(t, 0.005, c.MaxError(), 1e-12)

	_, err := NewCodec(WithQuantization(format.QuantizeMode(0)))
	require.ErrorIs(t, err, errs.ErrInvalidOption)
}

func TestCodec_RoundTripPrecision(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for _, mode := range []format.QuantizeMode{format.QuantizeRound, format.QuantizeTruncate} {
		t.Run(mode.String(), func(t *testing.T) {
			c := newCodec(t, WithQuantization(mode))
			for i := range 2000 {
				s := randomState(rng, baseMs+int64(i)*250)

				q, err := c.Compress(s, baseMs)
				require.NoError(t, err)
				require.NoError(t, q.Validate())
				require.Equal(t, uint32(i*250), q.TimestampOffsetMs)

				got, err := c.Decompress(q, baseMs)
				require.NoError(t, err)
				require.Equal(t, s.TimestampMs, got.TimestampMs)
				requireWithin(t, s, got, c.MaxError()+1e-9)
			}
		})
	}
}

func TestCodec_TruncateVsRound(t *testing.T) {
	s := State{TimestampMs: baseMs, Valence: -0.476, Arousal: 0.476, Dominance: 0.999}

	round, err := newCodec(t).Compress(s, baseMs)
	require.NoError(t, err)
	require.Equal(t, int8(-48), round.Valence)
	require.Equal(t, uint8(48), round.Arousal)
	require.Equal(t, uint8(100), round.Dominance)

	trunc, err := newCodec(t, WithQuantization(format.QuantizeTruncate)).Compress(s, baseMs)
	require.NoError(t, err)
	require.Equal(t, int8(-47), trunc.Valence)
	require.Equal(t, uint8(47), trunc.Arousal)
	require.Equal(t, uint8(99), trunc.Dominance)
}

func TestCodec_ClampsOutOfRange(t *testing.T) {
	s := State{TimestampMs: baseMs, Valence: -3, Arousal: 1.7, Dominance: -0.2, Engagement: 42}

	q, err := newCodec(t).Compress(s, baseMs)
	require.NoError(t, err)
	require.Equal(t, int8(-100), q.Valence)
	require.Equal(t, uint8(100), q.Arousal)
	require.Equal(t, uint8(0), q.Dominance)
	require.Equal(t, uint8(100), q.Engagement)
	require.NoError(t, q.Validate())
}

func TestCodec_Classification(t *testing.T) {
	s := NewState(baseMs, 0.6, 0.8, 0.2)
	require.Equal(t, Happy, s.Category)

	// Auto classification ignores the caller's category.
	s.Category = Sad
	q, err := newCodec(t).Compress(s, baseMs)
	require.NoError(t, err)
	require.Equal(t, Happy.Code(), q.Code)

	explicit := newCodec(t, WithAutoClassify(false))
	q, err = explicit.Compress(s, baseMs)
	require.NoError(t, err)
	require.Equal(t, Sad.Code(), q.Code)

	s.Category = Unknown
	q, err = explicit.Compress(s, baseMs)
	require.NoError(t, err)
	require.Equal(t, uint8(0xFF), q.Code)

	s.Category = Category(77)
	_, err = explicit.Compress(s, baseMs)
	require.ErrorIs(t, err, errs.ErrUnknownEmotionCode)
}

func TestCodec_CompressErrors(t *testing.T) {
	c := newCodec(t)

	_, err := c.Compress(State{TimestampMs: baseMs - 1}, baseMs)
	require.ErrorIs(t, err, errs.ErrTimestampOutOfRange)

	_, err = c.Compress(State{TimestampMs: baseMs + math.MaxUint32 + 1}, baseMs)
	require.ErrorIs(t, err, errs.ErrTimestampOutOfRange)

	_, err = c.Compress(State{TimestampMs: baseMs + math.MaxUint32}, baseMs)
	require.NoError(t, err)

	_, err = c.Compress(State{TimestampMs: baseMs, Arousal: math.NaN()}, baseMs)
	require.ErrorIs(t, err, errs.ErrNonFiniteValue)

	_, err = c.Compress(State{TimestampMs: baseMs, Intensity: math.Inf(-1)}, baseMs)
	require.ErrorIs(t, err, errs.ErrNonFiniteValue)
}

func TestCodec_DecompressRejectsInvalid(t *testing.T) {
	c := newCodec(t)

	_, err := c.Decompress(QuantizedState{Valence: -101}, baseMs)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	_, err = c.Decompress(QuantizedState{Confidence: 101}, baseMs)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)
	require.Contains(t, err.Error(), "confidence")

	_, err = c.Decompress(QuantizedState{Code: 12}, baseMs)
	require.ErrorIs(t, err, errs.ErrUnknownEmotionCode)
}

func TestQuantizedState_Binary(t *testing.T) {
	q := QuantizedState{
		TimestampOffsetMs: 0x01020304,
		Valence:           -25,
		Arousal:           60,
		Dominance:         70,
		Confidence:        80,
		Code:              Anxious.Code(),
		Intensity:         90,
		Engagement:        100,
	}

	data, err := q.MarshalBinary()
	require.NoError(t, err)
	require.Len(t, data, QuantizedStateSize)
	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0xe7, 60, 70, 80, 5, 90, 100}, data)

	var back QuantizedState
	require.NoError(t, back.UnmarshalBinary(data))
	require.Equal(t, q, back)

	be := q.AppendBinary(nil, endian.GetBigEndianEngine())
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, be[:4])
	parsed, err := ParseQuantizedState(be, endian.GetBigEndianEngine())
	require.NoError(t, err)
	require.Equal(t, q, parsed)
}

func TestParseQuantizedState_Errors(t *testing.T) {
	_, err := ParseQuantizedState(make([]byte, QuantizedStateSize-1), nil)
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)
	require.ErrorIs(t, err, errs.ErrFormat)

	bad := make([]byte, QuantizedStateSize)
	bad[5] = 200 // arousal
	_, err = ParseQuantizedState(bad, nil)
	require.ErrorIs(t, err, errs.ErrValueOutOfRange)

	bad = make([]byte, QuantizedStateSize)
	bad[8] = 0x20 // code
	_, err = ParseQuantizedState(bad, nil)
	require.ErrorIs(t, err, errs.ErrUnknownEmotionCode)
}

func TestQuantizedStates_Stream(t *testing.T) {
	c := newCodec(t)
	rng := rand.New(rand.NewSource(3))

	states := make([]QuantizedState, 0, 10)
	for i := range 10 {
		q, err := c.Compress(randomState(rng, baseMs+int64(i)*100), baseMs)
		require.NoError(t, err)
		states = append(states, q)
	}

	data := AppendQuantizedStates(nil, states, nil)
	require.Len(t, data, 10*QuantizedStateSize)

	parsed, err := ParseQuantizedStates(data, nil)
	require.NoError(t, err)
	require.Equal(t, states, parsed)

	_, err = ParseQuantizedStates(data[:len(data)-3], nil)
	require.ErrorIs(t, err, errs.ErrTruncatedRecord)

	empty, err := ParseQuantizedStates(nil, nil)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestQuantizedState_Accessors(t *testing.T) {
	q := QuantizedState{Valence: -50, Arousal: 25, Dominance: 75, Code: 0x30}

	v, a, d := q.VAD()
	require.InDelta(t, -0.5, v, 1e-12)
	require.InDelta(t, 0.25, a, 1e-12)
	require.InDelta(t, 0.75, d, 1e-12)
	require.Equal(t, Unknown, q.Category())
}

func TestDimension(t *testing.T) {
	lo, hi := DimValence.Range()
	require.Equal(t, -1.0, lo)
	require.Equal(t, 1.0, hi)

	lo, hi = DimEngagement.Range()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 1.0, hi)

	require.Equal(t, 1.0, DimArousal.Clamp(1.4))
	require.Equal(t, -1.0, DimValence.Clamp(-1.4))
	require.Equal(t, "dominance", DimDominance.String())
}

func BenchmarkCodec_Compress(b *testing.B) {
	c, _ := NewCodec()
	s := State{TimestampMs: baseMs + 1000, Valence: 0.31, Arousal: 0.62, Dominance: 0.44, Confidence: 0.9}
	for b.Loop() {
		_, _ = c.Compress(s, baseMs)
	}
}

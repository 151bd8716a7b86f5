package regression

import (
	"fmt"
	"math"
	"strings"
)

// ModelType identifies a regression model.
type ModelType int

const (
	// ModelTypeHyperbolic is BPS = a + b / SPC.
	ModelTypeHyperbolic ModelType = iota
	// ModelTypeLogarithmic is BPS = a + b * ln(SPC).
	ModelTypeLogarithmic
	// ModelTypePower is BPS = a * SPC^b.
	ModelTypePower
)

var modelTypeNames = map[ModelType]string{
	ModelTypeHyperbolic:  "hyperbolic",
	ModelTypeLogarithmic: "logarithmic",
	ModelTypePower:       "power",
}

// String returns the lower-case model name.
func (mt ModelType) String() string {
	if name, ok := modelTypeNames[mt]; ok {
		return name
	}

	return "unknown"
}

// IsValid reports whether mt names a supported model.
func (mt ModelType) IsValid() bool {
	_, ok := modelTypeNames[mt]
	return ok
}

// ModelTypeFromString returns the ModelType for name, or ModelType(-1).
func ModelTypeFromString(name string) ModelType {
	name = strings.ToLower(strings.TrimSpace(name))
	for mt, n := range modelTypeNames {
		if n == name {
			return mt
		}
	}

	return ModelType(-1)
}

// AllModelTypes returns every supported model in declaration order.
func AllModelTypes() []ModelType {
	return []ModelType{ModelTypeHyperbolic, ModelTypeLogarithmic, ModelTypePower}
}

// Estimator predicts bytes per sample from samples per channel.
type Estimator interface {
	// Estimate returns the expected bytes per sample at spc samples per
	// channel. It returns +Inf when spc is not positive.
	Estimate(spc float64) float64
	// Type returns the model type.
	Type() ModelType
	// Coefficients returns [a, b].
	Coefficients() []float64
}

// NewEstimator creates an estimator of the given type from [a, b].
func NewEstimator(mt ModelType, coeffs []float64) (Estimator, error) {
	if !mt.IsValid() {
		return nil, fmt.Errorf("unknown model type %d", int(mt))
	}
	if len(coeffs) != 2 {
		return nil, fmt.Errorf("%s model expects 2 coefficients, got %d", mt, len(coeffs))
	}
	for _, c := range coeffs {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return nil, fmt.Errorf("%s model has non-finite coefficient %v", mt, c)
		}
	}

	return &estimator{mt: mt, a: coeffs[0], b: coeffs[1]}, nil
}

type estimator struct {
	mt   ModelType
	a, b float64
}

func (e *estimator) Estimate(spc float64) float64 {
	if spc <= 0 {
		return math.Inf(1)
	}

	switch e.mt {
	case ModelTypeHyperbolic:
		return e.a + e.b/spc
	case ModelTypeLogarithmic:
		return e.a + e.b*math.Log(spc)
	default:
		return e.a * math.Pow(spc, e.b)
	}
}

func (e *estimator) Type() ModelType { return e.mt }

func (e *estimator) Coefficients() []float64 { return []float64{e.a, e.b} }

func (e *estimator) formula() string {
	switch e.mt {
	case ModelTypeHyperbolic:
		return fmt.Sprintf("BPS = %.4f + %.4f / SPC", e.a, e.b)
	case ModelTypeLogarithmic:
		return fmt.Sprintf("BPS = %.4f + %.4f * ln(SPC)", e.a, e.b)
	default:
		return fmt.Sprintf("BPS = %.4f * SPC^%.4f", e.a, e.b)
	}
}

// EstimateBlobSize predicts the sealed size in bytes of a session with the
// given number of channels and samples per channel. It returns 0 for empty
// sessions and for estimates that are not finite.
func EstimateBlobSize(est Estimator, channels, samplesPerChannel int) int64 {
	if est == nil || channels <= 0 || samplesPerChannel <= 0 {
		return 0
	}

	bps := est.Estimate(float64(samplesPerChannel))
	if math.IsNaN(bps) || math.IsInf(bps, 0) || bps <= 0 {
		return 0
	}

	return int64(math.Ceil(bps * float64(channels) * float64(samplesPerChannel)))
}

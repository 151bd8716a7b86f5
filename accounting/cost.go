package accounting

import (
	"fmt"
	"math"

	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/internal/options"
)

// DefaultRatePerByteYear is the storage price used when no rate is configured,
// in currency units per byte per year (roughly 0.023 per GiB-month).
const DefaultRatePerByteYear = 0.023 * 12 / (1 << 30)

// EstimateStorageCost returns sizeBytes*years*ratePerByteYear.
func EstimateStorageCost(sizeBytes int64, years, ratePerByteYear float64) float64 {
	return float64(sizeBytes) * years * ratePerByteYear
}

// CostModel estimates retention cost at a fixed rate.
type CostModel struct {
	rate float64
}

// CostOption configures a CostModel.
type CostOption = options.Option[*CostModel]

// WithRatePerByteYear sets the storage price per byte per year.
// The rate must be finite and non-negative.
func WithRatePerByteYear(rate float64) CostOption {
	return options.New(func(m *CostModel) error {
		if rate < 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("%w: rate per byte-year %v", errs.ErrInvalidOption, rate)
		}
		m.rate = rate

		return nil
	})
}

// NewCostModel creates a CostModel priced at DefaultRatePerByteYear unless
// overridden.
func NewCostModel(opts ...CostOption) (*CostModel, error) {
	m := &CostModel{rate: DefaultRatePerByteYear}
	if err := options.Apply(m, opts...); err != nil {
		return nil, err
	}

	return m, nil
}

// Rate returns the configured price per byte per year.
func (m *CostModel) Rate() float64 {
	return m.rate
}

// Estimate returns the cost of keeping sizeBytes for the given number of years.
func (m *CostModel) Estimate(sizeBytes int64, years float64) float64 {
	return EstimateStorageCost(sizeBytes, years, m.rate)
}

// Savings returns the cost avoided by storing s.CompressedSize instead of
// s.OriginalSize for the given number of years.
func (m *CostModel) Savings(s Stats, years float64) float64 {
	return m.Estimate(s.SavedBytes(), years)
}

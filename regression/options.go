package regression

import (
	"fmt"

	"github.com/arloliu/emotrace/errs"
	"github.com/arloliu/emotrace/internal/options"
)

// DefaultMinPoints is the smallest number of observations Fit accepts.
const DefaultMinPoints = 3

// FitConfig holds the settings of a fit.
type FitConfig struct {
	models    []ModelType
	minPoints int
}

func defaultFitConfig() *FitConfig {
	return &FitConfig{
		models:    AllModelTypes(),
		minPoints: DefaultMinPoints,
	}
}

// FitOption configures Fit and Analyze.
type FitOption = options.Option[*FitConfig]

// WithModels restricts the fit to the given model types.
func WithModels(models ...ModelType) FitOption {
	return options.New(func(cfg *FitConfig) error {
		if len(models) == 0 {
			return fmt.Errorf("%w: no model types", errs.ErrInvalidOption)
		}
		for _, mt := range models {
			if !mt.IsValid() {
				return fmt.Errorf("%w: model type %d", errs.ErrInvalidOption, int(mt))
			}
		}
		cfg.models = append([]ModelType(nil), models...)

		return nil
	})
}

// WithMinPoints sets the smallest number of observations accepted.
func WithMinPoints(n int) FitOption {
	return options.New(func(cfg *FitConfig) error {
		if n < 2 {
			return fmt.Errorf("%w: min points %d", errs.ErrInvalidOption, n)
		}
		cfg.minPoints = n

		return nil
	})
}

// Package regression fits blob size models to sealed sessions.
//
// Storage planning needs the size of a session before it is recorded. The
// dominant factor is the number of samples per channel (SPC): every channel
// pays a fixed 16-byte index entry plus its name, and every sample costs two
// bytes before payload compression. Bytes per sample (BPS) therefore falls
// as SPC grows, which the fitted models capture:
//
//   - Hyperbolic:  BPS = a + b / SPC
//   - Logarithmic: BPS = a + b * ln(SPC)
//   - Power:       BPS = a * SPC^b
//
// Each model is linearized and fitted with ordinary least squares. Models are
// ranked by R² computed on the original scale.
//
//	result, err := regression.Analyze(sealedBlobs)
//	if err != nil {
//	    return err
//	}
//	size := regression.EstimateBlobSize(result.BestFit.Estimator, 8, 600)
package regression

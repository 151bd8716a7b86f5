// Package accounting reports how much space a codec saved and what the
// remaining bytes cost to keep.
//
// Everything here is a pure function of byte counts. Stats are snapshots
// recomputed on demand from the sizes they describe and are never persisted.
//
//	st := accounting.ComputeStats(rawBytes, encodedBytes, "delta+zstd")
//	fmt.Println(st) // delta+zstd: 4096 -> 1024 bytes (ratio 4.00x, saved 75.0%)
//
//	model, _ := accounting.NewCostModel(accounting.WithRatePerByteYear(2e-11))
//	cost := model.Estimate(st.CompressedSize, 7)
package accounting

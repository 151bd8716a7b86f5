// Package trajectory derives rolling analytics from a session's sequence of
// quantized emotional states.
//
// A Trajectory is append-only: states are kept in insertion order, which is
// chronological order. Every aggregate it reports (volatility, complexity,
// dominant categories, next-state prediction) is a view that Analyze can
// recompute from the stored states alone.
//
// Aggregates are maintained incrementally, so AddState is O(1) and the
// accessors are O(1) except DominantCategories, which sorts at most one entry
// per category.
//
//	traj := trajectory.New()
//	for _, q := range states {
//	    if err := traj.AddState(q); err != nil {
//	        return err
//	    }
//	}
//	fmt.Println(traj.Volatility(), traj.Complexity())
//	if p, ok := traj.PredictNext(); ok {
//	    fmt.Println(p.State.Category, p.Confidence)
//	}
//
// Insufficient data is never an error: fewer than two states yield no
// prediction and fewer than three yield zero complexity.
//
// A Trajectory is NOT thread-safe. AddState must be serialized by the caller
// and must not run concurrently with reads.
package trajectory

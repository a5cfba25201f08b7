package tracker_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mna/jsrevive/runtime/tracker"
)

func TestCaptureRecoversScopes(t *testing.T) {
	in := tracker.New()
	called := false
	cap, err := in.Capture(7, func() {
		called = true
		in.Tracker(7, [][]interface{}{{int64(1), "x", 42}})
	})
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, 7, cap.FuncID)
	require.Equal(t, tracker.Idle, in.State())
}

func TestCaptureFailsWhenFunctionNeverCallsTracker(t *testing.T) {
	in := tracker.New()
	_, err := in.Capture(1, func() {})
	require.Error(t, err)
}

func TestArmTwiceWithoutDisarmPanics(t *testing.T) {
	in := tracker.New()
	in.Arm(func(tracker.Captured) {})
	require.Panics(t, func() { in.Arm(func(tracker.Captured) {}) })
}

func TestGetScopeIDIsMonotonic(t *testing.T) {
	in := tracker.New()
	a := in.GetScopeID()
	b := in.GetScopeID()
	require.Less(t, a, b)
}

func TestTrackerOutsideCaptureIsNoOp(t *testing.T) {
	in := tracker.New()
	require.NotPanics(t, func() {
		got := in.Tracker(1, nil)
		require.Nil(t, got)
	})
}

func TestInstancesHaveDistinctIDs(t *testing.T) {
	a, b := tracker.New(), tracker.New()
	require.NotEqual(t, a.ID, b.ID)
}

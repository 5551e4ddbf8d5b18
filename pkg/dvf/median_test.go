package dvf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMedian_OddCount(t *testing.T) {
	require.Equal(t, 3.0, median([]float64{5, 1, 3}))
}

func TestMedian_EvenCount(t *testing.T) {
	// Mean of the two middle values after ascending sort.
	require.Equal(t, 40.0, median([]float64{30, 50}))
	require.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
}

func TestMedian_Empty(t *testing.T) {
	require.Equal(t, 0.0, median(nil))
}

func TestMedian_DoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	_ = median(values)
	require.Equal(t, []float64{3, 1, 2}, values)
}

func TestRound2(t *testing.T) {
	require.Equal(t, 1234.57, round2(1234.5678))
	require.Equal(t, 40.0, round2(40.0))
}

package binning

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAxisEdges(t *testing.T) {
	a := Axis{Name: "zvtx", Bins: 28, Min: -7, Max: 7}
	edges := a.Edges()
	require.Len(t, edges, 29)
	assert.Equal(t, -7.0, edges[0])
	assert.Equal(t, 7.0, edges[28])
	assert.InDelta(t, 0.5, a.Width(), 1e-12)
	for i := 1; i < len(edges); i++ {
		assert.Less(t, edges[i-1], edges[i])
	}
}

func TestAxisShift(t *testing.T) {
	a := DefaultDptDpt().Phi
	edges := a.Edges()
	half := math.Pi / 72
	assert.InDelta(t, -half, edges[0], 1e-12)
	assert.InDelta(t, 2*math.Pi-half, edges[72], 1e-12)
}

func TestAxisBin(t *testing.T) {
	a := Axis{Name: "pt", Bins: 18, Min: 0.2, Max: 2.0}
	assert.Equal(t, 0, a.Bin(0.2))
	assert.Equal(t, 0, a.Bin(0.29))
	assert.Equal(t, 17, a.Bin(1.99))
	assert.Equal(t, -1, a.Bin(2.0))
	assert.Equal(t, -1, a.Bin(0.1))
}

func TestAxisMultiRangeMatchesBin(t *testing.T) {
	a := Axis{Name: "eta", Bins: 16, Min: -0.8, Max: 0.8}
	mr, err := a.MultiRange()
	require.NoError(t, err)
	assert.Equal(t, 16, mr.Length())
	for _, v := range []float64{-0.8, -0.75, -0.1, 0, 0.33, 0.79} {
		require.True(t, mr.Filter(v))
		bin := a.Bin(v)
		for i := 0; i < mr.Length(); i++ {
			assert.Equal(t, i == bin, mr.SubActive(i), "value %v bin %d", v, i)
		}
	}
	assert.False(t, mr.Filter(0.8))
}

func TestAxisValidate(t *testing.T) {
	assert.Error(t, Axis{Name: "x", Bins: 0, Min: 0, Max: 1}.Validate())
	assert.Error(t, Axis{Name: "x", Bins: 4, Min: 1, Max: 1}.Validate())
	_, err := Axis{Name: "x", Bins: 2, Min: 3, Max: 1}.MultiRange()
	assert.Error(t, err)
}

func TestDptDptDefaults(t *testing.T) {
	d := DptDpt{PT: Axis{Bins: 10, Min: 0.5, Max: 5}}
	require.NoError(t, d.ValidateAndSetDefault())
	assert.Equal(t, 28, d.ZVtx.Bins)
	assert.Equal(t, "pt", d.PT.Name)
	assert.Equal(t, 10, d.PT.Bins)
	assert.Equal(t, 72, d.Phi.Bins)
	assert.Len(t, d.Axes(), 4)

	bad := DptDpt{Eta: Axis{Bins: -1, Min: 0, Max: 1}}
	assert.Error(t, bad.ValidateAndSetDefault())
}

func TestAxisSpec(t *testing.T) {
	a := Axis{Name: "eta", Bins: 4, Min: -0.8, Max: 0.8}
	spec, err := a.Spec()
	require.NoError(t, err)
	assert.Equal(t, "eta_bins", spec.Name)
	require.Len(t, spec.Defaults, 1)
	assert.Len(t, spec.Defaults[0].Params, 5)

	_, err = Axis{Name: "eta", Bins: 0, Min: -0.8, Max: 0.8}.Spec()
	assert.Error(t, err)
}

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuenqlve/cutbrick/cutspec"
	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/source"
)

func newTestCutSet(t *testing.T) *CutSet {
	t.Helper()
	set := NewCutSet("track")
	zvtx, err := cutspec.Parse("zvtx{nominal=rg(-7,7);narrow=rg(-3,3),wide=rg(-10,10)}")
	require.NoError(t, err)
	_, err = set.Add("zvtx", zvtx)
	require.NoError(t, err)
	_, err = set.AddConfig(CutConfig{Field: "pt", Config: cutspec.Config{Expr: "pt{min=th(0.2)}"}})
	require.NoError(t, err)
	return set
}

func TestCutSetAdd(t *testing.T) {
	set := newTestCutSet(t)
	assert.Equal(t, 4, set.Length())
	assert.Len(t, set.Cuts(), 2)

	pt, ok := set.Cut("pt")
	require.True(t, ok)
	assert.Equal(t, 3, pt.Offset())
	assert.True(t, set.IsEnabled("pt"))
	assert.Equal(t, uint(2), set.EnabledMask().Count())

	spec, err := cutspec.Parse("pt{other=th(0.5)}")
	require.NoError(t, err)
	_, err = set.Add("pt", spec)
	require.Error(t, err)
	assert.Equal(t, uint16(errors.ErrCodeSpecBuild), errors.CodeOf(err))

	_, err = set.Add("", spec)
	require.Error(t, err)
	_, err = set.AddConfig(CutConfig{Config: cutspec.Config{Expr: "eta{e=rg(-0.8,0.8)}"}})
	require.Error(t, err)
}

func TestCutSetFilter(t *testing.T) {
	set := newTestCutSet(t)
	rec := source.Record{"zvtx": 5.0, "pt": 0.5}

	ok, err := set.Filter(rec)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, uint(2), set.ActivatedMask().Count())

	status := set.StatusVector()
	for i, want := range []bool{true, false, true, true} {
		assert.Equal(t, want, status.Test(uint(i)), "status bit %d", i)
	}

	ok, err = set.Filter(source.Record{"zvtx": 5.0, "pt": 0.1})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, set.ActivatedMask().Test(0))
	assert.False(t, set.ActivatedMask().Test(1))
}

func TestCutSetArmVariation(t *testing.T) {
	set := newTestCutSet(t)
	rec := source.Record{"zvtx": 5.0, "pt": 0.5}

	require.True(t, set.ArmVariation("zvtx", "narrow"))
	ok, err := set.Filter(rec)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, set.ActivatedMask().Test(0))

	require.True(t, set.ArmVariation("zvtx", "wide"))
	ok, err = set.Filter(rec)
	require.NoError(t, err)
	assert.True(t, ok)

	assert.False(t, set.ArmVariation("zvtx", "missing"))
	assert.False(t, set.ArmVariation("missing", "wide"))

	set.ArmDefaults()
	ok, err = set.Filter(source.Record{"zvtx": 8.0, "pt": 0.5})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCutSetDisabledCut(t *testing.T) {
	set := newTestCutSet(t)
	require.True(t, set.Enable("zvtx", false))
	assert.False(t, set.Enable("missing", false))

	// 停用的切割不读取字段
	ok, err := set.Filter(source.Record{"pt": 0.5})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, set.ActivatedMask().Test(0))
	status := set.StatusVector()
	assert.Equal(t, uint(1), status.Count())
	assert.True(t, status.Test(3))
}

func TestCutSetFilterMissingField(t *testing.T) {
	set := newTestCutSet(t)
	ok, err := set.Filter(source.Record{"zvtx": 1.0, "pt": 0.5})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = set.Filter(source.Record{"zvtx": 1.0})
	require.Error(t, err)
	assert.Equal(t, uint16(errors.ErrCodeRecordField), errors.CodeOf(err))
	// 出错时保留上一次的结果
	assert.Equal(t, uint(2), set.ActivatedMask().Count())

	_, err = set.Filter(source.Record{"zvtx": "abc", "pt": 0.5})
	require.Error(t, err)
}

func TestParseQALevel(t *testing.T) {
	q, err := ParseQALevel("Heavy")
	require.NoError(t, err)
	assert.Equal(t, QAHeavy, q)
	q, err = ParseQALevel("")
	require.NoError(t, err)
	assert.Equal(t, QANone, q)
	_, err = ParseQALevel("extreme")
	assert.Error(t, err)
	assert.Equal(t, "light", QALight.String())
}

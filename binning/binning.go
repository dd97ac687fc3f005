package binning

import (
	"math"

	"github.com/xuenqlve/cutbrick/brick"
	"github.com/xuenqlve/cutbrick/cutspec"
	"github.com/xuenqlve/cutbrick/errors"
)

// Axis 等宽分箱的接受度坐标轴。Shift 按箱宽的比例平移起点，方位角轴使用
type Axis struct {
	Name  string  `mapstructure:"name" json:"name" toml:"name" yaml:"name"`
	Bins  int     `mapstructure:"bins" json:"bins" toml:"bins" yaml:"bins"`
	Min   float64 `mapstructure:"min" json:"min" toml:"min" yaml:"min"`
	Max   float64 `mapstructure:"max" json:"max" toml:"max" yaml:"max"`
	Shift float64 `mapstructure:"shift" json:"shift" toml:"shift" yaml:"shift"`
}

func (a Axis) Validate() error {
	if a.Bins < 1 {
		return errors.NewCutErrorf(errors.ErrCodeBrickConfig, "axis %s needs at least one bin, got %d", a.Name, a.Bins)
	}
	if !(a.Min < a.Max) {
		return errors.NewCutErrorf(errors.ErrCodeBrickConfig, "axis %s min %v must be below max %v", a.Name, a.Min, a.Max)
	}
	return nil
}

func (a Axis) Width() float64 {
	return (a.Max - a.Min) / float64(a.Bins)
}

// Edges 返回 Bins+1 个严格递增的边界
func (a Axis) Edges() []float64 {
	width := a.Width()
	offset := a.Min - a.Shift*width
	edges := make([]float64, a.Bins+1)
	for i := range edges {
		edges[i] = offset + float64(i)*width
	}
	// 最后一个边界直接计算，避免累积舍入误差
	edges[a.Bins] = a.Max - a.Shift*width
	return edges
}

// Bin 返回 v 所在箱的下标，不在 [首边界, 末边界) 内时返回 -1
func (a Axis) Bin(v float64) int {
	edges := a.Edges()
	if v < edges[0] || v >= edges[a.Bins] {
		return -1
	}
	idx := int(math.Floor((v - edges[0]) / a.Width()))
	if idx >= a.Bins {
		idx = a.Bins - 1
	}
	// 边界处的舍入可能偏差一个箱
	for idx > 0 && v < edges[idx] {
		idx--
	}
	for idx < a.Bins-1 && v >= edges[idx+1] {
		idx++
	}
	return idx
}

// MultiRange 按分箱构造互斥的多区间砖块
func (a Axis) MultiRange() (*brick.MultiRange[float64], error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return brick.NewMultiRange(a.Name, a.Edges(), brick.Exclusive)
}

// Spec 把坐标轴描述为名为 <axis>_bins 的切割，唯一的默认砖块 bins 覆盖所有箱，
// 范围内的记录恰好置位一个状态位
func (a Axis) Spec() (*cutspec.Spec, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	spec := &cutspec.Spec{
		Name: a.Name + "_bins",
		Defaults: []cutspec.BrickSpec{
			{Name: "bins", Kind: cutspec.KindMultiRange, Params: a.Edges()},
		},
	}
	return spec, spec.Validate()
}

// DptDpt 两粒子关联分析的接受度分箱
type DptDpt struct {
	ZVtx Axis `mapstructure:"zvtx" json:"zvtx" toml:"zvtx" yaml:"zvtx"`
	PT   Axis `mapstructure:"pt" json:"pt" toml:"pt" yaml:"pt"`
	Eta  Axis `mapstructure:"eta" json:"eta" toml:"eta" yaml:"eta"`
	Phi  Axis `mapstructure:"phi" json:"phi" toml:"phi" yaml:"phi"`
}

func DefaultDptDpt() DptDpt {
	return DptDpt{
		ZVtx: Axis{Name: "zvtx", Bins: 28, Min: -7.0, Max: 7.0},
		PT:   Axis{Name: "pt", Bins: 18, Min: 0.2, Max: 2.0},
		Eta:  Axis{Name: "eta", Bins: 16, Min: -0.8, Max: 0.8},
		Phi:  Axis{Name: "phi", Bins: 72, Min: 0, Max: 2 * math.Pi, Shift: 0.5},
	}
}

// ValidateAndSetDefault 未配置的坐标轴使用默认分箱
func (d *DptDpt) ValidateAndSetDefault() error {
	def := DefaultDptDpt()
	for _, pair := range []struct {
		axis *Axis
		def  Axis
	}{{&d.ZVtx, def.ZVtx}, {&d.PT, def.PT}, {&d.Eta, def.Eta}, {&d.Phi, def.Phi}} {
		if pair.axis.Bins == 0 && pair.axis.Min == 0 && pair.axis.Max == 0 {
			*pair.axis = pair.def
		}
		if pair.axis.Name == "" {
			pair.axis.Name = pair.def.Name
		}
		if err := pair.axis.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (d DptDpt) Axes() []Axis {
	return []Axis{d.ZVtx, d.PT, d.Eta, d.Phi}
}

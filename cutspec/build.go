package cutspec

import (
	"math"

	"github.com/xuenqlve/cutbrick/brick"
	"github.com/xuenqlve/cutbrick/errors"
)

// Build 根据 Spec 构造 VariationSet。整数类型的参数必须能被精确表示，
// 浮点类型按 V 的精度取整，取整后区间和分箱边界仍须严格递增
func Build[V brick.Value](spec *Spec) (*brick.VariationSet[V], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	set := brick.NewVariationSet[V](spec.Name, spec.AllowMultipleDefaults)
	for _, bs := range spec.Defaults {
		b, err := BuildBrick[V](bs)
		if err != nil {
			return nil, errors.Annotatef(err, "cut %s", spec.Name)
		}
		if !set.AddDefaultBrick(b) {
			return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "cut %s: default brick %s rejected", spec.Name, bs.Name)
		}
	}
	for _, bs := range spec.Variations {
		b, err := BuildBrick[V](bs)
		if err != nil {
			return nil, errors.Annotatef(err, "cut %s", spec.Name)
		}
		if !set.AddVariationBrick(b) {
			return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "cut %s: variation brick %s rejected", spec.Name, bs.Name)
		}
	}
	return set, nil
}

// BuildBrick 构造单个砖块
func BuildBrick[V brick.Value](bs BrickSpec) (brick.Brick[V], error) {
	if err := bs.Validate(); err != nil {
		return nil, err
	}
	params := make([]V, len(bs.Params))
	for i, p := range bs.Params {
		v, err := convert[V](p)
		if err != nil {
			return nil, errors.Annotatef(err, "brick %s parameter %d", bs.Name, i)
		}
		params[i] = v
	}
	if (bs.Kind == KindRange || bs.Kind == KindExternalRange) && !(params[0] < params[1]) {
		return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild,
			"brick %s: low %v must be below high %v as %T", bs.Name, params[0], params[1], params[0])
	}
	switch bs.Kind {
	case KindLimit:
		return brick.NewLimit(bs.Name, params[0]), nil
	case KindThreshold:
		return brick.NewThreshold(bs.Name, params[0]), nil
	case KindRange:
		return brick.NewRange(bs.Name, params[0], params[1]), nil
	case KindExternalRange:
		return brick.NewExternalRange(bs.Name, params[0], params[1]), nil
	case KindMultiRange, KindMultiRangeCumulative:
		mode := brick.Exclusive
		if bs.Kind == KindMultiRangeCumulative {
			mode = brick.Cumulative
		}
		b, err := brick.NewMultiRange(bs.Name, params, mode)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick %s: unknown kind %q", bs.Name, bs.Kind)
}

func convert[V brick.Value](p float64) (V, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return 0, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "value %v is not finite", p)
	}
	var zero V
	v := V(p)
	if isFloat[V]() {
		if math.IsInf(float64(v), 0) {
			return zero, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "value %v overflows %T", p, zero)
		}
		return v, nil
	}
	if float64(v) != p {
		return zero, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "value %v not representable as %T", p, zero)
	}
	return v, nil
}

// isFloat 整数类型把 0.5 截断为 0
func isFloat[V brick.Value]() bool {
	half := 0.5
	return V(half) != 0
}

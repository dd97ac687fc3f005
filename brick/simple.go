package brick

// Limit 上限砖块：value < limit 时激活
type Limit[V Value] struct {
	base
	limit V
}

func NewLimit[V Value](name string, limit V) *Limit[V] {
	return &Limit[V]{base: newBase(name), limit: limit}
}

func (b *Limit[V]) Filter(value V) bool {
	return b.set(value < b.limit)
}

func (b *Limit[V]) Length() int { return 1 }

func (b *Limit[V]) Status() []bool { return []bool{b.IsActive()} }

func (b *Limit[V]) Limit() V { return b.limit }

// Threshold 阈值砖块：threshold <= value 时激活
type Threshold[V Value] struct {
	base
	threshold V
}

func NewThreshold[V Value](name string, threshold V) *Threshold[V] {
	return &Threshold[V]{base: newBase(name), threshold: threshold}
}

func (b *Threshold[V]) Filter(value V) bool {
	return b.set(b.threshold <= value)
}

func (b *Threshold[V]) Length() int { return 1 }

func (b *Threshold[V]) Status() []bool { return []bool{b.IsActive()} }

func (b *Threshold[V]) Threshold() V { return b.threshold }

// Range 区间砖块：low <= value < high 时激活。
// 半开区间保证相邻区间在共享边界上不会重复计数。
type Range[V Value] struct {
	base
	low  V
	high V
}

// NewRange 调用方保证 low <= high
func NewRange[V Value](name string, low, high V) *Range[V] {
	return &Range[V]{base: newBase(name), low: low, high: high}
}

func (b *Range[V]) Filter(value V) bool {
	return b.set(b.low <= value && value < b.high)
}

func (b *Range[V]) Length() int { return 1 }

func (b *Range[V]) Status() []bool { return []bool{b.IsActive()} }

func (b *Range[V]) Bounds() (V, V) { return b.low, b.high }

// ExternalRange 区间外砖块：value < low 或 high <= value 时激活，
// 与相同参数的 Range 严格互补。
type ExternalRange[V Value] struct {
	base
	low  V
	high V
}

func NewExternalRange[V Value](name string, low, high V) *ExternalRange[V] {
	return &ExternalRange[V]{base: newBase(name), low: low, high: high}
}

func (b *ExternalRange[V]) Filter(value V) bool {
	return b.set(value < b.low || b.high <= value)
}

func (b *ExternalRange[V]) Length() int { return 1 }

func (b *ExternalRange[V]) Status() []bool { return []bool{b.IsActive()} }

func (b *ExternalRange[V]) Bounds() (V, V) { return b.low, b.high }

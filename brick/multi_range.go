package brick

import (
	"github.com/xuenqlve/cutbrick/compare"
	"github.com/xuenqlve/cutbrick/errors"
)

// MultiRangeMode 子区间的激活规则
type MultiRangeMode int

const (
	// Exclusive 子区间互斥：edges[i] <= value < edges[i+1]
	Exclusive MultiRangeMode = iota
	// Cumulative 兼容历史输出：value < edges[i+1]，
	// 值所在子区间及其后的所有子区间都会被标记
	Cumulative
)

func (m MultiRangeMode) String() string {
	if m == Cumulative {
		return "cumulative"
	}
	return "exclusive"
}

// MultiRange 多区间选择砖块。n+1 个严格递增的边界定义 n 个子区间，
// 值落在 [edges[0], edges[n]) 内时砖块激活，每个子区间单独记录激活状态。
type MultiRange[V Value] struct {
	base
	mode      MultiRangeMode
	edges     []V
	subActive []bool
}

func NewMultiRange[V Value](name string, edges []V, mode MultiRangeMode) (*MultiRange[V], error) {
	if len(edges) < 2 {
		return nil, errors.NewCutErrorf(errors.ErrCodeBrickConfig,
			"multi range %s needs at least 2 edges, got %d", name, len(edges))
	}
	if idx, ok := compare.StrictlyIncreasing(edges); !ok {
		return nil, errors.NewCutErrorf(errors.ErrCodeBrickConfig,
			"multi range %s edges not strictly increasing at index %d: %v <= %v", name, idx, edges[idx], edges[idx-1])
	}
	if mode != Exclusive && mode != Cumulative {
		return nil, errors.NewCutErrorf(errors.ErrCodeBrickConfig, "multi range %s unknown mode %d", name, mode)
	}
	b := &MultiRange[V]{
		base:      newBase(name),
		mode:      mode,
		edges:     make([]V, len(edges)),
		subActive: make([]bool, len(edges)-1),
	}
	copy(b.edges, edges)
	return b, nil
}

func (b *MultiRange[V]) Filter(value V) bool {
	if b.edges[0] <= value && value < b.edges[len(b.edges)-1] {
		for i := range b.subActive {
			if b.mode == Cumulative {
				b.subActive[i] = value < b.edges[i+1]
			} else {
				b.subActive[i] = b.edges[i] <= value && value < b.edges[i+1]
			}
		}
		return b.set(true)
	}
	for i := range b.subActive {
		b.subActive[i] = false
	}
	return b.set(false)
}

// Length 子区间数量，与当前激活了多少个子区间无关
func (b *MultiRange[V]) Length() int {
	return len(b.subActive)
}

func (b *MultiRange[V]) Status() []bool {
	status := make([]bool, len(b.subActive))
	copy(status, b.subActive)
	return status
}

// SubActive 第 i 个子区间在最近一次 Filter 中是否激活
func (b *MultiRange[V]) SubActive(i int) bool {
	if i < 0 || i >= len(b.subActive) {
		return false
	}
	return b.subActive[i]
}

func (b *MultiRange[V]) Edges() []V {
	edges := make([]V, len(b.edges))
	copy(edges, b.edges)
	return edges
}

func (b *MultiRange[V]) Mode() MultiRangeMode {
	return b.mode
}

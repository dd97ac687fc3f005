package brick

import "github.com/xuenqlve/cutbrick/compare"

// Value 砖块可以过滤的标量类型
type Value interface {
	compare.Number
}

// State 最近一次 Filter 的结果
type State int

const (
	Passive State = iota // 传入的值不满足砖块条件
	Active               // 传入的值满足砖块条件
)

func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "passive"
}

// Mode 砖块是否参与当前的选择链
type Mode int

const (
	Unselected Mode = iota // 砖块状态不参与选择
	Selected               // 砖块状态参与选择
)

func (m Mode) String() string {
	if m == Selected {
		return "selected"
	}
	return "unselected"
}

// Brick 选择切割的基本单元：对单个数值的有状态判定。
// 接口中的非导出方法使实现集合封闭在本包内。
type Brick[V Value] interface {
	// Name 在同级集合中唯一的名字
	Name() string
	// Filter 过滤传入的值，满足条件时砖块变为 Active 并返回 true
	Filter(value V) bool
	// Length 编码砖块状态所需的布尔位数
	Length() int
	IsActive() bool
	IsArmed() bool
	// Status 返回 Length() 个布尔值，即砖块编码后的状态
	Status() []bool

	arm(doit bool)
}

type base struct {
	name  string
	state State
	mode  Mode
}

func newBase(name string) base {
	return base{name: name, state: Passive, mode: Unselected}
}

func (b *base) Name() string {
	return b.name
}

func (b *base) IsActive() bool {
	return b.state == Active
}

func (b *base) IsArmed() bool {
	return b.mode == Selected
}

// State 返回最近一次 Filter 的结果
func (b *base) State() State {
	return b.state
}

func (b *base) arm(doit bool) {
	if doit {
		b.mode = Selected
	} else {
		b.mode = Unselected
	}
}

func (b *base) set(active bool) bool {
	if active {
		b.state = Active
	} else {
		b.state = Passive
	}
	return active
}

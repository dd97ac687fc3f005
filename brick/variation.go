package brick

// VariationSet 带变体的切割：一个或多个默认砖块（名义切割）加上
// 任意数量的变体砖块（系统误差研究用）。集合独占加入的砖块。
// VariationSet 本身也是 Brick，可以嵌套。
type VariationSet[V Value] struct {
	base
	allowMultipleDefaults bool

	defaults       []Brick[V]
	variations     []Brick[V]
	defaultIndex   map[string]int
	variationIndex map[string]int
}

func NewVariationSet[V Value](name string, allowMultipleDefaults bool) *VariationSet[V] {
	return &VariationSet[V]{
		base:                  newBase(name),
		allowMultipleDefaults: allowMultipleDefaults,
		defaultIndex:          make(map[string]int),
		variationIndex:        make(map[string]int),
	}
}

// AddDefaultBrick 加入默认砖块。
// 允许多个默认值时只要求名字唯一；否则要求之前没有默认砖块。
// 加入失败返回 false，砖块所有权不转移。
func (s *VariationSet[V]) AddDefaultBrick(b Brick[V]) bool {
	if b == nil {
		return false
	}
	if s.allowMultipleDefaults {
		if _, ok := s.defaultIndex[b.Name()]; ok {
			return false
		}
	} else if len(s.defaults) > 0 {
		return false
	}
	s.defaults = append(s.defaults, b)
	s.defaultIndex[b.Name()] = len(s.defaults) - 1
	return true
}

// AddVariationBrick 加入变体砖块，要求名字在变体中唯一
func (s *VariationSet[V]) AddVariationBrick(b Brick[V]) bool {
	if b == nil {
		return false
	}
	if _, ok := s.variationIndex[b.Name()]; ok {
		return false
	}
	s.variations = append(s.variations, b)
	s.variationIndex[b.Name()] = len(s.variations) - 1
	return true
}

// Filter 依次过滤所有默认砖块和变体砖块，不短路，
// 任一砖块激活即返回 true
func (s *VariationSet[V]) Filter(value V) bool {
	active := false
	for _, b := range s.defaults {
		if b.Filter(value) {
			active = true
		}
	}
	for _, b := range s.variations {
		if b.Filter(value) {
			active = true
		}
	}
	return s.set(active)
}

// Length 所有子砖块长度之和。
// 只有一个默认砖块且没有变体时仍然返回 1，是否特殊处理由调用方决定。
func (s *VariationSet[V]) Length() int {
	length := 0
	for _, b := range s.defaults {
		length += b.Length()
	}
	for _, b := range s.variations {
		length += b.Length()
	}
	return length
}

func (s *VariationSet[V]) Status() []bool {
	status := make([]bool, 0, s.Length())
	for _, b := range s.defaults {
		status = append(status, b.Status()...)
	}
	for _, b := range s.variations {
		status = append(status, b.Status()...)
	}
	return status
}

func (s *VariationSet[V]) AllowMultipleDefaults() bool {
	return s.allowMultipleDefaults
}

func (s *VariationSet[V]) Defaults() []Brick[V] {
	return append([]Brick[V](nil), s.defaults...)
}

func (s *VariationSet[V]) Variations() []Brick[V] {
	return append([]Brick[V](nil), s.variations...)
}

// Brick 按名字查找，默认砖块优先
func (s *VariationSet[V]) Brick(name string) (Brick[V], bool) {
	if i, ok := s.defaultIndex[name]; ok {
		return s.defaults[i], true
	}
	if i, ok := s.variationIndex[name]; ok {
		return s.variations[i], true
	}
	return nil, false
}

// ArmDefaults 选择名义配置：默认砖块参与选择，变体砖块不参与
func (s *VariationSet[V]) ArmDefaults() {
	for _, b := range s.defaults {
		b.arm(true)
	}
	for _, b := range s.variations {
		b.arm(false)
	}
	s.arm(true)
}

// ArmVariation 选择一个变体配置，只有该变体参与选择
func (s *VariationSet[V]) ArmVariation(name string) bool {
	i, ok := s.variationIndex[name]
	if !ok {
		return false
	}
	s.Disarm()
	s.variations[i].arm(true)
	s.arm(true)
	return true
}

// Disarm 所有砖块退出选择链
func (s *VariationSet[V]) Disarm() {
	for _, b := range s.defaults {
		b.arm(false)
	}
	for _, b := range s.variations {
		b.arm(false)
	}
	s.arm(false)
}

// Selected 最近一次 Filter 后，是否有参与选择的砖块处于激活状态
func (s *VariationSet[V]) Selected() bool {
	for _, b := range s.defaults {
		if b.IsArmed() && b.IsActive() {
			return true
		}
	}
	for _, b := range s.variations {
		if b.IsArmed() && b.IsActive() {
			return true
		}
	}
	return false
}

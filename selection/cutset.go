package selection

import (
	"strings"

	"github.com/bits-and-blooms/bitset"

	"github.com/xuenqlve/cutbrick/brick"
	"github.com/xuenqlve/cutbrick/cutspec"
	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/log"
	"github.com/xuenqlve/cutbrick/source"
)

// QALevel 质量检查级别
type QALevel int

const (
	QANone QALevel = iota
	QALight
	QAHeavy
)

var qaLevelNames = map[string]QALevel{
	"none":  QANone,
	"light": QALight,
	"heavy": QAHeavy,
}

func (q QALevel) String() string {
	switch q {
	case QANone:
		return "none"
	case QALight:
		return "light"
	case QAHeavy:
		return "heavy"
	}
	return "unknown"
}

func ParseQALevel(s string) (QALevel, error) {
	if s == "" {
		return QANone, nil
	}
	q, ok := qaLevelNames[strings.ToLower(s)]
	if !ok {
		return QANone, errors.Errorf("unknown qa level %s", s)
	}
	return q, nil
}

// CutConfig 作用在记录某个字段上的切割
type CutConfig struct {
	Field          string `mapstructure:"field" json:"field" toml:"field" yaml:"field" validate:"required"`
	cutspec.Config `mapstructure:",squash" yaml:",inline"`
}

// Cut 一个命名切割：字段名加上带变体的砖块集合
type Cut struct {
	Field  string
	Spec   *cutspec.Spec
	Set    *brick.VariationSet[float64]
	offset int
}

func (c *Cut) Name() string {
	return c.Set.Name()
}

// Offset 切割在状态向量中的起始位置
func (c *Cut) Offset() int {
	return c.offset
}

// Passed 最近一次过滤的结果。集合处于选择链中时以选中的配置为准
func (c *Cut) Passed() bool {
	if c.Set.IsArmed() {
		return c.Set.Selected()
	}
	return c.Set.IsActive()
}

// CutSet 有序的切割集合，记录每个切割是否启用、是否通过，
// 以及所有砖块拼接起来的状态向量
type CutSet struct {
	name   string
	qa     QALevel
	cuts   []*Cut
	index  map[string]int
	length int

	enabled   *bitset.BitSet
	activated *bitset.BitSet
	status    *bitset.BitSet
}

func NewCutSet(name string) *CutSet {
	return &CutSet{
		name:      name,
		index:     map[string]int{},
		enabled:   bitset.New(0),
		activated: bitset.New(0),
		status:    bitset.New(0),
	}
}

func (s *CutSet) Name() string {
	return s.name
}

func (s *CutSet) QALevel() QALevel {
	return s.qa
}

func (s *CutSet) SetQALevel(q QALevel) {
	s.qa = q
}

// Add 按 spec 构建切割并加入集合，新切割默认启用并选择名义配置
func (s *CutSet) Add(field string, spec *cutspec.Spec) (*Cut, error) {
	if field == "" {
		return nil, errors.NewCutErrorMessage(errors.ErrCodeSpecBuild, "cut field is empty")
	}
	if spec == nil {
		return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "cut on field %s has no spec", field)
	}
	if _, ok := s.index[spec.Name]; ok {
		return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "duplicate cut %s in %s", spec.Name, s.name)
	}
	set, err := cutspec.Build[float64](spec)
	if err != nil {
		return nil, err
	}
	set.ArmDefaults()
	cut := &Cut{Field: field, Spec: spec.Clone(), Set: set, offset: s.length}
	s.cuts = append(s.cuts, cut)
	i := len(s.cuts) - 1
	s.index[spec.Name] = i
	s.length += set.Length()
	s.enabled.Set(uint(i))
	s.activated.Clear(uint(i))
	s.status = bitset.New(uint(s.length))
	return cut, nil
}

// AddConfig 按配置加入切割
func (s *CutSet) AddConfig(c CutConfig) (*Cut, error) {
	if err := validate.Struct(&c); err != nil {
		return nil, errors.NewCutError(errors.ErrCodeSpecBuild, errors.Annotate(err, "invalid cut config"))
	}
	spec, err := c.Config.Spec()
	if err != nil {
		return nil, err
	}
	return s.Add(c.Field, spec)
}

func (s *CutSet) Cut(name string) (*Cut, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.cuts[i], true
}

func (s *CutSet) Cuts() []*Cut {
	return append([]*Cut(nil), s.cuts...)
}

// Length 状态向量总长度
func (s *CutSet) Length() int {
	return s.length
}

// Enable 启用或停用切割，停用的切割不参与过滤
func (s *CutSet) Enable(name string, on bool) bool {
	i, ok := s.index[name]
	if !ok {
		return false
	}
	s.enabled.SetTo(uint(i), on)
	return true
}

func (s *CutSet) IsEnabled(name string) bool {
	i, ok := s.index[name]
	return ok && s.enabled.Test(uint(i))
}

// ArmDefaults 所有切割回到名义配置
func (s *CutSet) ArmDefaults() {
	for _, c := range s.cuts {
		c.Set.ArmDefaults()
	}
}

// ArmVariation 切割 cut 改用变体 variation，其余切割不变
func (s *CutSet) ArmVariation(cut, variation string) bool {
	c, ok := s.Cut(cut)
	if !ok {
		return false
	}
	return c.Set.ArmVariation(variation)
}

// Filter 用所有启用的切割过滤记录，全部通过才返回 true。
// 字段缺失或无法转换为数值时返回错误，此时掩码和状态向量保持上一次的内容。
func (s *CutSet) Filter(rec source.Record) (bool, error) {
	values := make([]float64, len(s.cuts))
	for i, c := range s.cuts {
		if !s.enabled.Test(uint(i)) {
			continue
		}
		v, err := source.Field(rec, c.Field)
		if err != nil {
			return false, errors.Annotatef(err, "cut %s", c.Name())
		}
		values[i] = v
	}

	accepted := true
	s.status.ClearAll()
	for i, c := range s.cuts {
		if !s.enabled.Test(uint(i)) {
			s.activated.Clear(uint(i))
			continue
		}
		c.Set.Filter(values[i])
		passed := c.Passed()
		s.activated.SetTo(uint(i), passed)
		if !passed {
			accepted = false
		}
		for j, on := range c.Set.Status() {
			if on {
				s.status.Set(uint(c.offset + j))
			}
		}
	}
	return accepted, nil
}

func (s *CutSet) EnabledMask() *bitset.BitSet {
	return s.enabled.Clone()
}

func (s *CutSet) ActivatedMask() *bitset.BitSet {
	return s.activated.Clone()
}

// StatusVector 最近一次过滤后所有砖块的状态，长度为 Length()
func (s *CutSet) StatusVector() *bitset.BitSet {
	return s.status.Clone()
}

// PrintCutsWithValues 打印所有切割及其配置
func (s *CutSet) PrintCutsWithValues() {
	log.Infof("cut set %s, qa level %s, %d cuts, status length %d", s.name, s.qa, len(s.cuts), s.length)
	for i, c := range s.cuts {
		log.Infof("  [%d] %s on %s enabled=%v offset=%d length=%d: %s",
			i, c.Name(), c.Field, s.enabled.Test(uint(i)), c.offset, c.Set.Length(), c.Spec)
	}
}

package cutspec

import (
	"strconv"
	"strings"

	"github.com/xuenqlve/cutbrick/compare"
	"github.com/xuenqlve/cutbrick/errors"
)

// Kind 砖块类型
type Kind string

const (
	KindLimit                Kind = "lim"
	KindThreshold            Kind = "th"
	KindRange                Kind = "rg"
	KindExternalRange        Kind = "xrg"
	KindMultiRange           Kind = "mrg"
	KindMultiRangeCumulative Kind = "mrgc"
)

var kindAliases = map[string]Kind{
	"lim":       KindLimit,
	"limit":     KindLimit,
	"th":        KindThreshold,
	"threshold": KindThreshold,
	"rg":        KindRange,
	"range":     KindRange,
	"xrg":       KindExternalRange,
	"extrange":  KindExternalRange,
	"mrg":       KindMultiRange,
	"mrange":    KindMultiRange,
	"mrgc":      KindMultiRangeCumulative,
	"mrangec":   KindMultiRangeCumulative,
}

// ParseKind 解析砖块类型，支持简写和全称，不区分大小写
func ParseKind(s string) (Kind, error) {
	if k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return k, nil
	}
	return "", errors.NewCutErrorf(errors.ErrCodeSpecParse, "unknown brick kind %q", s)
}

// BrickSpec 单个砖块的描述
type BrickSpec struct {
	Name   string
	Kind   Kind
	Params []float64
}

func (b BrickSpec) Validate() error {
	if b.Name == "" {
		return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick of kind %s has no name", b.Kind)
	}
	switch b.Kind {
	case KindLimit, KindThreshold:
		if len(b.Params) != 1 {
			return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick %s: %s takes 1 parameter, got %d", b.Name, b.Kind, len(b.Params))
		}
	case KindRange, KindExternalRange:
		if len(b.Params) != 2 {
			return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick %s: %s takes 2 parameters, got %d", b.Name, b.Kind, len(b.Params))
		}
		if !(b.Params[0] < b.Params[1]) {
			return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick %s: low %v must be below high %v", b.Name, b.Params[0], b.Params[1])
		}
	case KindMultiRange, KindMultiRangeCumulative:
		if len(b.Params) < 2 {
			return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick %s: %s needs at least 2 edges, got %d", b.Name, b.Kind, len(b.Params))
		}
		if idx, ok := compare.StrictlyIncreasing(b.Params); !ok {
			return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick %s: edges not strictly increasing at index %d", b.Name, idx)
		}
	default:
		return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "brick %s: unknown kind %q", b.Name, b.Kind)
	}
	return nil
}

func (b BrickSpec) String() string {
	var sb strings.Builder
	sb.WriteString(b.Name)
	sb.WriteByte('=')
	sb.WriteString(string(b.Kind))
	sb.WriteByte('(')
	for i, p := range b.Params {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(p, 'g', -1, 64))
	}
	sb.WriteByte(')')
	return sb.String()
}

// Spec 一个带变体的切割：名字、默认砖块列表和变体砖块列表
type Spec struct {
	Name                  string
	AllowMultipleDefaults bool
	Defaults              []BrickSpec
	Variations            []BrickSpec
}

// Validate 检查砖块参数以及名字唯一性
func (s *Spec) Validate() error {
	if s.Name == "" {
		return errors.ErrEmptyCutName
	}
	if len(s.Defaults) == 0 {
		return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "cut %s has no default brick", s.Name)
	}
	if !s.AllowMultipleDefaults && len(s.Defaults) > 1 {
		return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "cut %s allows a single default brick, got %d", s.Name, len(s.Defaults))
	}
	if err := validateList(s.Name, "default", s.Defaults); err != nil {
		return err
	}
	return validateList(s.Name, "variation", s.Variations)
}

func validateList(cut, list string, bricks []BrickSpec) error {
	seen := make(map[string]struct{}, len(bricks))
	for _, b := range bricks {
		if err := b.Validate(); err != nil {
			return errors.Annotatef(err, "cut %s", cut)
		}
		if _, ok := seen[b.Name]; ok {
			return errors.NewCutErrorf(errors.ErrCodeSpecBuild, "cut %s: duplicate %s brick %s", cut, list, b.Name)
		}
		seen[b.Name] = struct{}{}
	}
	return nil
}

// String 按切割表达式语法输出
func (s *Spec) String() string {
	var sb strings.Builder
	sb.WriteString(s.Name)
	sb.WriteByte('{')
	writeList(&sb, s.Defaults)
	if len(s.Variations) > 0 {
		sb.WriteByte(';')
		writeList(&sb, s.Variations)
	}
	sb.WriteByte('}')
	return sb.String()
}

func writeList(sb *strings.Builder, bricks []BrickSpec) {
	for i, b := range bricks {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(b.String())
	}
}

// Clone 深拷贝，缓存中的 Spec 不会被调用方修改
func (s *Spec) Clone() *Spec {
	c := &Spec{
		Name:                  s.Name,
		AllowMultipleDefaults: s.AllowMultipleDefaults,
		Defaults:              cloneList(s.Defaults),
		Variations:            cloneList(s.Variations),
	}
	return c
}

func cloneList(bricks []BrickSpec) []BrickSpec {
	if bricks == nil {
		return nil
	}
	out := make([]BrickSpec, len(bricks))
	for i, b := range bricks {
		out[i] = BrickSpec{Name: b.Name, Kind: b.Kind, Params: append([]float64(nil), b.Params...)}
	}
	return out
}

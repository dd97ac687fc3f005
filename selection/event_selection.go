package selection

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/xuenqlve/cutbrick/brick"
	"github.com/xuenqlve/cutbrick/cutspec"
	"github.com/xuenqlve/cutbrick/errors"
)

var validate = validator.New()

const (
	VertexField  = "zvtx"
	TriggerField = "trigger"
)

// EventSelection 事例选择配置。整数字段为 nil 表示未配置，0 是合法取值
type EventSelection struct {
	OfflineTrigger    *int        `mapstructure:"offline-trigger" json:"offline-trigger" toml:"offline-trigger" yaml:"offline-trigger" validate:"omitnil,gte=0"`
	CentMultEstimator string      `mapstructure:"cent-mult-estimator" json:"cent-mult-estimator" toml:"cent-mult-estimator" yaml:"cent-mult-estimator"`
	RemovePileUpCode  *int        `mapstructure:"remove-pileup-code" json:"remove-pileup-code" toml:"remove-pileup-code" yaml:"remove-pileup-code" validate:"omitnil,gte=0"`
	RemovePileUpFn    string      `mapstructure:"remove-pileup-fn" json:"remove-pileup-fn" toml:"remove-pileup-fn" yaml:"remove-pileup-fn"`
	VertexZ           [][]float64 `mapstructure:"vertex-z" json:"vertex-z" toml:"vertex-z" yaml:"vertex-z" validate:"dive,len=2"`
}

func DefaultEventSelection() EventSelection {
	return EventSelection{
		OfflineTrigger:    intPtr(1),
		CentMultEstimator: "V0M",
		RemovePileUpCode:  intPtr(1),
		RemovePileUpFn:    "-2500+5.0*x",
		VertexZ:           [][]float64{{-7, 7}, {-3, 3}, {-10, 10}},
	}
}

func (e *EventSelection) ValidateAndSetDefault() error {
	def := DefaultEventSelection()
	if e.OfflineTrigger == nil {
		e.OfflineTrigger = def.OfflineTrigger
	}
	if e.CentMultEstimator == "" {
		e.CentMultEstimator = def.CentMultEstimator
	}
	if e.RemovePileUpCode == nil {
		e.RemovePileUpCode = def.RemovePileUpCode
	}
	if e.RemovePileUpFn == "" {
		e.RemovePileUpFn = def.RemovePileUpFn
	}
	if len(e.VertexZ) == 0 {
		e.VertexZ = def.VertexZ
	}
	if err := validate.Struct(e); err != nil {
		return errors.Annotate(err, "invalid event selection")
	}
	return nil
}

func intPtr(v int) *int {
	return &v
}

// Trigger 离线触发码，未配置时取默认值
func (e EventSelection) Trigger() int {
	if e.OfflineTrigger == nil {
		return *DefaultEventSelection().OfflineTrigger
	}
	return *e.OfflineTrigger
}

// PileUpCode 堆积剔除码，未配置时取默认值
func (e EventSelection) PileUpCode() int {
	if e.RemovePileUpCode == nil {
		return *DefaultEventSelection().RemovePileUpCode
	}
	return *e.RemovePileUpCode
}

// VertexSpec 顶点 z 窗口：第一个窗口为名义切割，其余为变体
func (e EventSelection) VertexSpec() (*cutspec.Spec, error) {
	if len(e.VertexZ) == 0 {
		return nil, errors.NewCutErrorMessage(errors.ErrCodeSpecBuild, "no vertex z window")
	}
	spec := &cutspec.Spec{Name: VertexField}
	for i, w := range e.VertexZ {
		if len(w) != 2 {
			return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "vertex z window %d needs 2 values, got %d", i, len(w))
		}
		bs := cutspec.BrickSpec{
			Name:   fmt.Sprintf("%s%d", VertexField, i),
			Kind:   cutspec.KindRange,
			Params: []float64{w[0], w[1]},
		}
		if i == 0 {
			spec.Defaults = append(spec.Defaults, bs)
		} else {
			spec.Variations = append(spec.Variations, bs)
		}
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

// VertexCut 顶点 z 切割
func (e EventSelection) VertexCut() (*brick.VariationSet[float64], error) {
	spec, err := e.VertexSpec()
	if err != nil {
		return nil, err
	}
	return cutspec.Build[float64](spec)
}

// TriggerSpec 离线触发条件，触发字段必须等于 OfflineTrigger
func (e EventSelection) TriggerSpec() *cutspec.Spec {
	trigger := e.Trigger()
	t := float64(trigger)
	return &cutspec.Spec{
		Name: TriggerField,
		Defaults: []cutspec.BrickSpec{{
			Name:   fmt.Sprintf("offline%d", trigger),
			Kind:   cutspec.KindRange,
			Params: []float64{t, t + 1},
		}},
	}
}

// Install 把触发和顶点切割加入切割集合
func (e EventSelection) Install(set *CutSet) error {
	if _, err := set.Add(TriggerField, e.TriggerSpec()); err != nil {
		return err
	}
	vertex, err := e.VertexSpec()
	if err != nil {
		return err
	}
	_, err = set.Add(VertexField, vertex)
	return err
}

// SimpleInclusiveCut 简单的包含式切割参数
type SimpleInclusiveCut struct {
	Name string  `mapstructure:"name" json:"name" toml:"name" yaml:"name"`
	X    int     `mapstructure:"x" json:"x" toml:"x" yaml:"x"`
	Y    float32 `mapstructure:"y" json:"y" toml:"y" yaml:"y"`
}

package cutspec

import (
	"github.com/go-playground/validator/v10"

	"github.com/xuenqlve/cutbrick/errors"
)

var validate = validator.New()

// Config 配置文件中的切割描述，Expr 与显式列表二选一
type Config struct {
	Name                  string        `mapstructure:"name" json:"name" toml:"name" yaml:"name" validate:"required_without=Expr"`
	Expr                  string        `mapstructure:"expr" json:"expr" toml:"expr" yaml:"expr" validate:"required_without=Name"`
	AllowMultipleDefaults bool          `mapstructure:"allow-multiple-defaults" json:"allow-multiple-defaults" toml:"allow-multiple-defaults" yaml:"allow-multiple-defaults"`
	Defaults              []BrickConfig `mapstructure:"defaults" json:"defaults" toml:"defaults" yaml:"defaults" validate:"required_without=Expr,dive"`
	Variations            []BrickConfig `mapstructure:"variations" json:"variations" toml:"variations" yaml:"variations" validate:"dive"`
}

type BrickConfig struct {
	Name   string    `mapstructure:"name" json:"name" toml:"name" yaml:"name" validate:"required"`
	Kind   string    `mapstructure:"kind" json:"kind" toml:"kind" yaml:"kind" validate:"required,oneof=lim limit th threshold rg range xrg extrange mrg mrange mrgc mrangec"`
	Params []float64 `mapstructure:"params" json:"params" toml:"params" yaml:"params" validate:"required,min=1"`
}

// Spec 校验配置并转换为 Spec。设置了 Expr 时按表达式解析，
// 此时 Name 若非空必须与表达式中的名字一致。
func (c *Config) Spec() (*Spec, error) {
	if err := validate.Struct(c); err != nil {
		return nil, errors.NewCutError(errors.ErrCodeSpecBuild, errors.Annotate(err, "invalid cut config"))
	}
	if c.Expr != "" {
		spec, err := Compile(c.Expr)
		if err != nil {
			return nil, err
		}
		if c.Name != "" && c.Name != spec.Name {
			return nil, errors.NewCutErrorf(errors.ErrCodeSpecBuild, "cut name %s does not match expression name %s", c.Name, spec.Name)
		}
		if c.AllowMultipleDefaults {
			spec.AllowMultipleDefaults = true
		}
		return spec, nil
	}
	spec := &Spec{
		Name:                  c.Name,
		AllowMultipleDefaults: c.AllowMultipleDefaults,
	}
	var err error
	if spec.Defaults, err = brickSpecs(c.Defaults); err != nil {
		return nil, err
	}
	if spec.Variations, err = brickSpecs(c.Variations); err != nil {
		return nil, err
	}
	if err = spec.Validate(); err != nil {
		return nil, err
	}
	return spec, nil
}

func brickSpecs(configs []BrickConfig) ([]BrickSpec, error) {
	if len(configs) == 0 {
		return nil, nil
	}
	out := make([]BrickSpec, 0, len(configs))
	for _, bc := range configs {
		kind, err := ParseKind(bc.Kind)
		if err != nil {
			return nil, err
		}
		out = append(out, BrickSpec{Name: bc.Name, Kind: kind, Params: append([]float64(nil), bc.Params...)})
	}
	return out, nil
}

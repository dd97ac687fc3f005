package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-viper/mapstructure/v2"
	"go.yaml.in/yaml/v3"

	"github.com/xuenqlve/cutbrick/errors"
)

// FromFile 按扩展名读取 toml/json/yaml 配置
func FromFile(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "yml" {
		ext = "yaml"
	}
	cfgData, err := FromString(string(content), ext)
	if err != nil {
		return nil, errors.Annotatef(err, "config file %s", path)
	}
	return cfgData, nil
}

func FromString(content string, contentType string) (map[string]any, error) {
	cfgData := map[string]any{}
	switch contentType {
	case "toml":
		if _, err := toml.Decode(content, &cfgData); err != nil {
			return nil, errors.Trace(err)
		}
	case "json":
		if err := json.Unmarshal([]byte(content), &cfgData); err != nil {
			return nil, errors.Trace(err)
		}
	case "yaml":
		if err := yaml.Unmarshal([]byte(content), &cfgData); err != nil {
			return nil, errors.Trace(err)
		}
	default:
		return nil, errors.Errorf("unknown content type %s", contentType)
	}
	return cfgData, nil
}

// Decode 把通用配置解码到带 mapstructure 标签的结构体
func Decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		ErrorUnused: true,
		Result:      output,
	})
	if err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(decoder.Decode(input))
}

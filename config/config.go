package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"

	"github.com/xuenqlve/cutbrick/binning"
	"github.com/xuenqlve/cutbrick/data_source/clickhouse"
	"github.com/xuenqlve/cutbrick/data_source/kafka"
	"github.com/xuenqlve/cutbrick/data_source/mongodb"
	"github.com/xuenqlve/cutbrick/data_source/mysql"
	"github.com/xuenqlve/cutbrick/data_source/redis"
	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/selection"
)

const (
	SourceMemory     = "memory"
	SourceMySQL      = "mysql"
	SourceClickHouse = "clickhouse"
	SourceMongoDB    = "mongodb"
	SourceKafka      = "kafka"

	SinkMemory = "memory"
	SinkRedis  = "redis"
)

var validate = validator.New()

type Config struct {
	Name           string                    `mapstructure:"name" json:"name" toml:"name" yaml:"name"`
	QALevel        string                    `mapstructure:"qa-level" json:"qa-level" toml:"qa-level" yaml:"qa-level" validate:"omitempty,oneof=none light heavy"`
	Log            LogConfig                 `mapstructure:"log" json:"log" toml:"log" yaml:"log"`
	Period         PeriodConfig              `mapstructure:"period" json:"period" toml:"period" yaml:"period"`
	Source         SourceConfig              `mapstructure:"source" json:"source" toml:"source" yaml:"source"`
	Sink           SinkConfig                `mapstructure:"sink" json:"sink" toml:"sink" yaml:"sink"`
	EventSelection *selection.EventSelection `mapstructure:"event-selection" json:"event-selection" toml:"event-selection" yaml:"event-selection"`
	Binning        *binning.DptDpt           `mapstructure:"binning" json:"binning" toml:"binning" yaml:"binning"`
	Cuts           []selection.CutConfig     `mapstructure:"cuts" json:"cuts" toml:"cuts" yaml:"cuts" validate:"dive"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level" toml:"level" yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Path  string `mapstructure:"path" json:"path" toml:"path" yaml:"path"`
}

type PeriodConfig struct {
	Name string `mapstructure:"name" json:"name" toml:"name" yaml:"name"`
	Run  int    `mapstructure:"run" json:"run" toml:"run" yaml:"run"`
}

type SourceConfig struct {
	Type string `mapstructure:"type" json:"type" toml:"type" yaml:"type" validate:"required,oneof=memory mysql clickhouse mongodb kafka"`
	// 读取后、切割前的记录过滤条件
	Where string `mapstructure:"where" json:"where" toml:"where" yaml:"where"`
	// mysql / clickhouse
	Query string `mapstructure:"query" json:"query" toml:"query" yaml:"query"`
	// mongodb
	Database   string         `mapstructure:"database" json:"database" toml:"database" yaml:"database"`
	Collection string         `mapstructure:"collection" json:"collection" toml:"collection" yaml:"collection"`
	Filter     map[string]any `mapstructure:"filter" json:"filter" toml:"filter" yaml:"filter"`
	// kafka 读取的最大消息数，0 表示一直读
	Limit   int              `mapstructure:"limit" json:"limit" toml:"limit" yaml:"limit" validate:"gte=0"`
	Records []map[string]any `mapstructure:"records" json:"records" toml:"records" yaml:"records"`

	MySQL      *mysql.Config      `mapstructure:"mysql" json:"mysql" toml:"mysql" yaml:"mysql"`
	ClickHouse *clickhouse.Config `mapstructure:"clickhouse" json:"clickhouse" toml:"clickhouse" yaml:"clickhouse"`
	MongoDB    *mongodb.Config    `mapstructure:"mongodb" json:"mongodb" toml:"mongodb" yaml:"mongodb"`
	Kafka      *kafka.Config      `mapstructure:"kafka" json:"kafka" toml:"kafka" yaml:"kafka"`
}

type SinkConfig struct {
	Type string `mapstructure:"type" json:"type" toml:"type" yaml:"type" validate:"omitempty,oneof=memory redis"`
	// 每处理多少条记录写一次计数，0 表示结束时写一次
	FlushEvery int           `mapstructure:"flush-every" json:"flush-every" toml:"flush-every" yaml:"flush-every" validate:"gte=0"`
	Redis      *redis.Config `mapstructure:"redis" json:"redis" toml:"redis" yaml:"redis"`
}

// envOverrides 环境变量覆盖项
type envOverrides struct {
	LogLevel string `env:"CUTBRICK_LOG_LEVEL"`
	LogPath  string `env:"CUTBRICK_LOG_PATH"`
	Source   string `env:"CUTBRICK_SOURCE"`
}

// Load 读取配置文件，应用环境变量覆盖并校验
func Load(path string) (*Config, error) {
	data, err := FromFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadString 从字符串读取配置
func LoadString(content, contentType string) (*Config, error) {
	data, err := FromString(content, contentType)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data map[string]any) (*Config, error) {
	cfg := &Config{}
	if err := Decode(data, cfg); err != nil {
		return nil, errors.Annotate(err, "decode config")
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.ValidateAndSetDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := env.Parse(&o); err != nil {
		return errors.Annotate(err, "parse env")
	}
	if o.LogLevel != "" {
		c.Log.Level = o.LogLevel
	}
	if o.LogPath != "" {
		c.Log.Path = o.LogPath
	}
	if o.Source != "" {
		c.Source.Type = o.Source
	}
	return nil
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Name == "" {
		c.Name = "cutscan"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Sink.Type == "" {
		c.Sink.Type = SinkMemory
	}
	if err := validate.Struct(c); err != nil {
		return errors.Annotate(err, "invalid config")
	}
	if len(c.Cuts) == 0 && c.EventSelection == nil && c.Binning == nil {
		return errors.New("config has no cuts, event selection or binning")
	}
	if err := c.Source.ValidateAndSetDefault(); err != nil {
		return err
	}
	if err := c.Sink.ValidateAndSetDefault(); err != nil {
		return err
	}
	if c.EventSelection != nil {
		if err := c.EventSelection.ValidateAndSetDefault(); err != nil {
			return err
		}
	}
	if c.Binning != nil {
		if err := c.Binning.ValidateAndSetDefault(); err != nil {
			return err
		}
	}
	return nil
}

func (s *SourceConfig) ValidateAndSetDefault() error {
	switch s.Type {
	case SourceMemory:
		return nil
	case SourceMySQL:
		if s.MySQL == nil {
			return errors.New("source type mysql without [source.mysql]")
		}
		if s.Query == "" {
			return errors.New("mysql source needs a query")
		}
		return s.MySQL.ValidateAndSetDefault()
	case SourceClickHouse:
		if s.ClickHouse == nil {
			return errors.New("source type clickhouse without [source.clickhouse]")
		}
		if s.Query == "" {
			return errors.New("clickhouse source needs a query")
		}
		return s.ClickHouse.ValidateAndSetDefault()
	case SourceMongoDB:
		if s.MongoDB == nil {
			return errors.New("source type mongodb without [source.mongodb]")
		}
		if s.Database == "" || s.Collection == "" {
			return errors.New("mongodb source needs database and collection")
		}
		return s.MongoDB.ValidateAndSetDefault()
	case SourceKafka:
		if s.Kafka == nil {
			return errors.New("source type kafka without [source.kafka]")
		}
		return s.Kafka.ValidateAndSetDefault()
	}
	return errors.Errorf("unknown source type %s", s.Type)
}

func (s *SinkConfig) ValidateAndSetDefault() error {
	if s.Type == SinkRedis {
		if s.Redis == nil {
			return errors.New("sink type redis without [sink.redis]")
		}
		return s.Redis.ValidateAndSetDefault()
	}
	return nil
}

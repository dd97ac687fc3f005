package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/xuenqlve/cutbrick/errors"
)

type Config struct {
	Host     string `toml:"host" json:"host" yaml:"host" mapstructure:"host"`
	Port     int    `toml:"port" json:"port" yaml:"port" mapstructure:"port"`
	Username string `toml:"username" json:"username" yaml:"username" mapstructure:"username"`
	Password string `toml:"password" json:"password" yaml:"password" mapstructure:"password"`
	Database string `toml:"database" json:"database" yaml:"database" mapstructure:"database"`
	Location string `toml:"location" json:"location" yaml:"location" mapstructure:"location"`
	// Timeout for establishing connections, aka dial timeout.
	// The value must be a decimal number with a unit suffix ("ms", "s", "m", "h"), such as "30s", "0.5m" or "1m30s".
	Timeout string `toml:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout"`
	// I/O read timeout, same format as Timeout.
	ReadTimeout string `toml:"read-timeout" json:"read-timeout" yaml:"read-timeout" mapstructure:"read-timeout"`

	MaxOpen                int           `toml:"max-open" json:"max-open" yaml:"max-open" mapstructure:"max-open"`
	MaxLifeTimeDurationStr string        `toml:"max-life-time-duration" json:"max-life-time-duration" yaml:"max-life-time-duration" mapstructure:"max-life-time-duration"`
	MaxLifeTimeDuration    time.Duration `toml:"-" json:"-" yaml:"-" mapstructure:"-"`
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Host == "" {
		return errors.New("mysql host is required")
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.Location == "" {
		c.Location = time.Local.String()
	}
	if c.MaxOpen == 0 {
		c.MaxOpen = 2
	}
	var err error
	if c.MaxLifeTimeDurationStr == "" {
		c.MaxLifeTimeDurationStr = "1h"
		c.MaxLifeTimeDuration = time.Hour
	} else {
		c.MaxLifeTimeDuration, err = time.ParseDuration(c.MaxLifeTimeDurationStr)
		if err != nil {
			return errors.Trace(err)
		}
	}
	if c.Timeout == "" {
		c.Timeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "30s"
	}
	return nil
}

// DSN 连接串。parseTime 关闭，时间列按字符串返回
func (c *Config) DSN() string {
	dsn := fmt.Sprintf(`%s:%s@tcp(%s:%d)/%s?interpolateParams=true&timeout=%s&readTimeout=%s&parseTime=false&charset=utf8mb4`,
		c.Username, c.Password, c.Host, c.Port, url.QueryEscape(c.Database), c.Timeout, c.ReadTimeout)
	if c.Location != "" {
		dsn += "&loc=" + url.QueryEscape(c.Location)
	}
	return dsn
}

func (c *Config) Connect(ctx context.Context) (*sql.DB, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Trace(err)
	}
	db.SetMaxOpenConns(c.MaxOpen)
	db.SetMaxIdleConns(c.MaxOpen)
	db.SetConnMaxLifetime(c.MaxLifeTimeDuration)
	return db, nil
}

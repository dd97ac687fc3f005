package clickhouse

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/log"
)

type Config struct {
	Host     string `yaml:"host" json:"host" toml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" json:"port" toml:"port" mapstructure:"port"`
	User     string `yaml:"user" json:"user" toml:"user" mapstructure:"user"`
	Password string `yaml:"password" json:"password" toml:"password" mapstructure:"password"`
	Database string `yaml:"database" json:"database" toml:"database" mapstructure:"database"`

	Timeout        string `yaml:"timeout" json:"timeout" toml:"timeout" mapstructure:"timeout"`
	MaxConnections int    `yaml:"max-connections" json:"max-connections" toml:"max-connections" mapstructure:"max-connections"`
	Secure         bool   `yaml:"secure" json:"secure" toml:"secure" mapstructure:"secure"`
	SkipVerify     bool   `yaml:"skip-verify" json:"skip-verify" toml:"skip-verify" mapstructure:"skip-verify"`
	TLSKey         string `yaml:"tls-key" json:"tls-key" toml:"tls-key" mapstructure:"tls-key"`
	TLSCert        string `yaml:"tls-cert" json:"tls-cert" toml:"tls-cert" mapstructure:"tls-cert"`
	TLSCa          string `yaml:"tls-ca" json:"tls-ca" toml:"tls-ca" mapstructure:"tls-ca"`

	Debug bool `yaml:"debug" json:"debug" toml:"debug" mapstructure:"debug"`
}

func (ch *Config) ValidateAndSetDefault() error {
	if ch.Host == "" {
		return errors.New("clickhouse host is required")
	}
	if ch.Port == 0 {
		ch.Port = 9000
	}
	if ch.User == "" {
		ch.User = "default"
	}
	if ch.Timeout == "" {
		ch.Timeout = "30s"
	}
	if ch.MaxConnections == 0 {
		ch.MaxConnections = 2
	}
	return nil
}

// Options 按配置生成连接参数
func (ch *Config) Options() (*clickhouse.Options, error) {
	if err := ch.ValidateAndSetDefault(); err != nil {
		return nil, err
	}
	timeout, err := time.ParseDuration(ch.Timeout)
	if err != nil {
		return nil, errors.Trace(err)
	}
	opt := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", ch.Host, ch.Port)},
		Auth: clickhouse.Auth{
			Database: ch.Database,
			Username: ch.User,
			Password: ch.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": int(timeout.Seconds()),
		},
		MaxOpenConns: ch.MaxConnections,
		MaxIdleConns: ch.MaxConnections,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		Debug:        ch.Debug,
	}
	if ch.Secure {
		tlsConfig, err := ch.tlsConfig()
		if err != nil {
			return nil, err
		}
		opt.TLS = tlsConfig
	}
	return opt, nil
}

func (ch *Config) tlsConfig() (*tls.Config, error) {
	tlsConfig := &tls.Config{
		InsecureSkipVerify: ch.SkipVerify,
	}
	if ch.TLSCert != "" || ch.TLSKey != "" {
		cert, err := tls.LoadX509KeyPair(ch.TLSCert, ch.TLSKey)
		if err != nil {
			log.Errorf("tls.LoadX509KeyPair error: %v", err)
			return nil, errors.Trace(err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	if ch.TLSCa != "" {
		caCert, err := os.ReadFile(ch.TLSCa)
		if err != nil {
			log.Errorf("read `tls-ca` file %s return error: %v ", ch.TLSCa, err)
			return nil, errors.Trace(err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, errors.Errorf("AppendCertsFromPEM %s return false", ch.TLSCa)
		}
		tlsConfig.RootCAs = caCertPool
	}
	return tlsConfig, nil
}

func (ch *Config) Connect(ctx context.Context) (driver.Conn, error) {
	opt, err := ch.Options()
	if err != nil {
		return nil, err
	}
	conn, err := clickhouse.Open(opt)
	if err != nil {
		log.Errorf("Open ClickHouse error: %v", err)
		return nil, errors.Errorf("failed to connect ClickHouse open error:%v", err)
	}
	if err = conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.Errorf("failed to connect ClickHouse ping error:%v", err)
	}
	return conn, nil
}

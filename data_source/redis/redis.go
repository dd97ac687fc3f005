package redis

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/log"
)

const (
	Nil = redis.Nil
)

type Config struct {
	// 多个地址用 ; 分隔时按集群连接
	Address  string `mapstructure:"address" json:"address" toml:"address" yaml:"address"`
	Username string `mapstructure:"username" json:"username" toml:"username" yaml:"username"`
	Password string `mapstructure:"password" json:"password" toml:"password" yaml:"password"`
	DB       int    `mapstructure:"db" json:"db" toml:"db" yaml:"db"`
	TLS      bool   `mapstructure:"tls" json:"tls" toml:"tls" yaml:"tls"`
	Timeout  string `mapstructure:"timeout" json:"timeout" toml:"timeout" yaml:"timeout"`
	// 计数键的过期时间，为空表示不过期
	TTL string `mapstructure:"ttl" json:"ttl" toml:"ttl" yaml:"ttl"`

	timeout time.Duration
	ttl     time.Duration
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Address == "" {
		return errors.New("redis address is empty")
	}
	if c.Timeout == "" {
		c.Timeout = "15s"
	}
	var err error
	if c.timeout, err = time.ParseDuration(c.Timeout); err != nil {
		return errors.Trace(err)
	}
	if c.TTL != "" {
		if c.ttl, err = time.ParseDuration(c.TTL); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func (c *Config) Addrs() []string {
	return strings.Split(c.Address, ";")
}

func (c *Config) ExpireAfter() time.Duration {
	return c.ttl
}

// Options 单个地址为普通客户端，多个地址为集群客户端
func (c *Config) Options() (*redis.UniversalOptions, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, err
	}
	opt := &redis.UniversalOptions{
		Addrs:           c.Addrs(),
		Username:        c.Username,
		Password:        c.Password,
		DB:              c.DB,
		MaxRedirects:    600,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: time.Second,
		DialTimeout:     c.timeout,
		ReadTimeout:     c.timeout,
		WriteTimeout:    c.timeout,
	}
	if c.TLS {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt, nil
}

func (c *Config) Connect(ctx context.Context) (redis.UniversalClient, error) {
	opt, err := c.Options()
	if err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(opt)
	if err = client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Annotatef(err, "ping redis %s", c.Address)
	}
	log.Infof("redis connected. address=[%s]", c.Address)
	return client, nil
}

package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"

	"github.com/xuenqlve/cutbrick/errors"
)

type Config struct {
	BrokerAddrs []string        `mapstructure:"broker-addrs" toml:"broker-addrs" json:"broker-addrs" yaml:"broker-addrs"`
	Topic       string          `mapstructure:"topic" toml:"topic" json:"topic" yaml:"topic"`
	Partition   int             `mapstructure:"partition" toml:"partition" json:"partition" yaml:"partition"`
	CertFile    string          `mapstructure:"cert-file" toml:"cert-file" json:"cert-file" yaml:"cert-file"`
	KeyFile     string          `mapstructure:"key-file" toml:"key-file" json:"key-file" yaml:"key-file"`
	CaFile      string          `mapstructure:"ca-file" toml:"ca-file" json:"ca-file" yaml:"ca-file"`
	VerifySSL   bool            `mapstructure:"verify-ssl" toml:"verify-ssl" json:"verify-ssl" yaml:"verify-ssl"`
	Consumer    *ConsumerConfig `mapstructure:"consumer" toml:"consumer" json:"consumer" yaml:"consumer"`
	Net         *NetConfig      `mapstructure:"net" toml:"net" json:"net" yaml:"net"`
}

type NetConfig struct {
	// SASL/PLAIN only
	SASL        SASL          `mapstructure:"sasl" toml:"sasl" json:"sasl" yaml:"sasl"`
	DialTimeout time.Duration `mapstructure:"dial-timeout" toml:"dial-timeout" json:"dial-timeout" yaml:"dial-timeout"`
}

type ConsumerConfig struct {
	GroupID     string        `mapstructure:"group-id" toml:"group-id" json:"group-id" yaml:"group-id"`
	StartOffset int64         `mapstructure:"start-offset" toml:"start-offset" json:"start-offset" yaml:"start-offset"`
	MinBytes    int           `mapstructure:"min-bytes" toml:"min-bytes" json:"min-bytes" yaml:"min-bytes"`
	MaxBytes    int           `mapstructure:"max-bytes" toml:"max-bytes" json:"max-bytes" yaml:"max-bytes"`
	MaxWait     time.Duration `mapstructure:"max-wait" toml:"max-wait" json:"max-wait" yaml:"max-wait"`
}

type SASL struct {
	Enable   bool   `mapstructure:"enable" toml:"enable" json:"enable" yaml:"enable"`
	User     string `mapstructure:"user" toml:"user" json:"user" yaml:"user"`
	Password string `mapstructure:"password" toml:"password" json:"password" yaml:"password"`
}

func (c *Config) ValidateAndSetDefault() error {
	if len(c.BrokerAddrs) == 0 {
		return errors.New("kafka broker-addrs is empty")
	}
	if c.Topic == "" {
		return errors.New("kafka topic is empty")
	}
	if c.Consumer == nil {
		c.Consumer = &ConsumerConfig{}
	}
	if c.Consumer.StartOffset == 0 {
		c.Consumer.StartOffset = kafka.FirstOffset
	}
	if c.Consumer.MinBytes <= 0 {
		c.Consumer.MinBytes = 10e3
	}
	if c.Consumer.MaxBytes <= 0 {
		c.Consumer.MaxBytes = 10e6
	}
	if c.Consumer.MaxWait <= 0 {
		c.Consumer.MaxWait = time.Second
	}
	return nil
}

func (c *Config) hasTLSConfig() bool {
	return c.CertFile != "" && c.KeyFile != "" && c.CaFile != ""
}

func (c *Config) dialTimeout() time.Duration {
	if c.Net != nil && c.Net.DialTimeout > 0 {
		return c.Net.DialTimeout
	}
	return 5 * time.Second
}

func (c *Config) Dialer() (*kafka.Dialer, error) {
	dialer := &kafka.Dialer{
		Timeout:   c.dialTimeout(),
		DualStack: true,
	}
	if c.hasTLSConfig() {
		tlsConfig, err := c.tlsConfiguration()
		if err != nil {
			return nil, errors.Trace(err)
		}
		dialer.TLS = tlsConfig
	}
	if c.Net != nil && c.Net.SASL.Enable {
		dialer.SASLMechanism = plain.Mechanism{
			Username: c.Net.SASL.User,
			Password: c.Net.SASL.Password,
		}
	}
	return dialer, nil
}

// ReaderConfig 生成消费者配置。设置了 group-id 时由消费组分配分区
func (c *Config) ReaderConfig() (kafka.ReaderConfig, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return kafka.ReaderConfig{}, err
	}
	dialer, err := c.Dialer()
	if err != nil {
		return kafka.ReaderConfig{}, err
	}
	rc := kafka.ReaderConfig{
		Brokers:     c.BrokerAddrs,
		Topic:       c.Topic,
		GroupID:     c.Consumer.GroupID,
		StartOffset: c.Consumer.StartOffset,
		MinBytes:    c.Consumer.MinBytes,
		MaxBytes:    c.Consumer.MaxBytes,
		MaxWait:     c.Consumer.MaxWait,
		Dialer:      dialer,
	}
	if rc.GroupID == "" {
		rc.Partition = c.Partition
	}
	return rc, nil
}

func (c *Config) NewReader() (*kafka.Reader, error) {
	rc, err := c.ReaderConfig()
	if err != nil {
		return nil, err
	}
	return kafka.NewReader(rc), nil
}

func (c *Config) tlsConfiguration() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, errors.Annotate(err, "LoadX509KeyPair")
	}
	caCert, err := os.ReadFile(c.CaFile)
	if err != nil {
		return nil, errors.Annotate(err, "read ca file")
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, errors.New("failed to parse CA certificate")
	}
	return &tls.Config{
		Certificates:       []tls.Certificate{cert},
		RootCAs:            caCertPool,
		InsecureSkipVerify: !c.VerifySSL,
	}, nil
}

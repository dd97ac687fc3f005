package mongodb

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/xuenqlve/cutbrick/errors"
)

const (
	ReadConcernDefault      = ""
	ReadConcernLocal        = "local"
	ReadConcernAvailable    = "available"
	ReadConcernMajority     = "majority"
	ReadConcernLinearizable = "linearizable"

	ConnectModePrimary            = "primary"
	ConnectModePrimaryPreferred   = "primaryPreferred"
	ConnectModeSecondaryPreferred = "secondaryPreferred"
	ConnectModeSecondary          = "secondary"
	ConnectModeNearest            = "nearest"
)

type Config struct {
	Host        []string      `mapstructure:"urls" json:"urls" toml:"urls" yaml:"urls"`
	ReplicaSet  string        `mapstructure:"replica-set" json:"replica-set" toml:"replica-set" yaml:"replica-set"`
	Username    string        `mapstructure:"username" json:"username" toml:"username" yaml:"username"`
	Password    string        `mapstructure:"password" json:"password" toml:"password" yaml:"password"`
	AuthSource  string        `mapstructure:"auth-source" json:"auth-source" toml:"auth-source" yaml:"auth-source"`
	ConnectMode string        `mapstructure:"connect-mode" json:"connect-mode" toml:"connect-mode" yaml:"connect-mode"`
	SslRootFile string        `mapstructure:"ssl-root-file" json:"ssl-root-file" toml:"ssl-root-file" yaml:"ssl-root-file"`
	ReadConcern string        `mapstructure:"read-concern" json:"read-concern" toml:"read-concern" yaml:"read-concern"`
	Timeout     time.Duration `mapstructure:"timeout" json:"timeout" toml:"timeout" yaml:"timeout"`
	BatchSize   int32         `mapstructure:"batch-size" json:"batch-size" toml:"batch-size" yaml:"batch-size"`
}

func (c *Config) ValidateAndSetDefault() error {
	if len(c.Host) == 0 {
		return errors.New("mongodb urls is empty")
	}
	if c.Username != "" && c.Password == "" {
		return errors.Errorf("mongodb user %s has no password", c.Username)
	}
	if c.AuthSource == "" {
		c.AuthSource = "admin"
	}
	switch c.ConnectMode {
	case "":
		c.ConnectMode = ConnectModeSecondaryPreferred
	case ConnectModePrimary, ConnectModePrimaryPreferred, ConnectModeSecondaryPreferred, ConnectModeSecondary, ConnectModeNearest:
	default:
		return errors.Errorf("mongodb connect-mode %q is unknown", c.ConnectMode)
	}
	switch c.ReadConcern {
	case ReadConcernDefault, ReadConcernLocal, ReadConcernAvailable, ReadConcernMajority, ReadConcernLinearizable:
	default:
		return errors.Errorf("mongodb read-concern %q is unknown", c.ReadConcern)
	}
	if c.Timeout <= 0 {
		c.Timeout = 20 * time.Second
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 1000
	}
	return nil
}

// URL 不含认证信息，账号通过 Credential 传入
func (c *Config) URL() string {
	url := "mongodb://" + strings.Join(c.Host, ",")
	if c.ReplicaSet != "" {
		url += "/?replicaSet=" + c.ReplicaSet
	}
	return url
}

func (c *Config) readPreference() *readpref.ReadPref {
	switch c.ConnectMode {
	case ConnectModePrimaryPreferred:
		return readpref.PrimaryPreferred()
	case ConnectModeSecondaryPreferred:
		return readpref.SecondaryPreferred()
	case ConnectModeSecondary:
		return readpref.Secondary()
	case ConnectModeNearest:
		return readpref.Nearest()
	default:
		return readpref.Primary()
	}
}

func (c *Config) ClientOptions() (*options.ClientOptions, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}
	opts := options.Client().ApplyURI(c.URL()).
		SetConnectTimeout(c.Timeout).
		SetReadPreference(c.readPreference())
	if c.Username != "" {
		opts.SetAuth(options.Credential{
			AuthSource: c.AuthSource,
			Username:   c.Username,
			Password:   c.Password,
		})
	}
	if c.SslRootFile != "" {
		pool, err := rootCAs(c.SslRootFile)
		if err != nil {
			return nil, errors.Annotatef(err, "mongodb ssl-root-file %s", c.SslRootFile)
		}
		opts.SetTLSConfig(&tls.Config{RootCAs: pool, MinVersion: tls.VersionTLS12})
	}
	if c.ReadConcern != ReadConcernDefault {
		opts.SetReadConcern(&readconcern.ReadConcern{Level: c.ReadConcern})
	}
	return opts, nil
}

// Connect 连接并 ping，失败时断开
func (c *Config) Connect(ctx context.Context) (*mongo.Client, error) {
	opts, err := c.ClientOptions()
	if err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = client.Ping(ctx, opts.ReadPreference); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Annotatef(err, "ping mongodb %s", c.URL())
	}
	return client, nil
}

func rootCAs(file string) (*x509.CertPool, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Trace(err)
	}
	certs, err := certificates(data)
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	for _, cert := range certs {
		pool.AddCert(cert)
	}
	return pool, nil
}

// certificates 解析 PEM 中所有 CERTIFICATE 块，其余块跳过
func certificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate
	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		data = rest
		if block.Type != "CERTIFICATE" {
			continue
		}
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Trace(err)
		}
		certs = append(certs, cert)
	}
	if len(certs) == 0 {
		return nil, errors.New("pem data has no CERTIFICATE block")
	}
	return certs, nil
}

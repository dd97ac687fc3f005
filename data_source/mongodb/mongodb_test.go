package mongodb

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

func TestURL(t *testing.T) {
	c := &Config{Host: []string{"a:27017", "b:27017"}, ReplicaSet: "rs0"}
	assert.Equal(t, "mongodb://a:27017,b:27017/?replicaSet=rs0", c.URL())
	c.ReplicaSet = ""
	assert.Equal(t, "mongodb://a:27017,b:27017", c.URL())
}

func TestClientOptions(t *testing.T) {
	c := &Config{Host: []string{"localhost:27017"}}
	opts, err := c.ClientOptions()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, *opts.ConnectTimeout)
	assert.Equal(t, readpref.SecondaryPreferredMode, opts.ReadPreference.Mode())
	assert.Nil(t, opts.Auth)

	c = &Config{Host: []string{"localhost:27017"}, Username: "alice", Password: "pw", ConnectMode: ConnectModePrimary}
	opts, err = c.ClientOptions()
	require.NoError(t, err)
	require.NotNil(t, opts.Auth)
	assert.Equal(t, "admin", opts.Auth.AuthSource)
	assert.Equal(t, readpref.PrimaryMode, opts.ReadPreference.Mode())

	_, err = (&Config{Host: []string{"h"}, ConnectMode: "fastest"}).ClientOptions()
	assert.Error(t, err)
	_, err = (&Config{Host: []string{"h"}, ReadConcern: "snapshot-ish"}).ClientOptions()
	assert.Error(t, err)
	_, err = (&Config{}).ClientOptions()
	assert.Error(t, err)
	_, err = (&Config{Host: []string{"h"}, Username: "alice"}).ClientOptions()
	assert.Error(t, err)
}

func TestCertificates(t *testing.T) {
	_, err := certificates([]byte("not pem"))
	assert.Error(t, err)
	_, err = certificates(nil)
	assert.Error(t, err)
	_, err = rootCAs("/nonexistent/ca.pem")
	assert.Error(t, err)
}

package kafka

import (
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderConfig(t *testing.T) {
	c := &Config{BrokerAddrs: []string{"localhost:9092"}, Topic: "tracks", Partition: 3}
	rc, err := c.ReaderConfig()
	require.NoError(t, err)
	assert.Equal(t, "tracks", rc.Topic)
	assert.Equal(t, 3, rc.Partition)
	assert.Equal(t, kafka.FirstOffset, rc.StartOffset)
	assert.Equal(t, time.Second, rc.MaxWait)
	assert.Equal(t, 5*time.Second, rc.Dialer.Timeout)
	assert.Nil(t, rc.Dialer.SASLMechanism)

	c = &Config{
		BrokerAddrs: []string{"localhost:9092"},
		Topic:       "tracks",
		Partition:   3,
		Consumer:    &ConsumerConfig{GroupID: "cutscan"},
		Net:         &NetConfig{SASL: SASL{Enable: true, User: "alice", Password: "pw"}},
	}
	rc, err = c.ReaderConfig()
	require.NoError(t, err)
	assert.Equal(t, 0, rc.Partition)
	assert.Equal(t, "cutscan", rc.GroupID)
	assert.Equal(t, plain.Mechanism{Username: "alice", Password: "pw"}, rc.Dialer.SASLMechanism)
}

func TestReaderConfigInvalid(t *testing.T) {
	_, err := (&Config{Topic: "tracks"}).ReaderConfig()
	assert.Error(t, err)
	_, err = (&Config{BrokerAddrs: []string{"localhost:9092"}}).ReaderConfig()
	assert.Error(t, err)
}

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/xuenqlve/cutbrick/data_source/kafka"
	"github.com/xuenqlve/cutbrick/errors"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

// Kafka 消费 JSON 消息，每条消息一条记录。limit > 0 时读满 limit 条后结束
type Kafka struct {
	reader messageReader
	limit  int
	read   int
	closed bool
}

func NewKafka(cfg *kafka.Config, limit int) (*Kafka, error) {
	reader, err := cfg.NewReader()
	if err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, err)
	}
	return newKafka(reader, limit), nil
}

func newKafka(reader messageReader, limit int) *Kafka {
	return &Kafka{reader: reader, limit: limit}
}

func (k *Kafka) Next(ctx context.Context) (Record, error) {
	if k.closed {
		return nil, errors.ErrRecordSourceClosed
	}
	if k.limit > 0 && k.read >= k.limit {
		return nil, io.EOF
	}
	msg, err := k.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Trace(err))
	}
	k.read++
	rec, err := decodeMessage(msg.Value)
	if err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource,
			errors.Annotatef(err, "topic %s partition %d offset %d", msg.Topic, msg.Partition, msg.Offset))
	}
	return rec, nil
}

func (k *Kafka) Close() error {
	if k.closed {
		return nil
	}
	k.closed = true
	return errors.Trace(k.reader.Close())
}

// decodeMessage 数字保留为 json.Number，避免大整数精度损失
func decodeMessage(value []byte) (Record, error) {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, errors.Trace(err)
	}
	if m == nil {
		return nil, errors.New("message is not a JSON object")
	}
	return Flatten(m), nil
}

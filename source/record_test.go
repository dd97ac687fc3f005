package source

import (
	"context"
	"encoding/json"
	"io"
	"testing"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xuenqlve/cutbrick/errors"
)

func TestFlatten(t *testing.T) {
	rec := Flatten(map[string]any{
		"run":   246087,
		"track": map[string]any{"pt": 0.5, "eta": map[string]any{"value": -0.3}},
	})
	assert.Equal(t, Record{"run": 246087, "track.pt": 0.5, "track.eta.value": -0.3}, rec)
}

func TestCollect(t *testing.T) {
	src := NewMemory(Record{"a": 1}, Record{"a": 2}, Record{"a": 3})
	recs, err := Collect(context.Background(), src, 2)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
	recs, err = Collect(context.Background(), src, 0)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestDocumentRecord(t *testing.T) {
	d, err := primitive.ParseDecimal128("0.25")
	require.NoError(t, err)
	doc := bson.D{
		{Key: "run", Value: int32(246087)},
		{Key: "vertex", Value: bson.D{{Key: "z", Value: 1.5}}},
		{Key: "weight", Value: d},
	}
	rec := documentRecord(doc)
	assert.Equal(t, int32(246087), rec["run"])
	assert.Equal(t, 1.5, rec["vertex.z"])
	w, err := Field(rec, "weight")
	require.NoError(t, err)
	assert.Equal(t, 0.25, w)
}

type fakeReader struct {
	msgs   []kafkago.Message
	closed bool
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) == 0 {
		return kafkago.Message{}, io.EOF
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) Close() error {
	f.closed = true
	return nil
}

func TestKafka(t *testing.T) {
	ctx := context.Background()
	reader := &fakeReader{msgs: []kafkago.Message{
		{Value: []byte(`{"zvtx": 2.5, "track": {"pt": 1}}`)},
		{Value: []byte(`not json`)},
		{Value: []byte(`{"zvtx": 9007199254740993}`)},
		{Value: []byte(`{"zvtx": 1}`)},
	}}
	k := newKafka(reader, 3)

	rec, err := k.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, json.Number("2.5"), rec["zvtx"])
	pt, err := Field(rec, "track.pt")
	require.NoError(t, err)
	assert.Equal(t, 1.0, pt)

	_, err = k.Next(ctx)
	require.Error(t, err)
	assert.Equal(t, uint16(errors.ErrCodeRecordSource), errors.CodeOf(err))

	rec, err = k.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, json.Number("9007199254740993"), rec["zvtx"])

	// 已读满 limit
	_, err = k.Next(ctx)
	assert.Equal(t, io.EOF, err)

	require.NoError(t, k.Close())
	assert.True(t, reader.closed)
	_, err = k.Next(ctx)
	assert.Equal(t, errors.ErrRecordSourceClosed, err)
}

func TestDecodeMessage(t *testing.T) {
	_, err := decodeMessage([]byte(`null`))
	assert.Error(t, err)
	_, err = decodeMessage([]byte(`[1,2]`))
	assert.Error(t, err)
}

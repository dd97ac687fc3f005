package source

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xuenqlve/cutbrick/errors"
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Record{"zvtx": 1.5}, Record{"zvtx": -9})

	rec, err := m.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1.5, rec["zvtx"])
	_, err = m.Next(ctx)
	require.NoError(t, err)
	_, err = m.Next(ctx)
	assert.Equal(t, io.EOF, err)

	require.NoError(t, m.Close())
	_, err = m.Next(ctx)
	assert.Equal(t, errors.ErrRecordSourceClosed, err)
}

func TestMemoryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMemory(Record{}).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestField(t *testing.T) {
	rec := Record{"pt": float32(0.5), "mult": int64(12), "name": "x", "raw": []byte("3.5")}
	v, err := Field(rec, "pt")
	require.NoError(t, err)
	assert.Equal(t, 0.5, v)
	v, err = Field(rec, "raw")
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	_, err = Field(rec, "missing")
	assert.Equal(t, uint16(errors.ErrCodeRecordField), errors.CodeOf(err))
	_, err = Field(rec, "name")
	assert.Equal(t, uint16(errors.ErrCodeRecordField), errors.CodeOf(err))
}

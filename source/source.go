package source

import (
	"context"
	"io"

	"github.com/xuenqlve/cutbrick/compare"
	"github.com/xuenqlve/cutbrick/errors"
)

// Record 一条事例或径迹记录，字段名到值
type Record map[string]any

// Source 记录源。Next 在数据读完时返回 io.EOF
type Source interface {
	Next(ctx context.Context) (Record, error)
	Close() error
}

// Field 读取记录中的数值字段
func Field(rec Record, name string) (float64, error) {
	value, ok := rec[name]
	if !ok {
		return 0, errors.NewCutErrorf(errors.ErrCodeRecordField, "record has no field %s", name)
	}
	v, err := compare.ToFloat64(value)
	if err != nil {
		return 0, errors.NewCutError(errors.ErrCodeRecordField, errors.Annotatef(err, "field %s", name))
	}
	return v, nil
}

// Memory 内存记录源，按顺序返回记录
type Memory struct {
	records []Record
	pos     int
	closed  bool
}

func NewMemory(records ...Record) *Memory {
	return &Memory{records: records}
}

func (m *Memory) Next(ctx context.Context) (Record, error) {
	if m.closed {
		return nil, errors.ErrRecordSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.pos >= len(m.records) {
		return nil, io.EOF
	}
	rec := m.records[m.pos]
	m.pos++
	return rec, nil
}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}

package source

import (
	"context"
	"io"
	"reflect"

	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/log"
)

// rowScanner database/sql 与 clickhouse 结果集的公共部分
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// Rows 把查询结果集逐行转换为记录
type Rows struct {
	name    string
	rows    rowScanner
	columns []string
	dest    []any
	closer  func() error
	closed  bool
}

// newRows dest 为每列的扫描目标指针，nil 时按 *any 扫描
func newRows(name string, rows rowScanner, columns []string, dest []any, closer func() error) *Rows {
	if dest == nil {
		dest = make([]any, len(columns))
		for i := range dest {
			dest[i] = new(any)
		}
	}
	return &Rows{
		name:    name,
		rows:    rows,
		columns: columns,
		dest:    dest,
		closer:  closer,
	}
}

func (r *Rows) Columns() []string {
	return append([]string(nil), r.columns...)
}

func (r *Rows) Next(ctx context.Context) (Record, error) {
	if r.closed {
		return nil, errors.ErrRecordSourceClosed
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Annotatef(err, "%s rows", r.name))
		}
		return nil, io.EOF
	}
	if err := r.rows.Scan(r.dest...); err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Annotatef(err, "%s scan", r.name))
	}
	rec := make(Record, len(r.columns))
	for i, column := range r.columns {
		rec[column] = deref(r.dest[i])
	}
	return rec, nil
}

func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	err := r.rows.Close()
	if r.closer != nil {
		if closeErr := r.closer(); closeErr != nil {
			log.Errorf("%s close connection error: %v", r.name, closeErr)
			if err == nil {
				err = closeErr
			}
		}
	}
	return errors.Trace(err)
}

// deref 取出扫描目标指向的值，空指针视为 NULL
func deref(p any) any {
	v := reflect.ValueOf(p)
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	return v.Interface()
}

package source

import (
	"context"
	"reflect"

	"github.com/xuenqlve/cutbrick/data_source/clickhouse"
	"github.com/xuenqlve/cutbrick/errors"
)

// NewClickHouse 在 ClickHouse 上执行只读查询，每行一条记录
func NewClickHouse(ctx context.Context, cfg *clickhouse.Config, query string, args ...any) (*Rows, error) {
	if _, err := CheckSelect(query); err != nil {
		return nil, err
	}
	conn, err := cfg.Connect(ctx)
	if err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, err)
	}
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		_ = conn.Close()
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Trace(err))
	}
	// 原生协议要求按列类型扫描
	types := rows.ColumnTypes()
	dest := make([]any, len(types))
	for i, ct := range types {
		dest[i] = reflect.New(ct.ScanType()).Interface()
	}
	return newRows("clickhouse", rows, rows.Columns(), dest, conn.Close), nil
}

package source

import (
	"context"

	"github.com/xuenqlve/cutbrick/data_source/mysql"
	"github.com/xuenqlve/cutbrick/errors"
)

// NewMySQL 在 MySQL 上执行只读查询，每行一条记录
func NewMySQL(ctx context.Context, cfg *mysql.Config, query string, args ...any) (*Rows, error) {
	if _, err := CheckSelect(query); err != nil {
		return nil, err
	}
	db, err := cfg.Connect(ctx)
	if err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, err)
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		_ = db.Close()
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Trace(err))
	}
	columns, err := rows.Columns()
	if err != nil {
		_ = rows.Close()
		_ = db.Close()
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Trace(err))
	}
	return newRows("mysql", rows, columns, nil, db.Close), nil
}

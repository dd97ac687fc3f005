package source

import (
	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"github.com/xuenqlve/cutbrick/errors"
)

// CheckSelect 确认查询是单条只读 SELECT（允许 UNION）
func CheckSelect(query string) (ast.StmtNode, error) {
	stmt, err := parser.New().ParseOneStmt(query, "", "")
	if err != nil {
		return nil, errors.NewCutError(errors.ErrCodeRecordSource, errors.Annotatef(err, "parse query %q", query))
	}
	switch v := stmt.(type) {
	case *ast.SelectStmt:
		if v.LockInfo != nil && v.LockInfo.LockType != ast.SelectLockNone {
			return nil, errors.NewCutErrorf(errors.ErrCodeRecordSource, "query %q takes row locks", query)
		}
		if v.SelectIntoOpt != nil {
			return nil, errors.NewCutErrorf(errors.ErrCodeRecordSource, "query %q writes to a file", query)
		}
		return v, nil
	case *ast.SetOprStmt:
		return v, nil
	}
	return nil, errors.NewCutErrorf(errors.ErrCodeRecordSource, "query %q is not a SELECT statement", query)
}

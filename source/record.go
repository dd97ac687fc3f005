package source

import (
	"context"
	"io"

	"github.com/xuenqlve/cutbrick/errors"
)

// flattenMap 嵌套对象展开为 a.b 形式的字段
func flattenMap(rec Record, prefix string, m map[string]any) {
	for k, value := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if nested, ok := value.(map[string]any); ok {
			flattenMap(rec, key, nested)
			continue
		}
		rec[key] = value
	}
}

// Flatten 返回展开后的新记录
func Flatten(m map[string]any) Record {
	rec := make(Record, len(m))
	flattenMap(rec, "", m)
	return rec
}

// Collect 读出记录源中的全部记录，用于小数据量的检查
func Collect(ctx context.Context, src Source, limit int) ([]Record, error) {
	var out []Record
	for limit <= 0 || len(out) < limit {
		rec, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, nil
}

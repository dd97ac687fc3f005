package compare

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuenqlve/cutbrick/errors"
)

const (
	Greater = 1
	Less    = -1
	Equal   = 0
)

// Number 可参与切割比较的数值类型
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Ordered 比较可排序的值
func Ordered[T Number](a, b T) int {
	if a > b {
		return Greater
	} else if a < b {
		return Less
	}
	return Equal
}

// StrictlyIncreasing 检查序列是否严格递增，返回第一个违反位置
func StrictlyIncreasing[T Number](values []T) (int, bool) {
	for i := 1; i < len(values); i++ {
		if Ordered(values[i-1], values[i]) != Less {
			return i, false
		}
	}
	return -1, true
}

// ToFloat64 将记录中的字段值转换为 float64
func ToFloat64(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	case fmt.Stringer:
		return parseFloat(v.String())
	case nil:
		return 0, errors.New("nil value")
	default:
		return 0, errors.Errorf("unsupported value type %T", value)
	}
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, errors.Trace(err)
	}
	if math.IsNaN(f) {
		return 0, errors.Errorf("NaN value %q", s)
	}
	return f, nil
}

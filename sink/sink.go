package sink

import (
	"context"
	"sync"
)

// CutCount 单个切割的计数
type CutCount struct {
	Name   string  `json:"name"`
	Field  string  `json:"field"`
	Passed int64   `json:"passed"`
	Bits   []int64 `json:"bits"`
}

// Summary 一次运行的计数汇总
type Summary struct {
	Processed int64      `json:"processed"`
	Selected  int64      `json:"selected"`
	Failed    int64      `json:"failed"`
	Cuts      []CutCount `json:"cuts"`
}

// Clone 深拷贝
func (s Summary) Clone() Summary {
	out := s
	out.Cuts = make([]CutCount, len(s.Cuts))
	for i, c := range s.Cuts {
		c.Bits = append([]int64(nil), c.Bits...)
		out.Cuts[i] = c
	}
	return out
}

// Sink 计数的落地位置。Flush 写入的是自上次 Flush 以来的增量
type Sink interface {
	Flush(ctx context.Context, run string, delta Summary) error
	Close() error
}

// Memory 内存中按运行累加计数
type Memory struct {
	mu   sync.Mutex
	runs map[string]Summary
}

func NewMemory() *Memory {
	return &Memory{runs: map[string]Summary{}}
}

func (m *Memory) Flush(ctx context.Context, run string, delta Summary) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[run] = merge(m.runs[run], delta)
	return nil
}

func (m *Memory) Get(run string) (Summary, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.runs[run]
	if !ok {
		return Summary{}, false
	}
	return s.Clone(), true
}

func (m *Memory) Runs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	runs := make([]string, 0, len(m.runs))
	for run := range m.runs {
		runs = append(runs, run)
	}
	return runs
}

func (m *Memory) Close() error {
	return nil
}

// merge 按切割名累加，新出现的切割追加在末尾
func merge(into, delta Summary) Summary {
	out := into.Clone()
	out.Processed += delta.Processed
	out.Selected += delta.Selected
	out.Failed += delta.Failed
	index := make(map[string]int, len(out.Cuts))
	for i, c := range out.Cuts {
		index[c.Name] = i
	}
	for _, c := range delta.Cuts {
		i, ok := index[c.Name]
		if !ok {
			c.Bits = append([]int64(nil), c.Bits...)
			out.Cuts = append(out.Cuts, c)
			index[c.Name] = len(out.Cuts) - 1
			continue
		}
		cur := &out.Cuts[i]
		cur.Passed += c.Passed
		for len(cur.Bits) < len(c.Bits) {
			cur.Bits = append(cur.Bits, 0)
		}
		for j, n := range c.Bits {
			cur.Bits[j] += n
		}
	}
	return out
}

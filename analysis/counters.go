package analysis

import (
	"github.com/xuenqlve/cutbrick/selection"
	"github.com/xuenqlve/cutbrick/sink"
)

type counters struct {
	processed int64
	selected  int64
	failed    int64
	passed    []int64
	bits      [][]int64
}

func newCounters(cuts []*selection.Cut) *counters {
	c := &counters{}
	c.grow(cuts)
	return c
}

// grow 为新加入切割集合的切割补齐计数，切割只会追加
func (c *counters) grow(cuts []*selection.Cut) {
	for _, cut := range cuts[min(len(c.passed), len(cuts)):] {
		c.passed = append(c.passed, 0)
		c.bits = append(c.bits, make([]int64, cut.Set.Length()))
	}
}

func (c *counters) add(o *counters) {
	c.processed += o.processed
	c.selected += o.selected
	c.failed += o.failed
	for i := range o.passed {
		c.passed[i] += o.passed[i]
		for j := range c.bits[i] {
			c.bits[i][j] += o.bits[i][j]
		}
	}
}

func (c *counters) reset() {
	c.processed, c.selected, c.failed = 0, 0, 0
	for i := range c.passed {
		c.passed[i] = 0
		clear(c.bits[i])
	}
}

func (c *counters) summary(cuts []*selection.Cut) sink.Summary {
	s := sink.Summary{
		Processed: c.processed,
		Selected:  c.selected,
		Failed:    c.failed,
		Cuts:      make([]sink.CutCount, len(cuts)),
	}
	for i, cut := range cuts {
		s.Cuts[i] = sink.CutCount{
			Name:   cut.Name(),
			Field:  cut.Field,
			Passed: c.passed[i],
			Bits:   append([]int64(nil), c.bits[i]...),
		}
	}
	return s
}

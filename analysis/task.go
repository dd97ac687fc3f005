package analysis

import (
	"context"
	"io"
	"time"

	uuid "github.com/satori/go.uuid"

	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/event"
	"github.com/xuenqlve/cutbrick/log"
	"github.com/xuenqlve/cutbrick/selection"
	"github.com/xuenqlve/cutbrick/sink"
	"github.com/xuenqlve/cutbrick/source"
)

// Task 用一个切割集合扫描一个记录源，按运行统计通过数并写入 sink。
// 单线程执行，同一个 Task 不能并发 Run。
type Task struct {
	id   string
	name string

	cuts   *selection.CutSet
	source source.Source
	sink   sink.Sink

	registry    *selection.Registry
	period      selection.PeriodProvider
	events      event.Subject
	flushEvery  int64
	stopOnError bool

	pending *counters
	total   *counters
}

type Option func(*Task)

// WithFlushEvery 每处理 n 条记录写一次 sink
func WithFlushEvery(n int) Option {
	return func(t *Task) {
		t.flushEvery = int64(n)
	}
}

// WithPeriod 运行开始前通知数据周期
func WithPeriod(registry *selection.Registry, period selection.PeriodProvider) Option {
	return func(t *Task) {
		t.registry = registry
		t.period = period
	}
}

func WithEvents(events event.Subject) Option {
	return func(t *Task) {
		t.events = events
	}
}

// WithStopOnError 记录字段错误时停止，默认跳过该记录
func WithStopOnError(stop bool) Option {
	return func(t *Task) {
		t.stopOnError = stop
	}
}

func NewTask(name string, cuts *selection.CutSet, src source.Source, snk sink.Sink, opts ...Option) *Task {
	t := &Task{
		id:     uuid.NewV4().String(),
		name:   name,
		cuts:   cuts,
		source: src,
		sink:   snk,
		events: event.EventAdmin,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.pending = newCounters(cuts.Cuts())
	t.total = newCounters(cuts.Cuts())
	return t
}

// ID 本次运行的唯一标识，也是 sink 中的运行键
func (t *Task) ID() string {
	return t.id
}

func (t *Task) Name() string {
	return t.name
}

func (t *Task) CutSet() *selection.CutSet {
	return t.cuts
}

// Summary 已处理记录的累计计数
func (t *Task) Summary() sink.Summary {
	t.grow()
	total := newCounters(t.cuts.Cuts())
	total.add(t.total)
	total.add(t.pending)
	return total.summary(t.cuts.Cuts())
}

// Run 读完记录源为止。返回前总会把未写入的计数写入 sink
func (t *Task) Run(ctx context.Context) (summary sink.Summary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("analysis %s panic: %v", t.name, r)
			log.Errorf("%s", errors.ErrorStack(err))
			if t.events != nil {
				t.events.Upload(event.ErrorEvent(event.AnalysisPanicExit, err))
			}
			summary = t.Summary()
		}
	}()

	if t.registry != nil && t.period != nil {
		t.registry.NotifyRun(t.period)
	}
	log.Infof("analysis %s run %s started", t.name, t.id)
	t.cuts.PrintCutsWithValues()

	for {
		rec, readErr := t.source.Next(ctx)
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			err = errors.Annotatef(readErr, "analysis %s read record", t.name)
			break
		}
		if filterErr := t.process(rec); filterErr != nil && t.stopOnError {
			err = errors.Annotatef(filterErr, "analysis %s record %d", t.name, t.total.processed+t.pending.processed)
			break
		}
		if t.flushEvery > 0 && t.pending.processed >= t.flushEvery {
			if flushErr := t.flush(ctx); flushErr != nil {
				return t.Summary(), flushErr
			}
		}
	}

	// 取消后仍然写入已统计的部分
	if flushErr := t.flush(context.WithoutCancel(ctx)); flushErr != nil && err == nil {
		err = flushErr
	}
	summary = t.Summary()
	log.Infof("analysis %s run %s finished: processed %d selected %d failed %d",
		t.name, t.id, summary.Processed, summary.Selected, summary.Failed)
	if t.events != nil {
		value := map[string]any{
			"processed": summary.Processed,
			"selected":  summary.Selected,
			"failed":    summary.Failed,
		}
		if err != nil {
			value[event.Error] = err.Error()
		}
		t.events.Upload(event.Event{Type: event.RunFinished, Key: t.id, Value: value})
	}
	return summary, err
}

func (t *Task) process(rec source.Record) error {
	t.pending.processed++
	recordsProcessed.WithLabelValues(t.name).Inc()

	selected, err := t.cuts.Filter(rec)
	if err != nil {
		t.pending.failed++
		recordsFailed.WithLabelValues(t.name).Inc()
		log.Debugf("analysis %s skip record: %v", t.name, err)
		return err
	}
	if selected {
		t.pending.selected++
		recordsSelected.WithLabelValues(t.name).Inc()
	}

	activated := t.cuts.ActivatedMask()
	enabled := t.cuts.EnabledMask()
	status := t.cuts.StatusVector()
	cuts := t.cuts.Cuts()
	t.pending.grow(cuts)
	for i, cut := range cuts {
		if !enabled.Test(uint(i)) {
			continue
		}
		if activated.Test(uint(i)) {
			t.pending.passed[i]++
			cutPassed.WithLabelValues(t.name, cut.Name()).Inc()
		}
		for j := range t.pending.bits[i] {
			if status.Test(uint(cut.Offset() + j)) {
				t.pending.bits[i][j]++
			}
		}
	}
	return nil
}

// grow Task 创建后切割集合仍可追加切割
func (t *Task) grow() {
	cuts := t.cuts.Cuts()
	t.pending.grow(cuts)
	t.total.grow(cuts)
}

func (t *Task) flush(ctx context.Context) error {
	if t.pending.processed == 0 {
		return nil
	}
	start := time.Now()
	t.grow()
	delta := t.pending.summary(t.cuts.Cuts())
	if t.sink != nil {
		if err := t.sink.Flush(ctx, t.id, delta); err != nil {
			return err
		}
	}
	flushDuration.WithLabelValues(t.name).Observe(time.Since(start).Seconds())
	t.total.add(t.pending)
	t.pending.reset()
	return nil
}

// Close 关闭记录源和 sink
func (t *Task) Close() error {
	err := t.source.Close()
	if t.sink != nil {
		if sinkErr := t.sink.Close(); err == nil {
			err = sinkErr
		}
	}
	return errors.Trace(err)
}

package analysis

import (
	"context"
	"strings"

	"github.com/xuenqlve/cutbrick/config"
	"github.com/xuenqlve/cutbrick/errors"
	"github.com/xuenqlve/cutbrick/event"
	"github.com/xuenqlve/cutbrick/selection"
	"github.com/xuenqlve/cutbrick/sink"
	"github.com/xuenqlve/cutbrick/source"
)

// OpenSource 按配置打开记录源
func OpenSource(ctx context.Context, cfg *config.SourceConfig) (source.Source, error) {
	var (
		src source.Source
		err error
	)
	switch cfg.Type {
	case config.SourceMemory:
		records := make([]source.Record, 0, len(cfg.Records))
		for _, r := range cfg.Records {
			records = append(records, source.Flatten(r))
		}
		src = source.NewMemory(records...)
	case config.SourceMySQL:
		src, err = nonNil(source.NewMySQL(ctx, cfg.MySQL, cfg.Query))
	case config.SourceClickHouse:
		src, err = nonNil(source.NewClickHouse(ctx, cfg.ClickHouse, cfg.Query))
	case config.SourceMongoDB:
		src, err = nonNil(source.NewMongo(ctx, cfg.MongoDB, cfg.Database, cfg.Collection, cfg.Filter))
	case config.SourceKafka:
		src, err = nonNil(source.NewKafka(cfg.Kafka, cfg.Limit))
	default:
		err = errors.NewCutErrorf(errors.ErrCodeRecordSource, "unknown source type %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Where) == "" {
		return src, nil
	}
	where, err := source.ParseWhere(cfg.Where)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	return source.NewFiltered(src, where), nil
}

// nonNil 出错时返回 nil 接口而不是带类型的 nil 指针
func nonNil[S source.Source](s S, err error) (source.Source, error) {
	if err != nil {
		return nil, err
	}
	return s, nil
}

// OpenSink 按配置打开 sink
func OpenSink(ctx context.Context, cfg *config.SinkConfig) (sink.Sink, error) {
	switch cfg.Type {
	case "", config.SinkMemory:
		return sink.NewMemory(), nil
	case config.SinkRedis:
		r, err := sink.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, errors.NewCutErrorf(errors.ErrCodeSink, "unknown sink type %s", cfg.Type)
}

// BuildCutSet 事例选择在前，其次是配置的切割，最后是分箱
func BuildCutSet(cfg *config.Config) (*selection.CutSet, error) {
	set := selection.NewCutSet(cfg.Name)
	qa, err := selection.ParseQALevel(cfg.QALevel)
	if err != nil {
		return nil, err
	}
	set.SetQALevel(qa)
	if cfg.EventSelection != nil {
		if err = cfg.EventSelection.Install(set); err != nil {
			return nil, err
		}
	}
	for _, c := range cfg.Cuts {
		if _, err = set.AddConfig(c); err != nil {
			return nil, err
		}
	}
	if cfg.Binning != nil {
		for _, axis := range cfg.Binning.Axes() {
			spec, err := axis.Spec()
			if err != nil {
				return nil, err
			}
			if _, err = set.Add(axis.Name, spec); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// NewTaskFromConfig 按配置组装 Task，调用方负责 Close
func NewTaskFromConfig(ctx context.Context, cfg *config.Config) (*Task, error) {
	set, err := BuildCutSet(cfg)
	if err != nil {
		return nil, err
	}
	src, err := OpenSource(ctx, &cfg.Source)
	if err != nil {
		return nil, err
	}
	snk, err := OpenSink(ctx, &cfg.Sink)
	if err != nil {
		_ = src.Close()
		return nil, err
	}
	opts := []Option{WithFlushEvery(cfg.Sink.FlushEvery), WithEvents(event.EventAdmin)}
	if cfg.Period.Name != "" {
		registry := selection.NewRegistry(event.EventAdmin)
		opts = append(opts, WithPeriod(registry, selection.StaticPeriod{Name: cfg.Period.Name, Run: cfg.Period.Run}))
	}
	return NewTask(cfg.Name, set, src, snk, opts...), nil
}

package sink

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/xuenqlve/cutbrick/data_source/redis"
	"github.com/xuenqlve/cutbrick/errors"
)

const keyPrefix = "cutbrick"

// RunKey 运行级计数的哈希键
func RunKey(run string) string {
	return fmt.Sprintf("%s:%s", keyPrefix, run)
}

// CutKey 切割级计数的哈希键
func CutKey(run, cut string) string {
	return fmt.Sprintf("%s:%s:%s", keyPrefix, run, cut)
}

type increment struct {
	key   string
	field string
	value int64
}

// increments 把增量展开为 HINCRBY 命令，跳过 0
func increments(run string, delta Summary) []increment {
	var out []increment
	add := func(key, field string, v int64) {
		if v != 0 {
			out = append(out, increment{key: key, field: field, value: v})
		}
	}
	runKey := RunKey(run)
	add(runKey, "processed", delta.Processed)
	add(runKey, "selected", delta.Selected)
	add(runKey, "failed", delta.Failed)
	for _, c := range delta.Cuts {
		key := CutKey(run, c.Name)
		add(key, "passed", c.Passed)
		for i, n := range c.Bits {
			add(key, "bit:"+strconv.Itoa(i), n)
		}
	}
	return out
}

// Redis 把计数累加进 cutbrick:<run> 和 cutbrick:<run>:<cut> 哈希
type Redis struct {
	client goredis.UniversalClient
	ttl    time.Duration
}

func NewRedis(ctx context.Context, cfg *redis.Config) (*Redis, error) {
	client, err := cfg.Connect(ctx)
	if err != nil {
		return nil, errors.NewCutError(errors.ErrCodeSink, err)
	}
	return &Redis{client: client, ttl: cfg.ExpireAfter()}, nil
}

func (r *Redis) Flush(ctx context.Context, run string, delta Summary) error {
	incs := increments(run, delta)
	if len(incs) == 0 {
		return nil
	}
	_, err := r.client.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		keys := map[string]struct{}{}
		for _, inc := range incs {
			pipe.HIncrBy(ctx, inc.key, inc.field, inc.value)
			keys[inc.key] = struct{}{}
		}
		if r.ttl > 0 {
			for key := range keys {
				pipe.Expire(ctx, key, r.ttl)
			}
		}
		return nil
	})
	if err != nil {
		return errors.NewCutError(errors.ErrCodeSink, errors.Annotatef(err, "flush run %s", run))
	}
	return nil
}

func (r *Redis) Close() error {
	return errors.Trace(r.client.Close())
}

// Package checklog keeps a bounded trail of recent circulation checks in Redis.
package checklog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/picoplaca/picoplaca/internal/picoplaca"
)

const defaultKey = "picoplaca:checks"

// Options tunes the recorder.
type Options struct {
	Key      string
	Capacity int64
	TTL      time.Duration
}

// Recorder stores check results as a capped Redis list, newest first.
type Recorder struct {
	client   *redis.Client
	key      string
	capacity int64
	ttl      time.Duration
}

// NewRecorder instantiates the recorder. A nil client yields a no-op recorder.
func NewRecorder(client *redis.Client, opts Options) *Recorder {
	r := &Recorder{client: client, key: opts.Key, capacity: opts.Capacity, ttl: opts.TTL}
	if r.key == "" {
		r.key = defaultKey
	}
	if r.capacity <= 0 {
		r.capacity = 100
	}
	return r
}

// Record pushes result onto the trail and trims it to capacity.
func (r *Recorder) Record(ctx context.Context, result picoplaca.Result) error {
	if r == nil || r.client == nil {
		return nil
	}
	raw, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("checklog: encode: %w", err)
	}
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, raw)
	pipe.LTrim(ctx, r.key, 0, r.capacity-1)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("checklog: record: %w", err)
	}
	return nil
}

// Recent returns up to limit results, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]picoplaca.Result, error) {
	if r == nil || r.client == nil {
		return []picoplaca.Result{}, nil
	}
	if limit <= 0 || int64(limit) > r.capacity {
		limit = int(r.capacity)
	}
	payloads, err := r.client.LRange(ctx, r.key, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("checklog: list: %w", err)
	}
	results := make([]picoplaca.Result, 0, len(payloads))
	for _, payload := range payloads {
		var result picoplaca.Result
		if err := json.Unmarshal([]byte(payload), &result); err != nil {
			return nil, fmt.Errorf("checklog: decode: %w", err)
		}
		results = append(results, result)
	}
	return results, nil
}

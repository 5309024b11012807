package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis wraps redis client and serves as a Backend: one hash per region,
// one INCR key per counter.
type Redis struct {
	Client *redis.Client
	prefix string
}

// NewRedis connects to redis with short timeouts.
func NewRedis(addr, prefix string) *Redis {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  1 * time.Second,
		WriteTimeout: 1 * time.Second,
	})
	return NewRedisFromClient(client, prefix)
}

// NewRedisFromClient reuses an existing client.
func NewRedisFromClient(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "classroll"
	}
	return &Redis{Client: client, prefix: prefix}
}

// swapScript sets a hash field and returns the old value in one round trip.
var swapScript = redis.NewScript(`
local prev = redis.call('HGET', KEYS[1], ARGV[1])
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return prev
`)

// removeScript deletes a hash field and returns the removed value.
var removeScript = redis.NewScript(`
local prev = redis.call('HGET', KEYS[1], ARGV[1])
if prev then
	redis.call('HDEL', KEYS[1], ARGV[1])
end
return prev
`)

// RegionKey is the hash holding every record of region.
func (r *Redis) RegionKey(region Region) string {
	return fmt.Sprintf("%s:region:%d", r.prefix, uint8(region))
}

// CounterKey holds the last id handed out for region.
func (r *Redis) CounterKey(region Region) string {
	return fmt.Sprintf("%s:counter:%d", r.prefix, uint8(region))
}

// Get reads one record.
func (r *Redis) Get(ctx context.Context, region Region, id uint64) ([]byte, bool, error) {
	res, err := r.Client.HGet(ctx, r.RegionKey(region), field(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

// Put upserts one record and returns the previous value.
func (r *Redis) Put(ctx context.Context, region Region, id uint64, data []byte) ([]byte, bool, error) {
	return r.eval(ctx, swapScript, region, id, data)
}

// Delete removes one record and returns it.
func (r *Redis) Delete(ctx context.Context, region Region, id uint64) ([]byte, bool, error) {
	return r.eval(ctx, removeScript, region, id)
}

func (r *Redis) eval(ctx context.Context, script *redis.Script, region Region, id uint64, args ...any) ([]byte, bool, error) {
	argv := append([]any{field(id)}, args...)
	res, err := script.Run(ctx, r.Client, []string{r.RegionKey(region)}, argv...).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s, ok := res.(string)
	if !ok {
		return nil, false, fmt.Errorf("redis: unexpected reply %T", res)
	}
	return []byte(s), true, nil
}

// Scan loads the whole region hash and orders it by id.
func (r *Redis) Scan(ctx context.Context, region Region) ([]Entry, error) {
	all, err := r.Client.HGetAll(ctx, r.RegionKey(region)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Entry, 0, len(all))
	for k, v := range all {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis: bad record key %q in %s: %w", k, region, err)
		}
		out = append(out, Entry{ID: id, Data: []byte(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Incr relies on INCR starting a missing key at 1, so the reply is the id
// to hand out and the key always holds the last issued id.
func (r *Redis) Incr(ctx context.Context, region Region) (uint64, error) {
	v, err := r.Client.Incr(ctx, r.CounterKey(region)).Uint64()
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Peek is one past the last issued id held by the counter key.
func (r *Redis) Peek(ctx context.Context, region Region) (uint64, error) {
	v, err := r.Client.Get(ctx, r.CounterKey(region)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return v + 1, nil
}

// Healthy verifies redis connectivity.
func (r *Redis) Healthy(ctx context.Context) bool {
	if r == nil || r.Client == nil {
		return false
	}
	return r.Client.Ping(ctx).Err() == nil
}

// Close closes the client.
func (r *Redis) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

func field(id uint64) string { return strconv.FormatUint(id, 10) }

package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Reply is the outcome of one queued command, readable once the batch has run.
// Err is already classified: a missing key is not an error, anything else
// wraps models.ErrStoreUnavailable.
type Reply interface {
	Err() error
}

// Batch queues independent commands that travel to the store in one round trip.
type Batch struct {
	ctx  context.Context
	pipe redis.Pipeliner
}

// IntReply carries an integer result such as a new length or counter value.
type IntReply struct {
	op  string
	cmd *redis.IntCmd
}

func (r IntReply) Val() int64 { return r.cmd.Val() }
func (r IntReply) Err() error { return cmdError(r.op, r.cmd) }

// FloatReply carries a float result, e.g. the value after HINCRBYFLOAT.
type FloatReply struct {
	op  string
	cmd *redis.FloatCmd
}

func (r FloatReply) Val() float64 { return r.cmd.Val() }
func (r FloatReply) Err() error { return cmdError(r.op, r.cmd) }

// StringReply carries a scalar or hash field. Val is empty when it was absent.
type StringReply struct {
	op  string
	cmd *redis.StringCmd
}

func (r StringReply) Val() string { return r.cmd.Val() }
func (r StringReply) Err() error { return cmdError(r.op, r.cmd) }

// HashReply carries every field of a hash.
type HashReply struct {
	op  string
	cmd *redis.MapStringStringCmd
}

func (r HashReply) Val() map[string]string { return r.cmd.Val() }
func (r HashReply) Err() error { return cmdError(r.op, r.cmd) }

// Scan decodes the fields into a struct carrying redis tags.
func (r HashReply) Scan(dst interface{}) error { return r.cmd.Scan(dst) }

// ListReply carries the members of a list or set.
type ListReply struct {
	op  string
	cmd *redis.StringSliceCmd
}

func (r ListReply) Val() []string { return r.cmd.Val() }
func (r ListReply) Err() error { return cmdError(r.op, r.cmd) }

// HSet writes hash fields. values is either field/value pairs, a map or a
// struct with redis tags.
func (b *Batch) HSet(key string, values ...interface{}) IntReply {
	return IntReply{op: "hset", cmd: b.pipe.HSet(b.ctx, key, values...)}
}

func (b *Batch) HGet(key, field string) StringReply {
	return StringReply{op: "hget", cmd: b.pipe.HGet(b.ctx, key, field)}
}

func (b *Batch) HGetAll(key string) HashReply {
	return HashReply{op: "hgetall", cmd: b.pipe.HGetAll(b.ctx, key)}
}

func (b *Batch) HIncrBy(key, field string, incr int64) IntReply {
	return IntReply{op: "hincrby", cmd: b.pipe.HIncrBy(b.ctx, key, field, incr)}
}

func (b *Batch) HIncrByFloat(key, field string, incr float64) FloatReply {
	return FloatReply{op: "hincrbyfloat", cmd: b.pipe.HIncrByFloat(b.ctx, key, field, incr)}
}

// LPush prepends value and replies with the new list length.
func (b *Batch) LPush(key, value string) IntReply {
	return IntReply{op: "lpush", cmd: b.pipe.LPush(b.ctx, key, value)}
}

// LRem removes every occurrence of value and replies with how many went.
func (b *Batch) LRem(key, value string) IntReply {
	return IntReply{op: "lrem", cmd: b.pipe.LRem(b.ctx, key, 0, value)}
}

func (b *Batch) Del(key string) IntReply {
	return IntReply{op: "del", cmd: b.pipe.Del(b.ctx, key)}
}

func (b *Batch) SAdd(key, member string) IntReply {
	return IntReply{op: "sadd", cmd: b.pipe.SAdd(b.ctx, key, member)}
}

func (b *Batch) SMembers(key string) ListReply {
	return ListReply{op: "smembers", cmd: b.pipe.SMembers(b.ctx, key)}
}

// ZAdd sets member's score, replacing any previous one.
func (b *Batch) ZAdd(key, member string, score float64) IntReply {
	return IntReply{op: "zadd", cmd: b.pipe.ZAdd(b.ctx, key, redis.Z{Score: score, Member: member})}
}

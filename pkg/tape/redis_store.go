// 文件: pkg/tape/redis_store.go
// BarStore 的 Redis 实现 - 每个 pair 一个有序集合，score 为 unix 秒

package tape

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// luaWriteBar 原子地写入/替换一根柱并刷新 key 的 TTL
//
// KEYS[1]: pair 对应的有序集合 key
// ARGV[1]: score (tsSec)
// ARGV[2]: member 的值 ("tsSec|csv"，csv 为 EncodeBar 编码的柱)
// ARGV[3]: TTL 秒数
//
// 先删除旧 score 下的所有 member 再写入新值，避免同一秒重复写入时
// 有序集合里堆出多个 member。
const luaWriteBar = `
	redis.call('ZREMRANGEBYSCORE', KEYS[1], ARGV[1], ARGV[1])
	redis.call('ZADD', KEYS[1], ARGV[1], ARGV[2])
	redis.call('EXPIRE', KEYS[1], ARGV[3])
	return 1
`

// RedisStore 用 Redis 有序集合持久化秒级柱
//
// member 是 "tsSec|csv" 的拼接，因为 ZADD 的 member 本身不携带 score
// 之外的排序语义，解码范围查询结果时需要把 tsSec 从 member 里拆出来，
// 否则同一秒的柱无法在不二次查询的情况下复原 TsSec。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 包装一个已经建立好连接的 redis.Client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func barKey(pair string) string {
	return "tape:bars:" + pair
}

// WriteBar 把柱写入 pair 对应的有序集合，并把 TTL 刷新到 45 天
func (s *RedisStore) WriteBar(ctx context.Context, pair string, bar SecondBar) error {
	member := strconv.FormatInt(bar.TsSec, 10) + "|" + EncodeBar(bar)
	ttlSeconds := strconv.Itoa(retentionDays * 24 * 60 * 60)
	return s.client.Eval(ctx, luaWriteBar, []string{barKey(pair)},
		bar.TsSec, member, ttlSeconds).Err()
}

// RangeBars 按 score 区间扫描并解码为 SecondBar 列表，按时间升序
func (s *RedisStore) RangeBars(ctx context.Context, pair string, startSec, endSec int64) ([]SecondBar, error) {
	members, err := s.client.ZRangeByScore(ctx, barKey(pair), &redis.ZRangeBy{
		Min: strconv.FormatInt(startSec, 10),
		Max: strconv.FormatInt(endSec, 10),
	}).Result()
	if err != nil {
		return nil, err
	}

	out := make([]SecondBar, 0, len(members))
	for _, m := range members {
		tsSec, csv, ok := splitMember(m)
		if !ok {
			continue
		}
		bar, err := DecodeBar(tsSec, csv)
		if err != nil {
			return nil, err
		}
		out = append(out, bar)
	}
	return out, nil
}

func splitMember(m string) (int64, string, bool) {
	for i := 0; i < len(m); i++ {
		if m[i] == '|' {
			tsSec, err := strconv.ParseInt(m[:i], 10, 64)
			if err != nil {
				return 0, "", false
			}
			return tsSec, m[i+1:], true
		}
	}
	return 0, "", false
}

// Ping 检查与 Redis 的连通性，用于启动自检
func (s *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err()
}

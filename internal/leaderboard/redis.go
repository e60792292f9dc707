package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisScoresKey   = "ordix:leaderboard"
	redisEntryPrefix = "ordix:leaderboard:entry:"
)

// Redis keeps scores in a sorted set and per-user metadata in hashes.
type Redis struct {
	client *redis.Client
	now    func() time.Time
}

func OpenRedis(ctx context.Context, addr, password string, db int) (*Redis, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis %s: %w", addr, err)
	}
	return NewRedis(client), nil
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client, now: time.Now}
}

func (r *Redis) UpsertBestScore(ctx context.Context, username, deviceID string, score int) (int, error) {
	now := r.now().UTC().Format(time.RFC3339Nano)
	entryKey := redisEntryPrefix + username

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAddArgs(ctx, redisScoresKey, redis.ZAddArgs{
			GT:      true,
			Members: []redis.Z{{Score: float64(score), Member: username}},
		})
		pipe.HSetNX(ctx, entryKey, "createdAt", now)
		pipe.HSet(ctx, entryKey, "deviceId", deviceID, "updatedAt", now)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("upserting score: %w", err)
	}
	return r.BestScore(ctx, username)
}

func (r *Redis) TopScores(ctx context.Context, limit int) ([]Entry, error) {
	limit = normalizeLimit(limit)
	members, err := r.client.ZRevRangeWithScores(ctx, redisScoresKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("querying top scores: %w", err)
	}

	cmds := make([]*redis.MapStringStringCmd, len(members))
	_, err = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, m := range members {
			cmds[i] = pipe.HGetAll(ctx, redisEntryPrefix+m.Member.(string))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading entries: %w", err)
	}

	out := make([]Entry, len(members))
	for i, m := range members {
		meta := cmds[i].Val()
		out[i] = Entry{
			Username:  m.Member.(string),
			DeviceID:  meta["deviceId"],
			Score:     int(m.Score),
			CreatedAt: parseTime(meta["createdAt"]),
			UpdatedAt: parseTime(meta["updatedAt"]),
		}
	}
	return out, nil
}

func (r *Redis) Rank(ctx context.Context, score int) (int, error) {
	n, err := r.client.ZCount(ctx, redisScoresKey, "("+strconv.Itoa(score), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("counting scores: %w", err)
	}
	return int(n) + 1, nil
}

func (r *Redis) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.client.ZScore(ctx, redisScoresKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return true, nil
}

func (r *Redis) BestScore(ctx context.Context, username string) (int, error) {
	score, err := r.client.ZScore(ctx, redisScoresKey, username).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("getting score: %w", err)
	}
	return int(score), nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

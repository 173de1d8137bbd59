package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const availabilityPrefix = "availability:"

// Availability caches booked hours per venue day in Redis
type Availability struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewAvailability(client *redis.Client, ttl time.Duration) *Availability {
	return &Availability{client: client, ttl: ttl}
}

func availabilityKey(date time.Time) string {
	return availabilityPrefix + date.Format(time.DateOnly)
}

func encodeHours(hours []int) ([]byte, error) {
	if hours == nil {
		hours = []int{}
	}
	return json.Marshal(hours)
}

func decodeHours(data []byte) ([]int, error) {
	var hours []int
	if err := json.Unmarshal(data, &hours); err != nil {
		return nil, err
	}
	return hours, nil
}

func (a *Availability) Get(ctx context.Context, date time.Time) ([]int, bool, error) {
	val, err := a.client.Get(ctx, availabilityKey(date)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	hours, err := decodeHours(val)
	if err != nil {
		return nil, false, fmt.Errorf("decode cached hours: %w", err)
	}
	return hours, true, nil
}

func (a *Availability) Set(ctx context.Context, date time.Time, hours []int) error {
	data, err := encodeHours(hours)
	if err != nil {
		return err
	}
	return a.client.Set(ctx, availabilityKey(date), data, a.ttl).Err()
}

func (a *Availability) Invalidate(ctx context.Context, dates ...time.Time) error {
	if len(dates) == 0 {
		return nil
	}
	keys := make([]string, 0, len(dates))
	for _, d := range dates {
		keys = append(keys, availabilityKey(d))
	}
	return a.client.Del(ctx, keys...).Err()
}

// Ping checks the connection at startup
func (a *Availability) Ping(ctx context.Context) error {
	return a.client.Ping(ctx).Err()
}

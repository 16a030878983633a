// Copyright 2026 Esteban Alvarez. All Rights Reserved.
//
// Created: August 2026
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package persistence

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"changeq"
)

// SetAdder abstracts the minimal surface we need from a Redis client: a
// set insertion returning the number of members actually added.
// Implementations may wrap github.com/redis/go-redis/v9 or any equivalent.
type SetAdder interface {
	SAdd(ctx context.Context, key string, members ...interface{}) (int64, error)
}

// RedisStore keeps one Redis set per (category, user) pair. SADD gives the
// uniqueness constraint and the inserted count in a single round trip:
// members already queued are skipped server-side and not counted.
type RedisStore struct {
	client SetAdder
}

// NewRedisStore returns a store backed by the given client.
func NewRedisStore(client SetAdder) *RedisStore {
	return &RedisStore{client: client}
}

// RedisQueueKey returns the set key for a (category, user) queue. Public
// for interoperability with the external delivery consumer.
func RedisQueueKey(cat changeq.Category, userID string) string {
	return fmt.Sprintf("changeq:%s:%s", cat, userID)
}

// Enqueue adds the entity ids to the user's queue set for cat.
func (r *RedisStore) Enqueue(ctx context.Context, userID string, entityIDs []string, cat changeq.Category) (int, error) {
	if err := checkCategory(cat); err != nil {
		return 0, err
	}
	if len(entityIDs) == 0 {
		return 0, nil
	}
	members := make([]interface{}, len(entityIDs))
	for i, id := range entityIDs {
		members[i] = id
	}
	n, err := r.client.SAdd(ctx, RedisQueueKey(cat, userID), members...)
	if err != nil {
		return 0, fmt.Errorf("redis sadd %s user=%s: %w", cat, userID, err)
	}
	return int(n), nil
}

// Close is a no-op for clients not owned by the store; the go-redis-backed
// adder closes its own client.
func (r *RedisStore) Close() error {
	if c, ok := r.client.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// GoRedisAdder is a production client wrapper implementing SetAdder using
// github.com/redis/go-redis/v9. Use NewGoRedisAdder to construct it with
// an address like "127.0.0.1:6379".
type GoRedisAdder struct{ c *redis.Client }

// NewGoRedisAdder connects to addr and verifies the server responds before
// returning; a dead server is a fatal startup error, not a runtime one.
func NewGoRedisAdder(ctx context.Context, addr string) (*GoRedisAdder, error) {
	c := redis.NewClient(&redis.Options{Addr: addr})
	if err := c.Ping(ctx).Err(); err != nil {
		c.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &GoRedisAdder{c: c}, nil
}

func (g *GoRedisAdder) SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	return g.c.SAdd(ctx, key, members...).Result()
}

func (g *GoRedisAdder) Close() error { return g.c.Close() }

// LoggingSetAdder is a tiny demo client that just logs the insertion and
// pretends every member was new. It lets the demo select the Redis backend
// without needing a real server. Not for production use.
type LoggingSetAdder struct{}

func (LoggingSetAdder) SAdd(ctx context.Context, key string, members ...interface{}) (int64, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}
	fmt.Printf("[redis-demo] SADD %s (%d members)\n", key, len(members))
	return int64(len(members)), nil
}

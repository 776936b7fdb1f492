// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package account

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// tokenPrefix namespaces reset tokens in Valkey.
const tokenPrefix = "pwreset:"

// ValkeyTokens stores reset tokens in Valkey with a TTL.
type ValkeyTokens struct {
	client *redis.Client
}

// NewValkeyTokens creates a token store on client.
func NewValkeyTokens(client *redis.Client) *ValkeyTokens {
	return &ValkeyTokens{client: client}
}

// Put stores token for userID.
func (t *ValkeyTokens) Put(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if err := t.client.Set(ctx, tokenPrefix+token, userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("reset token set: %w", err)
	}
	return nil
}

// Take atomically reads and deletes token.
func (t *ValkeyTokens) Take(ctx context.Context, token string) (uuid.UUID, bool, error) {
	if token == "" {
		return uuid.Nil, false, nil
	}
	v, err := t.client.GetDel(ctx, tokenPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("reset token take: %w", err)
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return uuid.Nil, false, nil
	}
	return id, true, nil
}

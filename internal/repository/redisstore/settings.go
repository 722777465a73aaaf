// Package redisstore persists admin settings in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Brigames121/ChatGPT-Beta/internal/domain"
	"github.com/Brigames121/ChatGPT-Beta/internal/repository"
)

const (
	defaultPrefix = "technobytex:setting:"
	scanBatch     = 100
)

// SettingStore implements repository.SettingRepository on Redis. Each setting
// is a JSON document under prefix+id.
type SettingStore struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

var _ repository.SettingRepository = (*SettingStore)(nil)

// Dial connects to addr and verifies the connection before returning a store.
func Dial(ctx context.Context, addr, password string, db int) (*SettingStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return New(client, ""), nil
}

// New wraps an existing client. An empty prefix selects the default.
func New(client redis.UniversalClient, prefix string) *SettingStore {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultPrefix
	}
	return &SettingStore{client: client, prefix: prefix, timeout: time.Second}
}

func (s *SettingStore) UpsertSetting(ctx context.Context, setting domain.Setting) error {
	data, err := json.Marshal(setting)
	if err != nil {
		return fmt.Errorf("marshal setting: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Set(ctx, s.prefix+setting.ID, data, 0).Err(); err != nil {
		return fmt.Errorf("store setting %s: %w", setting.ID, err)
	}
	return nil
}

func (s *SettingStore) GetSetting(ctx context.Context, id string) (*domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load setting %s: %w", id, err)
	}
	var setting domain.Setting
	if err := json.Unmarshal(data, &setting); err != nil {
		return nil, fmt.Errorf("unmarshal setting %s: %w", id, err)
	}
	return &setting, nil
}

// ListSettings scans the key space for settings and returns them ordered by id.
func (s *SettingStore) ListSettings(ctx context.Context) ([]domain.Setting, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*s.timeout)
	defer cancel()

	var keys []string
	var cursor uint64
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("scan settings: %w", err)
		}
		keys = append(keys, batch...)
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if len(keys) == 0 {
		return []domain.Setting{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	out := make([]domain.Setting, 0, len(values))
	for i, raw := range values {
		str, ok := raw.(string)
		if !ok {
			// deleted between SCAN and MGET
			continue
		}
		var setting domain.Setting
		if err := json.Unmarshal([]byte(str), &setting); err != nil {
			return nil, fmt.Errorf("unmarshal setting %s: %w", strings.TrimPrefix(keys[i], s.prefix), err)
		}
		out = append(out, setting)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Ping reports whether Redis is reachable.
func (s *SettingStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *SettingStore) Close() error {
	return s.client.Close()
}

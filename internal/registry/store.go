package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/aman-zulfiqar/solana-txkit/internal/constants"
	"github.com/redis/go-redis/v9"
)

var programIDRe = regexp.MustCompile(`^[1-9A-HJ-NP-Za-km-z]{32,44}$`)

// Store persists program-route manifests in redis, indexed by program ID.
type Store struct {
	client redis.Cmdable
}

func NewStore(client redis.Cmdable) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &Store{client: client}, nil
}

func ValidateProgramID(id string) error {
	if !programIDRe.MatchString(id) {
		return fmt.Errorf("invalid program id")
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, m Manifest) (*Manifest, error) {
	if err := ValidateProgramID(m.ProgramID); err != nil {
		return nil, err
	}
	if !m.Route.Valid() {
		return nil, fmt.Errorf("invalid route %q", m.Route)
	}

	m.UpdatedAt = time.Now().UTC()
	b, err := json.Marshal(&m)
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, manifestKey(m.ProgramID), b, 0)
	pipe.SAdd(ctx, constants.RedisKeyProgramIndex, m.ProgramID)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("upsert manifest: %w", err)
	}

	return &m, nil
}

func (s *Store) Get(ctx context.Context, programID string) (*Manifest, error) {
	if err := ValidateProgramID(programID); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, manifestKey(programID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

func (s *Store) List(ctx context.Context) ([]*Manifest, error) {
	ids, err := s.client.SMembers(ctx, constants.RedisKeyProgramIndex).Result()
	if err != nil {
		return nil, fmt.Errorf("list manifest index: %w", err)
	}
	if len(ids) == 0 {
		return []*Manifest{}, nil
	}

	redisKeys := make([]string, 0, len(ids))
	for _, id := range ids {
		if err := ValidateProgramID(id); err != nil {
			continue
		}
		redisKeys = append(redisKeys, manifestKey(id))
	}
	if len(redisKeys) == 0 {
		return []*Manifest{}, nil
	}

	vals, err := s.client.MGet(ctx, redisKeys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget manifests: %w", err)
	}

	out := make([]*Manifest, 0, len(vals))
	for _, v := range vals {
		if v == nil {
			continue
		}
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var m Manifest
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			continue
		}
		out = append(out, &m)
	}

	return out, nil
}

func (s *Store) Delete(ctx context.Context, programID string) error {
	if err := ValidateProgramID(programID); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, manifestKey(programID))
	pipe.SRem(ctx, constants.RedisKeyProgramIndex, programID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete manifest: %w", err)
	}

	return nil
}

// Resolve returns the route to use for a program. Unknown or disabled
// programs fall back to the dynamic schema-driven path.
func (s *Store) Resolve(ctx context.Context, programID string) (Route, error) {
	m, err := s.Get(ctx, programID)
	if err == ErrNotFound {
		return RouteDynamic, nil
	}
	if err != nil {
		return "", err
	}
	if !m.Enabled {
		return RouteDynamic, nil
	}
	return m.Route, nil
}

func manifestKey(programID string) string {
	return constants.RedisKeyProgramPrefix + programID
}

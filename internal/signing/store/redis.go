package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisSessionPrefix = "docsign:session:"
	redisUserPrefix    = "docsign:user:"
	redisOrderKey      = "docsign:sessions"
)

// Redis stores sessions as JSON documents. Insertion order is kept in one list
// per user and in a global list used by FindByStatus.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func sessionKey(sessionID string) string {
	return redisSessionPrefix + sessionID
}

func userKey(userID string) string {
	return redisUserPrefix + userID
}

func (r *Redis) Save(ctx context.Context, session *Session) error {
	if session.SessionID == "" {
		return ErrMissingSessionID
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, sessionKey(session.SessionID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	if !ok {
		return ErrAlreadyExists
	}

	if _, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, userKey(session.UserID), session.SessionID)
		pipe.RPush(ctx, redisOrderKey, session.SessionID)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to index session: %w", err)
	}

	return nil
}

func (r *Redis) FindByID(ctx context.Context, sessionID string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

func (r *Redis) FindByUserID(ctx context.Context, userID string) ([]*Session, error) {
	ids, err := r.client.LRange(ctx, userKey(userID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list user sessions: %w", err)
	}

	return r.load(ctx, ids)
}

func (r *Redis) FindByStatus(ctx context.Context, status Status, createdBefore time.Time) ([]*Session, error) {
	ids, err := r.client.LRange(ctx, redisOrderKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	sessions, err := r.load(ctx, ids)
	if err != nil {
		return nil, err
	}

	res := make([]*Session, 0)
	for _, session := range sessions {
		if session.Status == status && session.CreatedAt.Before(createdBefore) {
			res = append(res, session)
		}
	}

	return res, nil
}

// load fetches ids in order, skipping ids whose document is gone.
func (r *Redis) load(ctx context.Context, ids []string) ([]*Session, error) {
	res := make([]*Session, 0, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	for _, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		var session Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			return nil, fmt.Errorf("failed to unmarshal session: %w", err)
		}
		res = append(res, &session)
	}

	return res, nil
}

func (r *Redis) Update(ctx context.Context, session *Session) error {
	key := sessionKey(session.SessionID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}

			return fmt.Errorf("failed to get session: %w", err)
		}

		var prev Session
		if err := json.Unmarshal(data, &prev); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}

		if prev.Version != session.Version {
			return ErrConflict
		}

		if err := CheckUpdate(&prev, session); err != nil {
			return err
		}

		next := session.Clone()
		next.Version++

		updated, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)
			return nil
		})

		return err
	}, key)
	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return ErrConflict
		}

		return err
	}

	session.Version++

	return nil
}

func (r *Redis) Delete(ctx context.Context, sessionID string) error {
	session, err := r.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}

	if _, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(sessionID))
		pipe.LRem(ctx, userKey(session.UserID), 0, sessionID)
		pipe.LRem(ctx, redisOrderKey, 0, sessionID)
		return nil
	}); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

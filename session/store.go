package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is returned when the backing store cannot be reached.
// It is the store-unavailable failure mode of every Store operation; the
// store itself never retries.
var ErrRedisUnavailable = errors.New("redis unavailable")

// deleteRecordScript removes a session record and its index entry as one
// atomic unit, so a record and its owner's index never disagree within a
// single delete.
const deleteRecordScript = `
local existed = redis.call("EXISTS", KEYS[1])
redis.call("SREM", KEYS[2], ARGV[1])
if existed == 1 then
  redis.call("DEL", KEYS[1])
end
return existed
`

var deleteRecordLua = redis.NewScript(deleteRecordScript)

// Store is the Redis-backed session store adapter. It serializes and
// deserializes [Record] values, applies TTLs, and maintains the per-user
// index of active session tokens.
//
// Key scheme: <prefix>:session:<token> holds the encoded record;
// <prefix>:user_sessions:<user_id> is the set of the user's tokens.
type Store struct {
	redis  redis.UniversalClient
	prefix string
}

// NewStore creates a session [Store] backed by the given Redis client.
// prefix sets the Redis key namespace.
func NewStore(redis redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = "sg"
	}
	return &Store{
		redis:  redis,
		prefix: prefix,
	}
}

func (s *Store) sessionKey(token string) string {
	return s.prefix + ":session:" + token
}

func (s *Store) userKey(userID string) string {
	return s.prefix + ":user_sessions:" + userID
}

// Save persists a [Record] with the given TTL and adds its token to the
// owning user's index in the same transactional pipeline.
func (s *Store) Save(ctx context.Context, rec *Record, ttl time.Duration) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}

	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.sessionKey(rec.Token), data, ttl)
		pipe.SAdd(ctx, s.userKey(rec.UserID), rec.Token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Update overwrites an existing record with a refreshed TTL. The index is
// untouched; the token does not change. TTL refresh on activity is this
// explicit call, never a side effect of Get.
func (s *Store) Update(ctx context.Context, rec *Record, ttl time.Duration) error {
	data, err := Encode(rec)
	if err != nil {
		return err
	}

	if err := s.redis.Set(ctx, s.sessionKey(rec.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Get retrieves a record by token. Returns redis.Nil when no such session
// exists (a live TTL expiry looks identical to a never-issued token).
func (s *Store) Get(ctx context.Context, token string) (*Record, error) {
	data, err := s.redis.Get(ctx, s.sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return nil, err
	}
	rec.Token = token

	return rec, nil
}

// GetMany fetches multiple records through one pipeline. Tokens whose
// records have expired or vanished are skipped, not errors.
func (s *Store) GetMany(ctx context.Context, tokens []string) ([]*Record, error) {
	if len(tokens) == 0 {
		return []*Record{}, nil
	}

	pipe := s.redis.Pipeline()
	cmds := make([]*redis.StringCmd, len(tokens))
	for i, token := range tokens {
		cmds[i] = pipe.Get(ctx, s.sessionKey(token))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	records := make([]*Record, 0, len(tokens))
	for i, cmd := range cmds {
		data, cmdErr := cmd.Bytes()
		if cmdErr != nil {
			if errors.Is(cmdErr, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, cmdErr)
		}

		rec, decErr := Decode(data)
		if decErr != nil {
			return nil, decErr
		}
		rec.Token = tokens[i]
		records = append(records, rec)
	}

	return records, nil
}

// Delete removes a session and its index entry. Resolves the owner from the
// stored record first; a token that is already gone is not an error.
func (s *Store) Delete(ctx context.Context, token string) error {
	data, err := s.redis.Get(ctx, s.sessionKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	rec, err := Decode(data)
	if err != nil {
		return err
	}

	_, err = s.DeleteOwned(ctx, rec.UserID, token)
	return err
}

// DeleteOwned removes a session whose owner is already known, skipping the
// lookup round trip. Returns whether the record still existed.
func (s *Store) DeleteOwned(ctx context.Context, userID, token string) (bool, error) {
	keys := []string{s.sessionKey(token), s.userKey(userID)}
	existed, err := deleteRecordLua.Run(ctx, s.redis, keys, token).Int64()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return existed == 1, nil
}

// Rotate replaces a session's token: the record is stored under newToken
// with the given TTL, the old key is deleted, and the user's index is
// updated, all in one transactional pipeline. rec.Token must still hold the
// old token when Rotate is called; on return it holds newToken.
//
// Concurrent rotations of the same session race benignly: the last writer
// wins and the loser's token is never indexed under a live record.
func (s *Store) Rotate(ctx context.Context, rec *Record, newToken string, ttl time.Duration) error {
	oldToken := rec.Token
	rec.Token = newToken

	data, err := Encode(rec)
	if err != nil {
		rec.Token = oldToken
		return err
	}

	userKey := s.userKey(rec.UserID)
	_, err = s.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.sessionKey(newToken), data, ttl)
		pipe.Del(ctx, s.sessionKey(oldToken))
		pipe.SRem(ctx, userKey, oldToken)
		pipe.SAdd(ctx, userKey, newToken)
		return nil
	})
	if err != nil {
		rec.Token = oldToken
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	return nil
}

// Members returns the tracked session tokens for a user.
func (s *Store) Members(ctx context.Context, userID string) ([]string, error) {
	tokens, err := s.redis.SMembers(ctx, s.userKey(userID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return tokens, nil
}

// Count returns the size of a user's session index.
func (s *Store) Count(ctx context.Context, userID string) (int, error) {
	count, err := s.redis.SCard(ctx, s.userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return int(count), nil
}

// RemoveFromIndex drops a token from a user's index without touching the
// record. Used for orphaned index entries whose records the TTL already
// reclaimed.
func (s *Store) RemoveFromIndex(ctx context.Context, userID, token string) error {
	if err := s.redis.SRem(ctx, s.userKey(userID), token).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Ping returns a point-in-time Redis availability check and latency.
func (s *Store) Ping(ctx context.Context) (time.Duration, error) {
	start := time.Now()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return time.Since(start), fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return time.Since(start), nil
}

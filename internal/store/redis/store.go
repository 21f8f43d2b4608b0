package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/letterplace/internal/domain"
	"github.com/MrSnakeDoc/letterplace/internal/logger"
	"github.com/MrSnakeDoc/letterplace/internal/store"
)

// mergeScript updates fields of an existing hash only. Running it as a
// script keeps a merge racing a delete from recreating a partial entry.
//
// KEYS[1] entry key, ARGV[1] change channel, ARGV[2..] field/value pairs.
var mergeScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], unpack(ARGV, 2))
redis.call('PUBLISH', ARGV[1], KEYS[1])
return 1
`)

// Store handles Redis operations for entries
type Store struct {
	client *redis.Client
	logger logger.Logger
}

var _ store.Store = (*Store)(nil)

// NewStore creates a new Redis store
func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}

// Insert stores a new entry, registers it in the ID set and publishes a
// change, all in one MULTI/EXEC block
func (s *Store) Insert(ctx context.Context, e domain.Entry) (domain.Entry, error) {
	if err := e.Validate(); err != nil {
		return domain.Entry{}, err
	}
	e.ID = uuid.NewString()
	key := EntryKey(e.ID)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, encodeEntry(e)...)
		pipe.SAdd(ctx, AllEntriesKey(), e.ID)
		pipe.Publish(ctx, ChannelChanges, key)
		return nil
	})
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to insert entry: %w", err)
	}

	return e, nil
}

// Get retrieves an entry from Redis by ID
func (s *Store) Get(ctx context.Context, id string) (domain.Entry, error) {
	fields, err := s.client.HGetAll(ctx, EntryKey(id)).Result()
	if err != nil {
		return domain.Entry{}, fmt.Errorf("failed to get entry: %w", err)
	}
	if len(fields) == 0 {
		return domain.Entry{}, fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	return decodeEntry(id, fields)
}

// Query retrieves all entries and returns the view described by q
func (s *Store) Query(ctx context.Context, q domain.Query) ([]domain.Entry, error) {
	ids, err := s.client.SMembers(ctx, AllEntriesKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get entry IDs: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Entry{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, EntryKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	entries := make([]domain.Entry, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// ID left in the set by an interrupted delete
			continue
		}
		e, err := decodeEntry(ids[i], fields)
		if err != nil {
			s.logger.Warn("skipping invalid entry document",
				logger.String("entry_id", ids[i]),
				logger.Error(err))
			continue
		}
		entries = append(entries, e)
	}

	return q.Apply(entries), nil
}

// Merge applies a partial update to an existing entry
func (s *Store) Merge(ctx context.Context, id string, p store.Patch) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if p.Empty() {
		return nil
	}

	args := append([]interface{}{ChannelChanges}, encodePatch(p)...)
	updated, err := mergeScript.Run(ctx, s.client, []string{EntryKey(id)}, args...).Int()
	if err != nil {
		return fmt.Errorf("failed to merge entry: %w", err)
	}
	if updated == 0 {
		return fmt.Errorf("%w: %s", store.ErrNotFound, id)
	}

	return nil
}

// Delete removes an entry from Redis
func (s *Store) Delete(ctx context.Context, id string) error {
	key := EntryKey(id)

	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, AllEntriesKey(), id)
		pipe.Publish(ctx, ChannelChanges, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	return nil
}

// Count returns the size of the whole collection
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.SCard(ctx, AllEntriesKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return int(n), nil
}

// Ping checks the connection
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// ─────────────────────────────────────────────────────────────────
// Change notifications
// ─────────────────────────────────────────────────────────────────

type subscription struct {
	pubsub *redis.PubSub
	ch     chan struct{}
	once   sync.Once
}

func (sub *subscription) C() <-chan struct{} { return sub.ch }

func (sub *subscription) Close() error {
	var err error
	sub.once.Do(func() { err = sub.pubsub.Close() })
	return err
}

// Subscribe listens on the change channel. Messages are coalesced: a
// listener that is busy refreshing sees at most one pending signal.
// Payloads that are not entry keys are ignored.
func (s *Store) Subscribe(ctx context.Context) (store.Subscription, error) {
	pubsub := s.client.Subscribe(ctx, ChannelChanges)

	// Wait for the subscription to be confirmed so no write is missed
	// between Subscribe returning and the first receive.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	sub := &subscription{pubsub: pubsub, ch: make(chan struct{}, 1)}
	msgs := pubsub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				id, err := ExtractEntryID(msg.Payload)
				if err != nil {
					s.logger.Warn("ignoring foreign change notification",
						logger.String("payload", msg.Payload))
					continue
				}
				s.logger.Debug("entry changed", logger.String("id", id))
				select {
				case sub.ch <- struct{}{}:
				default:
				}
			}
		}
	}()

	return sub, nil
}

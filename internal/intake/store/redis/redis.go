// Package redis persists client records as JSON documents in Redis. Execute
// uses WATCH-guarded transactions so concurrent writers to the same record
// retry instead of clobbering each other.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"intake/internal/intake/models"
	id "intake/pkg/domain"
	"intake/pkg/platform/sentinel"
	"intake/pkg/requestcontext"
)

const (
	recordKeyPrefix = "intake:client:"
	sequenceKey     = "intake:client_number"

	// executeRetries bounds WATCH retries under contention.
	executeRetries = 5
)

type Store struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func recordKey(clientID id.ClientID) string {
	return recordKeyPrefix + clientID.String()
}

func (s *Store) Create(ctx context.Context, record *models.ClientRecord) error {
	now := requestcontext.Now(ctx)
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal client record: %w", err)
	}
	ok, err := s.client.SetNX(ctx, recordKey(record.ID), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("store client record: %w", err)
	}
	if !ok {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *Store) FindByID(ctx context.Context, clientID id.ClientID) (*models.ClientRecord, error) {
	payload, err := s.client.Get(ctx, recordKey(clientID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load client record: %w", err)
	}
	var record models.ClientRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("unmarshal client record: %w", err)
	}
	return &record, nil
}

func (s *Store) Execute(ctx context.Context, clientID id.ClientID,
	validate func(*models.ClientRecord) error,
	mutate func(*models.ClientRecord)) (*models.ClientRecord, error) {

	key := recordKey(clientID)
	var updated *models.ClientRecord

	txn := func(tx *redis.Tx) error {
		payload, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load client record: %w", err)
		}

		var record models.ClientRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return fmt.Errorf("unmarshal client record: %w", err)
		}

		if err := validate(&record); err != nil {
			return err
		}
		mutate(&record)
		record.Version++
		record.UpdatedAt = requestcontext.Now(ctx)

		next, err := json.Marshal(&record)
		if err != nil {
			return fmt.Errorf("marshal client record: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &record
		return nil
	}

	for i := 0; i < executeRetries; i++ {
		err := s.client.Watch(ctx, txn, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, sentinel.ErrVersionMismatch
}

func (s *Store) NextSequence(ctx context.Context) (int64, error) {
	seq, err := s.client.Incr(ctx, sequenceKey).Result()
	if err != nil {
		return 0, fmt.Errorf("next client number: %w", err)
	}
	return seq, nil
}

func (s *Store) Health(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"conversational-recommendation/internal/model"
	"conversational-recommendation/internal/observability"
	repo "conversational-recommendation/internal/recommend/repository"
)

// GetSession loads a session by id.
// Returns zero-value Session (ID == "") when absent, do NOT return error for not-found.
func (r *implRepository) GetSession(ctx context.Context, id string) (model.Session, error) {
	start := time.Now()
	defer func() { observability.RecordSessionStoreOp("get", time.Since(start)) }()

	opCtx, cancel := context.WithTimeout(ctx, r.cfg.OpTimeout)
	defer cancel()

	return r.getSession(opCtx, id)
}

func (r *implRepository) getSession(ctx context.Context, id string) (model.Session, error) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if err == goredis.Nil {
		return model.Session{}, nil // absent: zero value, no error
	}
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("GetSession"), err)
		return model.Session{}, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		r.l.Errorf(ctx, "%s: corrupt record for %q: %v", r.dsn("GetSession"), id, err)
		return model.Session{}, repo.ErrFailedToGet
	}
	return sess, nil
}

// AppendTurn appends one turn and returns the updated session. The record is
// written back with a fresh TTL, so the idle clock slides on every turn.
// Creates the session on first append.
func (r *implRepository) AppendTurn(ctx context.Context, id string, opt repo.AppendTurnOptions) (model.Session, error) {
	start := time.Now()
	defer func() { observability.RecordSessionStoreOp("append", time.Since(start)) }()

	sl := r.acquireLock(id)
	defer r.releaseLock(id, sl)

	opCtx, cancel := context.WithTimeout(ctx, r.cfg.OpTimeout)
	defer cancel()

	sess, err := r.getSession(opCtx, id)
	if err != nil {
		return model.Session{}, err
	}

	now := time.Now().UTC()
	if sess.IsZero() {
		sess = model.Session{ID: id, CreatedAt: now}
	}
	sess.Turns = append(sess.Turns, model.Turn{
		Number:         sess.NextTurnNumber(),
		Query:          opt.Query,
		Categories:     opt.Categories,
		RecommendedIDs: opt.RecommendedIDs,
		Timestamp:      now,
	})
	sess.UpdatedAt = now

	raw, err := json.Marshal(sess)
	if err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("AppendTurn"), err)
		return model.Session{}, repo.ErrFailedToAppend
	}

	if err := r.client.Set(opCtx, r.key(id), raw, r.cfg.SessionTTL).Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("AppendTurn"), err)
		return model.Session{}, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return sess, nil
}

// DeleteSession removes a session record. Deleting an absent session is not
// an error.
func (r *implRepository) DeleteSession(ctx context.Context, id string) error {
	start := time.Now()
	defer func() { observability.RecordSessionStoreOp("delete", time.Since(start)) }()

	opCtx, cancel := context.WithTimeout(ctx, r.cfg.OpTimeout)
	defer cancel()

	if err := r.client.Del(opCtx, r.key(id)).Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("DeleteSession"), err)
		return fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}
	return nil
}

// Sweep walks the session keyspace, counts live sessions and re-arms the TTL
// on keys that lost theirs (manual writes, restores from dump). Redis evicts
// expired keys on its own; this pass exists so a key can never get stuck
// forever.
func (r *implRepository) Sweep(ctx context.Context) (repo.SweepResult, error) {
	var res repo.SweepResult

	iter := r.client.Scan(ctx, 0, r.cfg.KeyPrefix+"session:*", 256).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		res.Live++

		ttl, err := r.client.TTL(ctx, key).Result()
		if err != nil {
			r.l.Warnf(ctx, "%s: TTL %q: %v", r.dsn("Sweep"), key, err)
			continue
		}
		if ttl == -1 { // exists but has no expiry
			if err := r.client.Expire(ctx, key, r.cfg.SessionTTL).Err(); err != nil {
				r.l.Warnf(ctx, "%s: EXPIRE %q: %v", r.dsn("Sweep"), key, err)
				continue
			}
			res.Repaired++
		}
	}
	if err := iter.Err(); err != nil {
		r.l.Errorf(ctx, "%s: %v", r.dsn("Sweep"), err)
		return res, fmt.Errorf("%w: %v", repo.ErrUnavailable, err)
	}

	return res, nil
}

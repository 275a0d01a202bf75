package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/readcircle/readcircle-server/internal/domain"
)

// Key prefixes for auth-session storage.
const (
	sessionPrefix      = "session:"
	sessionsRefreshIdx = "idx:sessions:refresh:" // idx:sessions:refresh:{tokenHash} -> sessionID
	sessionsUserIdx    = "idx:sessions:user:"    // idx:sessions:user:{userID}:{sessionID}
)

// CreateSession stores a new refresh session with its lookup indexes.
func (s *Store) CreateSession(_ context.Context, session *domain.Session) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(session)
		if err != nil {
			return err
		}

		if err := txn.Set([]byte(sessionPrefix+session.ID), data); err != nil {
			return err
		}
		if err := txn.Set([]byte(sessionsRefreshIdx+session.RefreshTokenHash), []byte(session.ID)); err != nil {
			return err
		}

		userKey := fmt.Appendf(nil, "%s%s:%s", sessionsUserIdx, session.UserID, session.ID)
		return txn.Set(userKey, []byte{})
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("session created", "id", session.ID, "user_id", session.UserID)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(_ context.Context, id string) (*domain.Session, error) {
	var session domain.Session
	if err := s.get([]byte(sessionPrefix+id), &session); err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &session, nil
}

// GetSessionByRefreshToken retrieves a session by the hash of its refresh token.
func (s *Store) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	var sessionID string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionsRefreshIdx + tokenHash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			sessionID = string(val)
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("get session by refresh token: %w", err)
	}

	return s.GetSession(ctx, sessionID)
}

// UpdateSession updates an existing session.
// The refresh-token index is rebuilt if the token hash rotated.
func (s *Store) UpdateSession(ctx context.Context, session *domain.Session) error {
	old, err := s.GetSession(ctx, session.ID)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		data, err := marshalValue(session)
		if err != nil {
			return err
		}
		if err := txn.Set([]byte(sessionPrefix+session.ID), data); err != nil {
			return err
		}

		if old.RefreshTokenHash != session.RefreshTokenHash {
			if err := txn.Delete([]byte(sessionsRefreshIdx + old.RefreshTokenHash)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
				return err
			}
			if err := txn.Set([]byte(sessionsRefreshIdx+session.RefreshTokenHash), []byte(session.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// DeleteSession removes a session and its indexes.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	session, err := s.GetSession(ctx, id)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(sessionPrefix + id)); err != nil {
			return err
		}
		if err := txn.Delete([]byte(sessionsRefreshIdx + session.RefreshTokenHash)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		userKey := fmt.Appendf(nil, "%s%s:%s", sessionsUserIdx, session.UserID, id)
		if err := txn.Delete(userKey); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("session deleted", "id", id, "user_id", session.UserID)
	}
	return nil
}

// DeleteExpiredSessions removes every session past its expiry.
// Returns the number of sessions removed.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	var expired []string

	prefix := []byte(sessionPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		now := time.Now()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var session domain.Session
				if err := unmarshalValue(val, &session); err != nil {
					return err
				}
				if now.After(session.ExpiresAt) {
					expired = append(expired, session.ID)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("scan sessions: %w", err)
	}

	for _, id := range expired {
		if err := s.DeleteSession(ctx, id); err != nil && !errors.Is(err, ErrSessionNotFound) {
			return 0, err
		}
	}

	if s.logger != nil && len(expired) > 0 {
		s.logger.Info("expired sessions removed", "count", len(expired))
	}
	return len(expired), nil
}

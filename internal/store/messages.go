package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/projectchat/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const maxAppendAttempts = 3

// MessageStore is the ordered append log of chat messages, keyed by project.
type MessageStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewMessageStore(db *gorm.DB) *MessageStore {
	return &MessageStore{db: db, now: time.Now}
}

// Append persists a message as the newest element of the project's log and
// returns the stored record. The timestamp never goes backwards within a
// project, even if the wall clock does.
func (s *MessageStore) Append(ctx context.Context, pid domain.ProjectID, sender domain.UserID, text, attachment string) (*domain.ChatMessage, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAppendAttempts; attempt++ {
		rec, err := s.appendOnce(ctx, pid, sender, text, attachment)
		if err == nil {
			return rec.toDomain(), nil
		}
		lastErr = err
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		log.Warn().Str("module", "store.messages").Str("project", string(pid)).Int("attempt", attempt).Msg("append slot taken, retrying")
	}
	return nil, fmt.Errorf("%w: append message: %w", domain.ErrStorage, lastErr)
}

func (s *MessageStore) appendOnce(ctx context.Context, pid domain.ProjectID, sender domain.UserID, text, attachment string) (*messageRecord, error) {
	var rec *messageRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tail messageRecord
		err := tx.Where("project_id = ?", string(pid)).Order("seq DESC").Limit(1).Take(&tail).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := s.now().UTC()
		if now.Before(tail.CreatedAt) {
			now = tail.CreatedAt.UTC()
		}
		rec = &messageRecord{
			ID:         uuid.NewString(),
			ProjectID:  string(pid),
			Seq:        tail.Seq + 1,
			SenderID:   string(sender),
			Text:       text,
			Attachment: attachment,
			CreatedAt:  now,
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns the project's messages with seq greater than after, oldest first.
// A project without messages yields an empty slice.
func (s *MessageStore) List(ctx context.Context, pid domain.ProjectID, after uint64) ([]*domain.ChatMessage, error) {
	var recs []*messageRecord
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND seq > ?", string(pid), after).
		Order("seq ASC").
		Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list messages: %w", domain.ErrStorage, err)
	}
	out := make([]*domain.ChatMessage, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.toDomain())
	}
	return out, nil
}

package store

import (
	"time"

	"github.com/dkeye/projectchat/internal/domain"
)

// messageRecord is one row of a project's append-only chat log.
// (project_id, seq) is unique, so two racing appends cannot both take the
// same slot.
type messageRecord struct {
	ID         string    `gorm:"primarykey;size:36"`
	ProjectID  string    `gorm:"size:64;not null;uniqueIndex:idx_project_seq,priority:1"`
	Seq        uint64    `gorm:"not null;uniqueIndex:idx_project_seq,priority:2"`
	SenderID   string    `gorm:"size:64;not null"`
	Text       string    `gorm:"not null"`
	Attachment string    `gorm:"size:2048"`
	CreatedAt  time.Time `gorm:"not null"`
}

func (messageRecord) TableName() string {
	return "chat_messages"
}

func (r *messageRecord) toDomain() *domain.ChatMessage {
	return &domain.ChatMessage{
		ID:         r.ID,
		ProjectID:  domain.ProjectID(r.ProjectID),
		Seq:        r.Seq,
		SenderID:   domain.UserID(r.SenderID),
		Text:       r.Text,
		Attachment: r.Attachment,
		CreatedAt:  r.CreatedAt.UTC(),
	}
}

type projectRecord struct {
	ID        string `gorm:"primarykey;size:64"`
	Name      string `gorm:"size:200;not null"`
	OwnerID   string `gorm:"size:64;not null;index"`
	CreatedAt time.Time
}

func (projectRecord) TableName() string {
	return "projects"
}

type memberRecord struct {
	ProjectID string `gorm:"primaryKey;size:64"`
	UserID    string `gorm:"primaryKey;size:64;index"`
	CreatedAt time.Time
}

func (memberRecord) TableName() string {
	return "project_members"
}

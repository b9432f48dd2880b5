package domain

import "time"

type ProjectID string

// Project is the owning project of a chat log. Only the bits chat needs.
type Project struct {
	ID      ProjectID
	Name    string
	OwnerID UserID
}

// ChatMessage is a durable, never mutated chat record.
type ChatMessage struct {
	ID         string    `json:"id"`
	ProjectID  ProjectID `json:"projectId"`
	Seq        uint64    `json:"seq"`
	SenderID   UserID    `json:"senderId"`
	Text       string    `json:"text"`
	Attachment string    `json:"attachment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ChatLog is the ordered message log of one project plus its metadata.
type ChatLog struct {
	ProjectID    ProjectID      `json:"projectId"`
	ProjectName  string         `json:"projectName"`
	Participants []UserID       `json:"participants"`
	Messages     []*ChatMessage `json:"messages"`
}

package app

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxTextLen = 4000
	MaxAttachmentLen  = 2048
)

// LogStore is the durable per-project ordered append log.
type LogStore interface {
	Append(ctx context.Context, pid domain.ProjectID, sender domain.UserID, text, attachment string) (*domain.ChatMessage, error)
	List(ctx context.Context, pid domain.ProjectID, after uint64) ([]*domain.ChatMessage, error)
}

// ProjectDirectory is the external project-membership collaborator.
type ProjectDirectory interface {
	Project(ctx context.Context, pid domain.ProjectID) (*domain.Project, error)
	IsMember(ctx context.Context, pid domain.ProjectID, uid domain.UserID) (bool, error)
	Participants(ctx context.Context, pid domain.ProjectID) ([]domain.UserID, error)
}

// ChatService writes to and reads from the durable chat log.
// It never broadcasts; see orch.Orchestrator.Send.
type ChatService struct {
	store      LogStore
	projects   ProjectDirectory
	maxTextLen int
}

func NewChatService(store LogStore, projects ProjectDirectory, maxTextLen int) *ChatService {
	if maxTextLen <= 0 {
		maxTextLen = DefaultMaxTextLen
	}
	return &ChatService{store: store, projects: projects, maxTextLen: maxTextLen}
}

// Authorize checks that uid may take part in the chat of pid.
func (s *ChatService) Authorize(ctx context.Context, pid domain.ProjectID, uid domain.UserID) error {
	ok, err := s.projects.IsMember(ctx, pid, uid)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("user %s on project %s: %w", uid, pid, domain.ErrForbidden)
	}
	return nil
}

// Append validates and persists one message, returning the canonical record.
func (s *ChatService) Append(ctx context.Context, pid domain.ProjectID, sender domain.UserID, text, attachment string) (*domain.ChatMessage, error) {
	text, err := s.validate(pid, text, attachment)
	if err != nil {
		return nil, err
	}
	if err := s.Authorize(ctx, pid, sender); err != nil {
		return nil, err
	}
	msg, err := s.store.Append(ctx, pid, sender, text, attachment)
	if err != nil {
		log.Error().Err(err).Str("module", "app.chat").Str("project", string(pid)).Str("user", string(sender)).Msg("append failed")
		return nil, err
	}
	log.Info().Str("module", "app.chat").Str("project", string(pid)).Str("user", string(sender)).Uint64("seq", msg.Seq).Msg("message appended")
	return msg, nil
}

// GetLog returns the ordered log of pid after the given sequence (0 for all)
// plus project metadata. A project with no messages yields an empty log.
func (s *ChatService) GetLog(ctx context.Context, pid domain.ProjectID, requester domain.UserID, after uint64) (*domain.ChatLog, error) {
	if err := s.Authorize(ctx, pid, requester); err != nil {
		return nil, err
	}
	p, err := s.projects.Project(ctx, pid)
	if err != nil {
		return nil, err
	}
	participants, err := s.projects.Participants(ctx, pid)
	if err != nil {
		return nil, err
	}
	msgs, err := s.store.List(ctx, pid, after)
	if err != nil {
		return nil, err
	}
	return &domain.ChatLog{
		ProjectID:    p.ID,
		ProjectName:  p.Name,
		Participants: participants,
		Messages:     msgs,
	}, nil
}

func (s *ChatService) validate(pid domain.ProjectID, text, attachment string) (string, error) {
	if pid == "" {
		return "", fmt.Errorf("%w: project id required", domain.ErrValidation)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: text empty", domain.ErrValidation)
	}
	if !utf8.ValidString(text) {
		return "", fmt.Errorf("%w: text is not valid utf-8", domain.ErrValidation)
	}
	if n := utf8.RuneCountInString(text); n > s.maxTextLen {
		return "", fmt.Errorf("%w: text too long (%d > %d)", domain.ErrValidation, n, s.maxTextLen)
	}
	if len(attachment) > MaxAttachmentLen {
		return "", fmt.Errorf("%w: attachment reference too long", domain.ErrValidation)
	}
	return text, nil
}

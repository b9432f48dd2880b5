package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/projectchat/internal/domain"
)

type fakeDirectory struct {
	projects map[domain.ProjectID]*domain.Project
	members  map[domain.ProjectID][]domain.UserID
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		projects: map[domain.ProjectID]*domain.Project{},
		members:  map[domain.ProjectID][]domain.UserID{},
	}
}

func (d *fakeDirectory) add(pid domain.ProjectID, name string, owner domain.UserID, members ...domain.UserID) {
	d.projects[pid] = &domain.Project{ID: pid, Name: name, OwnerID: owner}
	d.members[pid] = members
}

func (d *fakeDirectory) Project(_ context.Context, pid domain.ProjectID) (*domain.Project, error) {
	p, ok := d.projects[pid]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", pid, domain.ErrNotFound)
	}
	return p, nil
}

func (d *fakeDirectory) IsMember(ctx context.Context, pid domain.ProjectID, uid domain.UserID) (bool, error) {
	p, err := d.Project(ctx, pid)
	if err != nil {
		return false, err
	}
	if p.OwnerID == uid {
		return true, nil
	}
	for _, m := range d.members[pid] {
		if m == uid {
			return true, nil
		}
	}
	return false, nil
}

func (d *fakeDirectory) Participants(ctx context.Context, pid domain.ProjectID) ([]domain.UserID, error) {
	p, err := d.Project(ctx, pid)
	if err != nil {
		return nil, err
	}
	return append([]domain.UserID{p.OwnerID}, d.members[pid]...), nil
}

type memoryLog struct {
	mu   sync.Mutex
	logs map[domain.ProjectID][]*domain.ChatMessage
	fail error
}

func newMemoryLog() *memoryLog {
	return &memoryLog{logs: map[domain.ProjectID][]*domain.ChatMessage{}}
}

func (m *memoryLog) Append(_ context.Context, pid domain.ProjectID, sender domain.UserID, text, attachment string) (*domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, m.fail)
	}
	msg := &domain.ChatMessage{
		ID:         fmt.Sprintf("m%d", len(m.logs[pid])+1),
		ProjectID:  pid,
		Seq:        uint64(len(m.logs[pid]) + 1),
		SenderID:   sender,
		Text:       text,
		Attachment: attachment,
		CreatedAt:  time.Now().UTC(),
	}
	m.logs[pid] = append(m.logs[pid], msg)
	return msg, nil
}

func (m *memoryLog) List(_ context.Context, pid domain.ProjectID, after uint64) ([]*domain.ChatMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStorage, m.fail)
	}
	out := []*domain.ChatMessage{}
	for _, msg := range m.logs[pid] {
		if msg.Seq > after {
			out = append(out, msg)
		}
	}
	return out, nil
}

var errDiskFull = errors.New("disk full")

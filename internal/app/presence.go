package app

import (
	"sync"
	"time"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultTypingTimeout = 5 * time.Second

// Publisher is the fan-out side the presence coordinator talks to.
type Publisher interface {
	Broadcast(pid domain.ProjectID, t core.EventType, payload any, exclude domain.UserID) core.PublishResult
}

type typingKey struct {
	pid domain.ProjectID
	uid domain.UserID
}

type typingEntry struct {
	gen   uint64
	timer *time.Timer
}

// Presence holds the ephemeral "is typing" state per (project, user).
// Each entry owns one expiry timer that is rescheduled on refresh.
type Presence struct {
	mu      sync.Mutex
	entries map[typingKey]*typingEntry
	gen     uint64
	timeout time.Duration
	out     Publisher
}

func NewPresence(out Publisher, timeout time.Duration) *Presence {
	if timeout <= 0 {
		timeout = DefaultTypingTimeout
	}
	return &Presence{
		entries: make(map[typingKey]*typingEntry),
		timeout: timeout,
		out:     out,
	}
}

// Typing marks the user as typing in pid. Only the idle → typing transition
// broadcasts; a refresh just pushes the expiry out. It reports whether a
// broadcast happened.
func (p *Presence) Typing(id *domain.Identity, pid domain.ProjectID) bool {
	key := typingKey{pid: pid, uid: id.ID}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.gen++
	gen := p.gen
	if e, ok := p.entries[key]; ok {
		e.timer.Stop()
		e.gen = gen
		e.timer = time.AfterFunc(p.timeout, func() { p.expire(key, gen) })
		return false
	}
	p.entries[key] = &typingEntry{
		gen:   gen,
		timer: time.AfterFunc(p.timeout, func() { p.expire(key, gen) }),
	}
	// Broadcasting under the lock keeps typing/stop ordered per key.
	p.out.Broadcast(pid, core.EventUserTyping, core.TypingPayload{
		ProjectID: pid,
		UserID:    id.ID,
		UserName:  id.Username,
	}, id.ID)
	log.Debug().Str("module", "app.presence").Str("user", string(id.ID)).Str("project", string(pid)).Msg("typing started")
	return true
}

// StopTyping clears the state explicitly. It is a no-op when idle.
func (p *Presence) StopTyping(uid domain.UserID, pid domain.ProjectID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopLocked(typingKey{pid: pid, uid: uid}, "stopped")
}

// ClearUser forces every typing state of uid back to idle, limited to the
// projects accepted by match when it is non-nil. It returns the cleared projects.
func (p *Presence) ClearUser(uid domain.UserID, match func(domain.ProjectID) bool) []domain.ProjectID {
	p.mu.Lock()
	defer p.mu.Unlock()
	var cleared []domain.ProjectID
	for key := range p.entries {
		if key.uid != uid {
			continue
		}
		if match != nil && !match(key.pid) {
			continue
		}
		if p.stopLocked(key, "cleared") {
			cleared = append(cleared, key.pid)
		}
	}
	return cleared
}

func (p *Presence) IsTyping(uid domain.UserID, pid domain.ProjectID) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.entries[typingKey{pid: pid, uid: uid}]
	return ok
}

// Close stops every pending timer without broadcasting.
func (p *Presence) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, e := range p.entries {
		e.timer.Stop()
		delete(p.entries, key)
	}
}

func (p *Presence) expire(key typingKey, gen uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[key]
	if !ok || e.gen != gen {
		// refreshed or already stopped
		return
	}
	p.stopLocked(key, "expired")
}

func (p *Presence) stopLocked(key typingKey, reason string) bool {
	e, ok := p.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(p.entries, key)
	p.out.Broadcast(key.pid, core.EventUserStopTyping, core.StopTypingPayload{
		ProjectID: key.pid,
		UserID:    key.uid,
	}, key.uid)
	log.Debug().Str("module", "app.presence").Str("user", string(key.uid)).Str("project", string(key.pid)).Str("reason", reason).Msg("typing stopped")
	return true
}

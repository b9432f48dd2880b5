package app

import (
	"sync"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
	"github.com/rs/zerolog/log"
)

// RoomManager tracks which connections are joined to which project room.
// Rooms exist only while they have members and are never persisted.
type RoomManager struct {
	mu     sync.RWMutex
	rooms  map[domain.ProjectID]map[core.ConnID]core.Connection
	byConn map[core.ConnID]map[domain.ProjectID]struct{}
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:  make(map[domain.ProjectID]map[core.ConnID]core.Connection),
		byConn: make(map[core.ConnID]map[domain.ProjectID]struct{}),
	}
}

// Join adds conn to the room of pid. It returns false if conn was already a member.
func (m *RoomManager) Join(conn core.Connection, pid domain.ProjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[pid]
	if !ok {
		room = make(map[core.ConnID]core.Connection)
		m.rooms[pid] = room
	}
	if _, ok := room[conn.ID()]; ok {
		return false
	}
	room[conn.ID()] = conn
	joined, ok := m.byConn[conn.ID()]
	if !ok {
		joined = make(map[domain.ProjectID]struct{})
		m.byConn[conn.ID()] = joined
	}
	joined[pid] = struct{}{}
	log.Info().Str("module", "app.rooms").Str("conn", string(conn.ID())).Str("project", string(pid)).Int("members", len(room)).Msg("member joined")
	return true
}

// Leave removes conn from the room of pid only. It returns false for non-members.
func (m *RoomManager) Leave(conn core.Connection, pid domain.ProjectID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.removeLocked(conn.ID(), pid) {
		return false
	}
	log.Info().Str("module", "app.rooms").Str("conn", string(conn.ID())).Str("project", string(pid)).Msg("member left")
	return true
}

// LeaveAll removes conn from every room and returns the rooms it was in.
func (m *RoomManager) LeaveAll(conn core.Connection) []domain.ProjectID {
	m.mu.Lock()
	defer m.mu.Unlock()
	joined := m.byConn[conn.ID()]
	out := make([]domain.ProjectID, 0, len(joined))
	for pid := range joined {
		out = append(out, pid)
	}
	for _, pid := range out {
		m.removeLocked(conn.ID(), pid)
	}
	if len(out) > 0 {
		log.Info().Str("module", "app.rooms").Str("conn", string(conn.ID())).Int("rooms", len(out)).Msg("member left all rooms")
	}
	return out
}

func (m *RoomManager) removeLocked(id core.ConnID, pid domain.ProjectID) bool {
	room, ok := m.rooms[pid]
	if !ok {
		return false
	}
	if _, ok := room[id]; !ok {
		return false
	}
	delete(room, id)
	if len(room) == 0 {
		delete(m.rooms, pid)
	}
	if joined, ok := m.byConn[id]; ok {
		delete(joined, pid)
		if len(joined) == 0 {
			delete(m.byConn, id)
		}
	}
	return true
}

// Members returns a snapshot of the connections joined to pid.
func (m *RoomManager) Members(pid domain.ProjectID) []core.Connection {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room := m.rooms[pid]
	out := make([]core.Connection, 0, len(room))
	for _, c := range room {
		out = append(out, c)
	}
	return out
}

func (m *RoomManager) IsMember(conn core.Connection, pid domain.ProjectID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rooms[pid][conn.ID()]
	return ok
}

// UserInRoom reports whether any connection of uid is joined to pid.
func (m *RoomManager) UserInRoom(uid domain.UserID, pid domain.ProjectID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.rooms[pid] {
		if c.Identity().ID == uid {
			return true
		}
	}
	return false
}

func (m *RoomManager) RoomsOf(conn core.Connection) []domain.ProjectID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	joined := m.byConn[conn.ID()]
	out := make([]domain.ProjectID, 0, len(joined))
	for pid := range joined {
		out = append(out, pid)
	}
	return out
}

func (m *RoomManager) List() []core.RoomInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.RoomInfo, 0, len(m.rooms))
	for pid, room := range m.rooms {
		out = append(out, core.RoomInfo{ProjectID: pid, ConnectionCount: len(room)})
	}
	return out
}

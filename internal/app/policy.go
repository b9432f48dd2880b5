package app

import (
	"fmt"

	"github.com/dkeye/projectchat/internal/core"
	"github.com/dkeye/projectchat/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

// Policy decides what happens to a connection whose send queue is full.
type Policy interface {
	OnBackPressure(pid domain.ProjectID, conn core.Connection) BackpressureAction
}

// DropPolicy lets a slow connection miss the event. It resyncs from the log.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.ProjectID, core.Connection) BackpressureAction {
	return DropFrame
}

// KickPolicy closes slow connections so the client reconnects and refetches.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.ProjectID, core.Connection) BackpressureAction {
	return KickMember
}

// PolicyByName maps the chat.backpressure config value to a Policy.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}

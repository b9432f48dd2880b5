package core

import "github.com/dkeye/projectchat/internal/domain"

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Skipped int
	Dropped []Connection
}

type RoomInfo struct {
	ProjectID       domain.ProjectID `json:"project_id"`
	ConnectionCount int              `json:"connection_count"`
}

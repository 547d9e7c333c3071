package gateway

import (
	"context"

	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/agent"
	"github.com/PRABHA-MURUGANANDHAM/workelate-agent/internal/store"
)

// Messenger defines the interface for presentation gateways (Web, Telegram, Discord.)
type Messenger interface {
	// Start begins serving user interactions
	Start() error
	// Send pushes a message to a specific chat
	Send(chatID string, text string) error
	// Stop gracefully shuts down the gateway
	Stop() error
}

// Planner is the single planning entry point a gateway calls.
type Planner interface {
	PlanTask(ctx context.Context, task string) (*agent.Result, error)
}

// DecisionBrowser is the read/delete slice of the store that gateways use
// for history rendering.
type DecisionBrowser interface {
	Recent(filter string, limit int) ([]store.DecisionRecord, error)
	Delete(id int64) error
	Plan(task string) ([]string, error)
}

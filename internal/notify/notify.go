// Package notify sends operational alerts to the operator.
package notify

import (
	"github.com/orgball2608/vibestream/pkg/logger"
)

//go:generate go run go.uber.org/mock/mockgen -source=notify.go -destination=mocks/mock.go
type Client interface {
	// Notify delivers message best-effort; failures are logged, never returned
	Notify(message string)
}

// LogClient only logs alerts. Used when no Telegram bot is configured.
type LogClient struct {
	logger logger.Logger
}

func NewLogClient(log logger.Logger) *LogClient {
	return &LogClient{logger: log.WithComponent("Notify")}
}

var _ Client = (*LogClient)(nil)

func (c *LogClient) Notify(message string) {
	c.logger.Warn("Operator alert", "message", message)
}

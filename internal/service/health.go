package service

import (
	"context"
)

// Health reports liveness. The engine holds everything in memory, so there
// is no external infrastructure to ping; the endpoint still exists so
// orchestration probes have a stable target.
type Health struct{}

func NewHealth() *Health {
	return &Health{}
}

func (s *Health) Ping(ctx context.Context) error {
	return nil
}

package core

import (
	"context"
	"time"
)

const healthTimeout = 3 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type Health struct {
	Ok            bool              `json:"ok"`
	OpenWorkflows int               `json:"open_workflows"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// AddHealthCheck registers a dependency reported by Health.
func (c *Core) AddHealthCheck(name string, p Pinger) {
	if c.checks == nil {
		c.checks = make(map[string]Pinger)
	}
	c.checks[name] = p
}

func (c *Core) Health(ctx context.Context) Health {
	h := Health{
		Ok:            true,
		OpenWorkflows: c.registry.Len(),
		Checks:        make(map[string]string, len(c.checks)),
	}
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	for name, p := range c.checks {
		if err := p.Ping(ctx); err != nil {
			h.Ok = false
			h.Checks[name] = err.Error()
			continue
		}
		h.Checks[name] = "ok"
	}
	return h
}

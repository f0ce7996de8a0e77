package core

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"BeautyGenius/entity"
	"BeautyGenius/internal/lib/sl"
	"BeautyGenius/internal/workflow"
	"BeautyGenius/internal/ws"
)

var (
	ErrNotAllowed    = errors.New("current step may not be left yet")
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnknownIntent = errors.New("unknown intent")
	ErrBadLink       = errors.New("bad or expired link")
)

// Catalog recommends products and lists the whole catalog.
type Catalog interface {
	workflow.Recommender
	Products(ctx context.Context) ([]entity.Product, error)
}

type ImageChecker interface {
	Check(name string, data []byte) (*entity.Image, error)
}

// LinkSigner signs expiring links to uploaded images.
type LinkSigner interface {
	Sign(path string) string
	Verify(path, expires, sig string) bool
}

// Publisher pushes workflow events to connected front ends.
type Publisher interface {
	Publish(event *ws.Event)
	CloseWorkflow(workflowID string)
}

type Core struct {
	registry     *workflow.Registry
	analyzer     workflow.Analyzer
	catalog      Catalog
	checker      ImageChecker
	publisher    Publisher
	signer       LinkSigner
	options      workflow.Options
	defaultTheme string
	idleTTL      time.Duration
	clock        clock.Clock
	checks       map[string]Pinger

	mu       sync.Mutex
	activity map[string]time.Time

	log *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		registry: workflow.NewRegistry(),
		activity: make(map[string]time.Time),
		clock:    clock.New(),
		log:      log.With(sl.Module("core")),
	}
}

func (c *Core) SetAnalyzer(analyzer workflow.Analyzer) {
	c.analyzer = analyzer
}

func (c *Core) SetCatalog(catalog Catalog) {
	c.catalog = catalog
}

func (c *Core) SetImageChecker(checker ImageChecker) {
	c.checker = checker
}

func (c *Core) SetPublisher(publisher Publisher) {
	c.publisher = publisher
}

func (c *Core) SetLinkSigner(signer LinkSigner) {
	c.signer = signer
}

// SetWorkflowOptions sets the timings every new workflow starts with.
// OnClose is always replaced by the core.
func (c *Core) SetWorkflowOptions(options workflow.Options) {
	c.options = options
}

func (c *Core) SetDefaultTheme(name string) {
	c.defaultTheme = name
}

// SetClock replaces the clock used for activity tracking and the idle janitor.
func (c *Core) SetClock(clk clock.Clock) {
	c.clock = clk
}

// SetIdleTTL makes Init close workflows nobody touched for ttl.
func (c *Core) SetIdleTTL(ttl time.Duration) {
	c.idleTTL = ttl
}

// Init starts background housekeeping that stops with ctx.
func (c *Core) Init(ctx context.Context) {
	if c.idleTTL <= 0 {
		return
	}
	ticker := c.clock.Ticker(c.idleTTL / 2)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := c.CloseIdle(); n > 0 {
					c.log.With(
						slog.Int("closed", n),
						slog.Int("open", c.registry.Len()),
					).Info("idle workflows closed")
				}
			}
		}
	}()
}

// CloseIdle closes the workflows idle for longer than the idle TTL and
// reports how many it closed.
func (c *Core) CloseIdle() int {
	if c.idleTTL <= 0 {
		return 0
	}
	deadline := c.clock.Now().Add(-c.idleTTL)

	c.mu.Lock()
	var idle []string
	for id, last := range c.activity {
		if last.Before(deadline) {
			idle = append(idle, id)
		}
	}
	c.mu.Unlock()

	closed := 0
	for _, id := range idle {
		if err := c.CloseWorkflow(id); err == nil {
			closed++
		}
	}
	return closed
}

// OpenWorkflows counts the workflows currently open.
func (c *Core) OpenWorkflows() int {
	return c.registry.Len()
}

// Shutdown disposes every open workflow.
func (c *Core) Shutdown() {
	c.registry.Close()
	c.mu.Lock()
	c.activity = make(map[string]time.Time)
	c.mu.Unlock()
}

func (c *Core) touch(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.activity[id]; ok {
		c.activity[id] = c.clock.Now()
	}
}

package analysis

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"BeautyGenius/entity"
)

const (
	DefaultMinDelay = 2 * time.Second
	DefaultMaxDelay = 5 * time.Second
)

// MockAnalyzer pretends to inspect an image: it waits a random delay and
// returns a random skin type with a high confidence and a flattering score.
type MockAnalyzer struct {
	clock    clock.Clock
	minDelay time.Duration
	maxDelay time.Duration

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewMockAnalyzer(clk clock.Clock, minDelay, maxDelay time.Duration, seed int64) *MockAnalyzer {
	if clk == nil {
		clk = clock.New()
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &MockAnalyzer{
		clock:    clk,
		minDelay: minDelay,
		maxDelay: maxDelay,
		rnd:      rand.New(rand.NewSource(seed)),
	}
}

func (a *MockAnalyzer) Analyze(ctx context.Context, _ *entity.Image) (entity.Analysis, error) {
	a.mu.Lock()
	delay := a.minDelay
	if span := a.maxDelay - a.minDelay; span > 0 {
		delay += time.Duration(a.rnd.Int63n(int64(span)))
	}
	result := entity.Analysis{
		SkinType:        entity.SkinTypes[a.rnd.Intn(len(entity.SkinTypes))],
		ConfidenceScore: 0.8 + a.rnd.Float64()*0.2,
		AgeEstimate:     20 + a.rnd.Intn(40),
		Score:           a.scoreLocked(),
	}
	a.mu.Unlock()

	timer := a.clock.Timer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return entity.Analysis{}, ctx.Err()
	case <-timer.C:
		return result, nil
	}
}

// scoreLocked draws every score from the range it is reported in:
// overall and symmetry 70-99, proportion 65-94, skin quality 75-99,
// expression 65-99.
func (a *MockAnalyzer) scoreLocked() *entity.Score {
	return &entity.Score{
		Overall: 70 + a.rnd.Intn(30),
		Categories: entity.ScoreCategories{
			Symmetry:    70 + a.rnd.Intn(30),
			Proportion:  65 + a.rnd.Intn(30),
			SkinQuality: 75 + a.rnd.Intn(25),
			Expression:  65 + a.rnd.Intn(35),
		},
	}
}

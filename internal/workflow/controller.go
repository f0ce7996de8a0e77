package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"

	"BeautyGenius/entity"
	"BeautyGenius/internal/lib/sl"
)

const (
	DefaultUploadTick  = 100 * time.Millisecond
	DefaultUploadStep  = 10
	DefaultAutoAdvance = 2 * time.Second
)

var ErrInvalidAnalysis = errors.New("invalid analysis")

// Options tune a Controller. Zero values fall back to the defaults above,
// except AutoAdvance where zero disables the automatic step after analysis.
type Options struct {
	Clock       clock.Clock
	UploadTick  time.Duration
	UploadStep  int
	AutoAdvance time.Duration
	// OnClose replaces the reset that Close performs by default.
	OnClose func()
}

// Controller owns one workflow's State and is the only thing that mutates it.
// Every intent is safe for concurrent use.
type Controller struct {
	id          string
	analyzer    Analyzer
	recommender Recommender
	clock       clock.Clock
	uploadTick  time.Duration
	uploadStep  int
	autoAdvance time.Duration
	onClose     func()
	log         *slog.Logger

	mu       sync.Mutex
	state    State
	version  uint64
	disposed bool

	// each pending operation carries the generation it was started under;
	// a callback whose generation is no longer current is dropped
	upload         *uploadTask
	uploadGen      uint64
	analysisCancel context.CancelFunc
	analysisGen    uint64
	advanceTimer   *clock.Timer
	advanceGen     uint64

	baseCtx    context.Context
	baseCancel context.CancelFunc

	lmu          sync.RWMutex
	listeners    map[int]Listener
	nextListener int

	emitMu  sync.Mutex
	emitted uint64
}

// NewController creates a workflow in its initial state.
func NewController(analyzer Analyzer, recommender Recommender, opts Options, log *slog.Logger) *Controller {
	if opts.Clock == nil {
		opts.Clock = clock.New()
	}
	if opts.UploadTick <= 0 {
		opts.UploadTick = DefaultUploadTick
	}
	if opts.UploadStep <= 0 {
		opts.UploadStep = DefaultUploadStep
	}
	if opts.AutoAdvance < 0 {
		opts.AutoAdvance = 0
	}
	if log == nil {
		log = slog.Default()
	}

	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		id:          id,
		analyzer:    analyzer,
		recommender: recommender,
		clock:       opts.Clock,
		uploadTick:  opts.UploadTick,
		uploadStep:  opts.UploadStep,
		autoAdvance: opts.AutoAdvance,
		onClose:     opts.OnClose,
		log:         log.With(sl.Module("workflow"), slog.String("workflow_id", id)),
		state:       InitialState(),
		baseCtx:     ctx,
		baseCancel:  cancel,
		listeners:   make(map[int]Listener),
	}
}

func (c *Controller) ID() string {
	return c.id
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Snapshot returns a copy of the current state with its version.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers l for every future snapshot. The returned func removes it.
func (c *Controller) Subscribe(l Listener) func() {
	c.lmu.Lock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = l
	c.lmu.Unlock()

	return func() {
		c.lmu.Lock()
		delete(c.listeners, id)
		c.lmu.Unlock()
	}
}

// SetImage replaces the uploaded image without touching the step or status.
func (c *Controller) SetImage(image *entity.Image) {
	if image == nil {
		c.log.Info("set image ignored: no image")
		return
	}
	c.mutate("set image", func() bool {
		c.state.Image = image
		return true
	})
}

// BeginUpload stores the image and restarts the upload cycle, cancelling
// whatever upload, analysis or pending auto-advance was in flight.
func (c *Controller) BeginUpload(image *entity.Image) {
	if image == nil {
		c.log.Info("begin upload ignored: no image")
		return
	}
	started := false
	c.mutate("begin upload", func() bool {
		c.cancelUploadLocked()
		c.cancelAnalysisLocked()
		c.cancelAdvanceLocked()

		c.state.Result = nil
		c.state.Status = StatusUploading
		c.state.UploadProgress = 0
		c.state.Image = image

		c.startUploadLocked()
		started = true
		return true
	})
	if started {
		c.log.Debug("upload started",
			slog.String("image_id", image.ID),
			slog.Int64("size", image.Size),
		)
	}
}

// SetAge stores age clamped into [MinAge, MaxAge].
func (c *Controller) SetAge(age int) {
	c.mutate("set age", func() bool {
		clamped := ClampAge(age)
		if clamped == c.state.UserAge {
			return false
		}
		c.state.UserAge = clamped
		return true
	})
}

// AdjustAge moves the age by delta, stopping at the bounds.
func (c *Controller) AdjustAge(delta int) {
	c.mutate("adjust age", func() bool {
		clamped := ClampAge(c.state.UserAge + delta)
		if clamped == c.state.UserAge {
			return false
		}
		c.state.UserAge = clamped
		return true
	})
}

// SetSkinType records a skin type the user picked by hand.
func (c *Controller) SetSkinType(skinType entity.SkinType) {
	if !skinType.Valid() {
		c.log.Info("set skin type ignored", slog.String("skin_type", string(skinType)))
		return
	}
	c.mutate("set skin type", func() bool {
		if c.state.SkinType == skinType {
			return false
		}
		c.state.SkinType = skinType
		return true
	})
}

// BeginAnalysis starts the analysis of the uploaded image. It requires an
// image and a finished upload, or a failed analysis to retry; while an
// analysis is pending it does nothing. It reports whether a new analysis
// was started.
func (c *Controller) BeginAnalysis() bool {
	started := false
	var ignored string
	var status Status
	c.mutate("begin analysis", func() bool {
		status = c.state.Status
		switch {
		case c.state.Image == nil:
			ignored = "no image"
			return false
		case c.state.Status == StatusAnalyzing:
			ignored = "analysis pending"
			return false
		case c.state.Status != StatusUploaded && c.state.Status != StatusError:
			ignored = "upload not finished"
			return false
		}

		c.cancelAnalysisLocked()
		c.cancelAdvanceLocked()
		c.state.Status = StatusAnalyzing

		ctx, cancel := context.WithCancel(c.baseCtx)
		c.analysisCancel = cancel
		gen := c.analysisGen
		image := c.state.Image
		age := c.state.UserAge
		go c.runAnalysis(ctx, gen, image, age)

		started = true
		return true
	})
	if ignored != "" {
		c.log.With(
			slog.String("reason", ignored),
			slog.String("status", string(status)),
		).Info("begin analysis ignored")
	}
	return started
}

// Advance moves to the next step. It does not check whether the step may be
// left; callers gate it with CanAdvance.
func (c *Controller) Advance() {
	c.mutate("advance", func() bool {
		c.cancelAdvanceLocked()
		return c.advanceLocked()
	})
}

// TryAdvance moves to the next step only when the current one may be left.
// It reports whether the step changed.
func (c *Controller) TryAdvance() bool {
	moved := false
	c.mutate("try advance", func() bool {
		if !AdvanceAllowed(c.state) {
			return false
		}
		c.cancelAdvanceLocked()
		moved = c.advanceLocked()
		return moved
	})
	return moved
}

// Retreat moves to the previous step, skipping the analysis-in-progress step.
func (c *Controller) Retreat() {
	c.mutate("retreat", func() bool {
		c.cancelAdvanceLocked()
		prev := previousStep(c.state.CurrentStep)
		if prev == c.state.CurrentStep {
			return false
		}
		c.state.CurrentStep = prev
		return true
	})
}

// CanAdvance reports whether the current step may be left going forward.
// The upload step opens once the upload has finished; the analysis step
// opens only when the analysis is complete.
func (c *Controller) CanAdvance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return AdvanceAllowed(c.state)
}

// Reset cancels everything pending and restores the initial state.
func (c *Controller) Reset() {
	c.mutate("reset", func() bool {
		c.cancelAllLocked()
		c.state = InitialState()
		return true
	})
}

// Retry discards the image and any result and returns to the upload step,
// keeping the age and skin type already entered.
func (c *Controller) Retry() {
	c.mutate("retry", func() bool {
		c.cancelAllLocked()
		age, skinType := c.state.UserAge, c.state.SkinType
		c.state = InitialState()
		c.state.UserAge = age
		c.state.SkinType = skinType
		c.state.CurrentStep = StepImageUpload
		return true
	})
}

// Close runs the close handler, or resets the workflow when there is none.
func (c *Controller) Close() {
	if c.onClose != nil {
		c.onClose()
		return
	}
	c.Reset()
}

// Dispose tears the workflow down. Pending timers and analyses are cancelled
// and nothing, including late callbacks, mutates the state afterwards.
func (c *Controller) Dispose() {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return
	}
	c.disposed = true
	c.cancelAllLocked()
	c.baseCancel()
	c.mu.Unlock()

	c.lmu.Lock()
	c.listeners = make(map[int]Listener)
	c.lmu.Unlock()

	c.log.Debug("workflow disposed")
}

func (c *Controller) Disposed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disposed
}

// mutate runs fn under the lock and publishes a snapshot when fn reports a change.
func (c *Controller) mutate(intent string, fn func() bool) {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		c.log.Info("intent ignored: workflow disposed", slog.String("intent", intent))
		return
	}
	if !fn() {
		c.mu.Unlock()
		return
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
}

func (c *Controller) commitLocked() Snapshot {
	c.version++
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:   c.state.Clone(),
		ID:      c.id,
		Version: c.version,
	}
}

// emit delivers snap to listeners unless a newer snapshot already went out.
func (c *Controller) emit(snap Snapshot) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if snap.Version <= c.emitted {
		return
	}
	c.emitted = snap.Version

	c.lmu.RLock()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.lmu.RUnlock()

	for _, l := range listeners {
		l(snap)
	}
}

func (c *Controller) advanceLocked() bool {
	next := nextStep(c.state.CurrentStep)
	if next == c.state.CurrentStep {
		return false
	}
	c.state.CurrentStep = next
	return true
}

func (c *Controller) runAnalysis(ctx context.Context, gen uint64, image *entity.Image, age int) {
	result, err := c.analyze(ctx, image, age)

	c.mu.Lock()
	if c.disposed || gen != c.analysisGen || c.state.Status != StatusAnalyzing {
		c.mu.Unlock()
		c.log.Debug("stale analysis dropped")
		return
	}
	c.analysisCancel = nil
	if err != nil {
		c.state.Status = StatusError
		c.state.Result = nil
	} else {
		c.state.Result = result
		c.state.Status = StatusComplete
		if c.autoAdvance > 0 && c.state.CurrentStep == StepSkinAnalysis {
			c.scheduleAdvanceLocked()
		}
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	if err != nil {
		c.log.Warn("analysis failed", sl.Err(err))
	} else {
		c.log.Info("analysis complete",
			slog.String("skin_type", string(result.SkinType)),
			slog.Float64("confidence", result.ConfidenceScore),
		)
	}
	c.emit(snap)
}

func (c *Controller) analyze(ctx context.Context, image *entity.Image, age int) (*entity.AnalysisResult, error) {
	if c.analyzer == nil {
		return nil, fmt.Errorf("%w: no analyzer configured", ErrInvalidAnalysis)
	}
	analysis, err := c.analyzer.Analyze(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("analyze image: %w", err)
	}
	if !analysis.SkinType.Valid() {
		return nil, fmt.Errorf("%w: skin type %q", ErrInvalidAnalysis, analysis.SkinType)
	}
	if analysis.ConfidenceScore < 0 || analysis.ConfidenceScore > 1 {
		return nil, fmt.Errorf("%w: confidence %f", ErrInvalidAnalysis, analysis.ConfidenceScore)
	}
	if analysis.Score != nil && !analysis.Score.Valid() {
		return nil, fmt.Errorf("%w: score out of range", ErrInvalidAnalysis)
	}

	result := &entity.AnalysisResult{
		SkinType:        analysis.SkinType,
		ConfidenceScore: analysis.ConfidenceScore,
		SkinConcerns:    []string{},
		Recommendations: []entity.Product{},
		Score:           analysis.Score.Clone(),
	}
	if analysis.AgeEstimate > 0 {
		estimate := analysis.AgeEstimate
		result.AgeEstimate = &estimate
	}
	if c.recommender != nil {
		concerns, products, err := c.recommender.Recommend(ctx, analysis, age)
		if err != nil {
			return nil, fmt.Errorf("recommend: %w", err)
		}
		if concerns != nil {
			result.SkinConcerns = concerns
		}
		if products != nil {
			result.Recommendations = products
		}
	}
	return result, nil
}

func (c *Controller) scheduleAdvanceLocked() {
	c.cancelAdvanceLocked()
	gen := c.advanceGen
	c.advanceTimer = c.clock.AfterFunc(c.autoAdvance, func() {
		c.mutate("auto advance", func() bool {
			if gen != c.advanceGen || c.state.CurrentStep != StepSkinAnalysis {
				return false
			}
			c.advanceTimer = nil
			return c.advanceLocked()
		})
	})
}

func (c *Controller) cancelAnalysisLocked() {
	if c.analysisCancel != nil {
		c.analysisCancel()
		c.analysisCancel = nil
	}
	c.analysisGen++
}

func (c *Controller) cancelAdvanceLocked() {
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
		c.advanceTimer = nil
	}
	c.advanceGen++
}

func (c *Controller) cancelAllLocked() {
	c.cancelUploadLocked()
	c.cancelAnalysisLocked()
	c.cancelAdvanceLocked()
}

// AdvanceAllowed is the gating policy behind CanAdvance, usable on a snapshot.
func AdvanceAllowed(s State) bool {
	switch s.CurrentStep {
	case StepImageUpload:
		return s.Image != nil && (s.Status == StatusUploaded || s.Status == StatusAnalyzing || s.Status == StatusComplete)
	case StepSkinAnalysis:
		return s.Status == StatusComplete
	case StepSkincareRecommendation:
		return false
	default:
		return true
	}
}

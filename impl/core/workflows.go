package core

import (
	"context"
	"fmt"
	"log/slog"

	"BeautyGenius/entity"
	"BeautyGenius/internal/theme"
	"BeautyGenius/internal/workflow"
	"BeautyGenius/internal/ws"
)

// OpenWorkflow creates a workflow in its initial state.
func (c *Core) OpenWorkflow() workflow.Snapshot {
	opts := c.options

	var id string
	opts.OnClose = func() {
		_ = c.CloseWorkflow(id)
	}

	ctrl := workflow.NewController(c.analyzer, c.catalog, opts, c.log)
	id = ctrl.ID()

	ctrl.Subscribe(func(snap workflow.Snapshot) {
		c.touch(snap.ID)
		if c.publisher != nil {
			c.publisher.Publish(&ws.Event{
				Type:       ws.EventSnapshot,
				WorkflowID: snap.ID,
				Data:       snap,
			})
		}
	})

	c.mu.Lock()
	c.activity[id] = c.clock.Now()
	c.mu.Unlock()
	c.registry.Save(ctrl)

	c.log.With(
		slog.String("workflow_id", id),
		slog.Int("open", c.registry.Len()),
	).Debug("workflow opened")

	return ctrl.Snapshot()
}

// CloseWorkflow disposes the workflow and disconnects its watchers.
func (c *Core) CloseWorkflow(id string) error {
	if err := c.registry.Delete(id); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.activity, id)
	c.mu.Unlock()

	if c.publisher != nil {
		c.publisher.CloseWorkflow(id)
	}
	c.log.With(slog.String("workflow_id", id)).Debug("workflow closed")
	return nil
}

func (c *Core) Snapshot(id string) (workflow.Snapshot, error) {
	ctrl, err := c.registry.Load(id)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	return ctrl.Snapshot(), nil
}

// View renders the workflow with the theme picked from name and the
// Accept-Language header.
func (c *Core) View(id, themeName, acceptLanguage string) (theme.View, error) {
	snap, err := c.Snapshot(id)
	if err != nil {
		return theme.View{}, err
	}
	return c.Render(c.Theme(themeName, acceptLanguage), snap), nil
}

// Render describes snap with th, adding a signed preview link to the image.
func (c *Core) Render(th theme.Theme, snap workflow.Snapshot) theme.View {
	v := theme.Render(th, snap)
	if v.Image != nil && c.signer != nil {
		v.Image.URL = c.signer.Sign(ImagePath(snap.ID, v.Image.ID))
	}
	return v
}

// ImagePath is where the preview of an uploaded image is served.
func ImagePath(workflowID, imageID string) string {
	return "/files/workflows/" + workflowID + "/images/" + imageID
}

// Image returns the workflow's current image when the signed link to it is valid.
func (c *Core) Image(id, imageID, expires, sig string) (*entity.Image, error) {
	if c.signer == nil || !c.signer.Verify(ImagePath(id, imageID), expires, sig) {
		return nil, ErrBadLink
	}
	snap, err := c.Snapshot(id)
	if err != nil {
		return nil, err
	}
	if snap.Image == nil || snap.Image.ID != imageID {
		return nil, workflow.ErrNotFound
	}
	return snap.Image, nil
}

func (c *Core) Theme(name, acceptLanguage string) theme.Theme {
	return theme.Select(name, acceptLanguage, c.defaultTheme)
}

// UploadImage validates the file and starts its upload.
func (c *Core) UploadImage(id, name string, data []byte) (workflow.Snapshot, error) {
	ctrl, err := c.registry.Load(id)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	if c.checker == nil {
		return workflow.Snapshot{}, fmt.Errorf("image checker not initialized")
	}
	image, err := c.checker.Check(name, data)
	if err != nil {
		return workflow.Snapshot{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	ctrl.BeginUpload(image)
	return ctrl.Snapshot(), nil
}

func (c *Core) SetAge(id string, age int) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		ctrl.SetAge(age)
		return nil
	})
}

func (c *Core) AdjustAge(id string, delta int) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		ctrl.AdjustAge(delta)
		return nil
	})
}

func (c *Core) SetSkinType(id, skinType string) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		st, err := entity.ParseSkinType(skinType)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		ctrl.SetSkinType(st)
		return nil
	})
}

// BeginAnalysis starts the analysis, or keeps the one already running.
func (c *Core) BeginAnalysis(id string) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		if ctrl.BeginAnalysis() || ctrl.State().Status == workflow.StatusAnalyzing {
			return nil
		}
		return fmt.Errorf("%w: upload an image first", ErrNotAllowed)
	})
}

// Next moves forward. Unless force is set the step must allow leaving it.
func (c *Core) Next(id string, force bool) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		if force {
			ctrl.Advance()
			return nil
		}
		if !ctrl.TryAdvance() {
			return ErrNotAllowed
		}
		return nil
	})
}

func (c *Core) Back(id string) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		ctrl.Retreat()
		return nil
	})
}

func (c *Core) Reset(id string) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		ctrl.Reset()
		return nil
	})
}

// Retry sends the workflow back to the upload step for a new photo.
func (c *Core) Retry(id string) (workflow.Snapshot, error) {
	return c.apply(id, func(ctrl *workflow.Controller) error {
		ctrl.Retry()
		return nil
	})
}

// Close dismisses the workflow the way its close button does.
func (c *Core) Close(id string) error {
	ctrl, err := c.registry.Load(id)
	if err != nil {
		return err
	}
	ctrl.Close()
	return nil
}

func (c *Core) Products(ctx context.Context) ([]entity.Product, error) {
	if c.catalog == nil {
		return nil, fmt.Errorf("catalog not initialized")
	}
	return c.catalog.Products(ctx)
}

func (c *Core) apply(id string, fn func(ctrl *workflow.Controller) error) (workflow.Snapshot, error) {
	ctrl, err := c.registry.Load(id)
	if err != nil {
		return workflow.Snapshot{}, err
	}
	if err = fn(ctrl); err != nil {
		return ctrl.Snapshot(), err
	}
	return ctrl.Snapshot(), nil
}

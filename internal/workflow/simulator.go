package workflow

import (
	"github.com/benbjohnson/clock"
)

// uploadTask is the running progress simulator of one upload cycle.
type uploadTask struct {
	ticker *clock.Ticker
	stop   chan struct{}
}

func (t *uploadTask) cancel() {
	t.ticker.Stop()
	close(t.stop)
}

// startUploadLocked launches the simulator for the current upload generation.
func (c *Controller) startUploadLocked() {
	task := &uploadTask{
		ticker: c.clock.Ticker(c.uploadTick),
		stop:   make(chan struct{}),
	}
	c.upload = task
	go c.runUpload(c.uploadGen, task)
}

func (c *Controller) cancelUploadLocked() {
	if c.upload != nil {
		c.upload.cancel()
		c.upload = nil
	}
	c.uploadGen++
}

func (c *Controller) runUpload(gen uint64, task *uploadTask) {
	for {
		select {
		case <-task.stop:
			return
		case <-task.ticker.C:
			if done := c.uploadTickFor(gen); done {
				return
			}
		}
	}
}

// uploadTickFor advances progress by one step. It reports true once the
// simulator has nothing left to do, either because the upload finished or
// because gen is no longer current.
func (c *Controller) uploadTickFor(gen uint64) bool {
	c.mu.Lock()
	if c.disposed || gen != c.uploadGen || c.state.Status != StatusUploading {
		c.mu.Unlock()
		return true
	}

	c.state.UploadProgress = clampProgress(c.state.UploadProgress + c.uploadStep)
	done := c.state.UploadProgress >= MaxProgress
	if done {
		c.state.Status = StatusUploaded
		c.upload.ticker.Stop()
		c.upload = nil
	}
	snap := c.commitLocked()
	c.mu.Unlock()

	c.emit(snap)
	return done
}

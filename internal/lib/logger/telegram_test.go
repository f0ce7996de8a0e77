package logger

import (
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slowSender struct {
	delay time.Duration

	mu   sync.Mutex
	sent []string
}

func (s *slowSender) SendMessage(msg string) {
	time.Sleep(s.delay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
}

func (s *slowSender) messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.sent...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestTelegramHandlerDoesNotWaitForSender(t *testing.T) {
	sender := &slowSender{delay: 300 * time.Millisecond}
	log := SetupTelegramHandler(discardLogger(), sender, slog.LevelWarn)

	start := time.Now()
	log.Warn("disk almost full", slog.String("volume", "data"))
	assert.Less(t, time.Since(start), 100*time.Millisecond)

	require.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	msg := sender.messages()[0]
	assert.Contains(t, msg, "WARN: disk almost full")
	assert.Contains(t, msg, "volume: data")
}

func TestTelegramHandlerSkipsRecordsBelowLevel(t *testing.T) {
	sender := &slowSender{}
	log := SetupTelegramHandler(discardLogger(), sender, slog.LevelWarn)

	log.Info("workflow opened")
	log.Error("mongo unreachable")

	require.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, sender.messages()[0], "mongo unreachable")
}

func TestTelegramHandlerKeepsAttrsFromWith(t *testing.T) {
	sender := &slowSender{}
	log := SetupTelegramHandler(discardLogger(), sender, slog.LevelWarn).
		With(slog.String("module", "core"))

	log.Warn("idle janitor stopped")

	require.Eventually(t, func() bool {
		return len(sender.messages()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Contains(t, sender.messages()[0], "module: core")
}

func TestAlertQueueDropsWhenFull(t *testing.T) {
	sender := &slowSender{delay: time.Second}
	q := newAlertQueue(sender, 1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 10; i++ {
			q.push("alert")
		}
	}()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("push blocked on a full queue")
	}
}

package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// MessageSender delivers a plain text alert.
type MessageSender interface {
	SendMessage(msg string)
}

const alertQueueSize = 64

// alertQueue delivers alerts from a single goroutine so logging never waits
// on the network. Alerts that find the queue full are dropped.
type alertQueue struct {
	sender   MessageSender
	messages chan string
}

func newAlertQueue(sender MessageSender, size int) *alertQueue {
	q := &alertQueue{
		sender:   sender,
		messages: make(chan string, size),
	}
	go q.run()
	return q
}

func (q *alertQueue) run() {
	for msg := range q.messages {
		q.sender.SendMessage(msg)
	}
}

func (q *alertQueue) push(msg string) bool {
	select {
	case q.messages <- msg:
		return true
	default:
		return false
	}
}

// TelegramHandler forwards records at or above level to a MessageSender and
// passes every record on to the wrapped handler. Handle never blocks on the
// sender.
type TelegramHandler struct {
	next  slog.Handler
	queue *alertQueue
	level slog.Level
	attrs []slog.Attr
}

func SetupTelegramHandler(log *slog.Logger, sender MessageSender, level slog.Level) *slog.Logger {
	return slog.New(NewTelegramHandler(log.Handler(), sender, level))
}

func NewTelegramHandler(next slog.Handler, sender MessageSender, level slog.Level) *TelegramHandler {
	h := &TelegramHandler{
		next:  next,
		level: level,
	}
	if sender != nil {
		h.queue = newAlertQueue(sender, alertQueueSize)
	}
	return h
}

func (h *TelegramHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level) || level >= h.level
}

func (h *TelegramHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.level && h.queue != nil {
		h.queue.push(h.format(r))
	}
	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *TelegramHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &TelegramHandler{
		next:  h.next.WithAttrs(attrs),
		queue: h.queue,
		level: h.level,
		attrs: merged,
	}
}

// WithGroup keeps alert formatting flat; groups only affect the wrapped handler.
func (h *TelegramHandler) WithGroup(name string) slog.Handler {
	return &TelegramHandler{
		next:  h.next.WithGroup(name),
		queue: h.queue,
		level: h.level,
		attrs: h.attrs,
	}
}

func (h *TelegramHandler) format(r slog.Record) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s: %s", r.Level.String(), r.Message))
	for _, a := range h.attrs {
		b.WriteString(fmt.Sprintf("\n%s: %s", a.Key, a.Value.String()))
	}
	r.Attrs(func(a slog.Attr) bool {
		b.WriteString(fmt.Sprintf("\n%s: %s", a.Key, a.Value.String()))
		return true
	})
	return b.String()
}

package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// WriterChannel writes each submission as one JSON line. It replies with a
// small acknowledgement so the controller treats the hand-off as a success.
type WriterChannel struct {
	mu     sync.Mutex
	w      io.Writer
	handle Handle
}

// NewWriterChannel creates a channel writing to w. handle may be nil.
func NewWriterChannel(w io.Writer, handle Handle) *WriterChannel {
	return &WriterChannel{w: w, handle: handle}
}

type acknowledgement struct {
	Status    string `json:"status"`
	RequestID string `json:"requestId"`
}

func (c *WriterChannel) Submit(ctx context.Context, sub Submission) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	line, err := json.Marshal(sub)
	if err != nil {
		return Result{}, fmt.Errorf("submission: marshal: %w", err)
	}

	c.mu.Lock()
	_, err = c.w.Write(append(line, '\n'))
	c.mu.Unlock()
	if err != nil {
		return Result{}, fmt.Errorf("submission: write: %w", err)
	}

	reply, err := json.Marshal(acknowledgement{Status: "queued", RequestID: sub.RequestID.String()})
	if err != nil {
		return Result{}, fmt.Errorf("submission: marshal reply: %w", err)
	}
	return Result{Reply: reply, Handle: c.handle}, nil
}

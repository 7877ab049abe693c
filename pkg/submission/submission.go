// Package submission hands assembled application payloads to an external
// transport and reports the outcome back to the form controller.
package submission

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Kind distinguishes a new application from accepting a prior one.
type Kind string

const (
	KindApplication Kind = "application"
	KindAccept      Kind = "accept"
)

// Payload is the data assembled from a valid form.
type Payload struct {
	Category    string                         `json:"category"`
	Fields      map[string]string              `json:"fields"`
	Collections map[string][]map[string]string `json:"collections"`
	ID          string                         `json:"id,omitempty"`
}

// Submission is one hand-off to a channel.
type Submission struct {
	RequestID uuid.UUID `json:"requestId"`
	Kind      Kind      `json:"kind"`
	Type      string    `json:"type"`
	RecordID  string    `json:"recordId,omitempty"`
	Payload   Payload   `json:"payload"`
}

// New builds a submission with a fresh request id.
func New(kind Kind, eventType, recordID string, payload Payload) Submission {
	return Submission{
		RequestID: uuid.New(),
		Kind:      kind,
		Type:      eventType,
		RecordID:  recordID,
		Payload:   payload,
	}
}

// Handle lets the controller release the host element once a submission has
// succeeded.
type Handle interface {
	Detach()
}

// HandleFunc adapts a function to Handle.
type HandleFunc func()

func (f HandleFunc) Detach() {
	if f != nil {
		f()
	}
}

// Result is the outcome of a round trip. An empty Reply or a non-nil Err is
// a failure.
type Result struct {
	Reply  []byte
	Err    error
	Handle Handle
}

// Succeeded reports whether the result counts as a successful submission.
func (r Result) Succeeded() bool {
	return r.Err == nil && len(strings.TrimSpace(string(r.Reply))) > 0
}

// Channel transports a submission and reports the outcome.
type Channel interface {
	Submit(ctx context.Context, sub Submission) (Result, error)
}

// Func adapts a function to Channel.
type Func func(ctx context.Context, sub Submission) (Result, error)

func (f Func) Submit(ctx context.Context, sub Submission) (Result, error) {
	return f(ctx, sub)
}

// ReplyErrors is the error document a server may return for a rejected
// submission.
type ReplyErrors struct {
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ParseReplyErrors decodes a reply as ReplyErrors. Replies that are not JSON
// objects yield ok == false.
func ParseReplyErrors(reply []byte) (ReplyErrors, bool) {
	var out ReplyErrors
	if len(strings.TrimSpace(string(reply))) == 0 {
		return out, false
	}
	if err := json.Unmarshal(reply, &out); err != nil {
		return ReplyErrors{}, false
	}
	return out, out.Message != "" || len(out.Errors) > 0
}

package tui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-appform/pkg/notify"
)

// Printer writes notifications as prefixed terminal lines. Pass it to the
// form controller so toasts show up between prompts.
type Printer struct {
	mu    sync.Mutex
	out   io.Writer
	theme Theme
}

var _ notify.Notifier = (*Printer)(nil)

// NewPrinter creates a Printer writing to out, or stdout when out is nil.
func NewPrinter(out io.Writer, theme Theme) *Printer {
	if out == nil {
		out = os.Stdout
	}
	return &Printer{out: out, theme: theme}
}

func (p *Printer) Notify(n notify.Notification) {
	prefix := p.theme.InfoPrefix
	switch n.Severity {
	case notify.SeverityError:
		prefix = p.theme.ErrorPrefix
	case notify.SeveritySuccess:
		prefix = p.theme.SuccessPrefix
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, prefix+n.Message)
}

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

// plainText strips every tag from configured markup for terminal output.
func plainText(markup string) string {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy.Sanitize(markup)
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// ConsoleSink prints notifications with an icon per kind
type ConsoleSink struct {
	mu  sync.Mutex
	out io.Writer
}

// NewConsoleSink creates a console sink writing to out
func NewConsoleSink(out io.Writer) *ConsoleSink {
	return &ConsoleSink{out: out}
}

func (s *ConsoleSink) Notify(_ context.Context, n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var line string
	switch n.Kind {
	case domain.NotifySuccess:
		line = color.New(color.FgGreen).Sprintf("✅ %s", n.Title)
	case domain.NotifyError:
		line = color.New(color.FgRed).Sprintf("❌ %s", n.Title)
	default:
		line = color.New(color.FgCyan).Sprintf("ℹ️  %s", n.Title)
	}
	fmt.Fprintln(s.out, line)
	if n.Detail != "" {
		fmt.Fprintf(s.out, "   %s\n", n.Detail)
	}
}

// JSONSink writes one JSON object per notification
type JSONSink struct {
	mu  sync.Mutex
	enc *json.Encoder
	now func() time.Time
}

// NewJSONSink creates a JSON lines sink writing to out
func NewJSONSink(out io.Writer) *JSONSink {
	return &JSONSink{enc: json.NewEncoder(out), now: time.Now}
}

func (s *JSONSink) Notify(_ context.Context, n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n.Time.IsZero() {
		n.Time = s.now()
	}
	_ = s.enc.Encode(n)
}

var (
	_ usecase.NotificationSink = (*ConsoleSink)(nil)
	_ usecase.NotificationSink = (*JSONSink)(nil)
)

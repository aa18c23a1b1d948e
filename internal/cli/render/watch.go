package render

import (
	"fmt"
	"io"
	"time"

	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/usecase"
)

// WatchRenderer prints one line per wallet change
type WatchRenderer struct {
	out  io.Writer
	json bool
	now  func() time.Time
}

// NewWatchRenderer creates a new watch renderer
func NewWatchRenderer(out io.Writer, json bool) *WatchRenderer {
	return &WatchRenderer{out: out, json: json, now: time.Now}
}

type watchView struct {
	Time    time.Time  `json:"time"`
	Kind    string     `json:"kind"`
	Account string     `json:"account,omitempty"`
	ChainID string     `json:"chainId,omitempty"`
	Check   *chainView `json:"check,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// RenderSession prints the account the watcher starts from
func (r *WatchRenderer) RenderSession(result *usecase.SessionResult) error {
	if r.json {
		return nil
	}
	if result.Found {
		fmt.Fprintf(r.out, "Watching %s, press Ctrl+C to stop\n", addressStyle.Sprint(result.Account))
	} else {
		fmt.Fprintln(r.out, "Watching for a wallet account, press Ctrl+C to stop")
	}
	return nil
}

// RenderEvent prints a single reaction of the watcher
func (r *WatchRenderer) RenderEvent(event domain.WatchEvent) {
	if r.json {
		view := watchView{
			Time:    r.now(),
			Kind:    string(event.Kind),
			Account: event.Account.String(),
			ChainID: event.ChainID.String(),
			Check:   newChainView(event.Check),
		}
		if event.Err != nil {
			view.Error = event.Err.Error()
		}
		_ = writeJSON(r.out, view)
		return
	}

	stamp := hashStyle.Sprint(r.now().Format("15:04:05"))
	switch event.Kind {
	case domain.WatchAccountsChanged:
		if event.Account.IsZero() {
			fmt.Fprintf(r.out, "%s account disconnected\n", stamp)
		} else {
			fmt.Fprintf(r.out, "%s account %s\n", stamp, addressStyle.Sprint(event.Account))
		}
	case domain.WatchChainChanged:
		fmt.Fprintf(r.out, "%s chain %s\n", stamp, event.ChainID)
	}
	if event.Err != nil {
		fmt.Fprintln(r.out, FormatError(event.Err.Error()))
	}
}

package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
)

// TerminalNotifier writes notifications as single colored lines. It
// implements both Notifier and Channel so it can be used on its own or as
// one channel of a MultiNotifier.
type TerminalNotifier struct {
	w    io.Writer
	mu   sync.Mutex
	bell bool

	alertStyle *color.Color
	errorStyle *color.Color
	infoStyle  *color.Color
	timeStyle  *color.Color
}

// NewTerminalNotifier creates a TerminalNotifier writing to w.
func NewTerminalNotifier(w io.Writer, colorEnabled bool) *TerminalNotifier {
	tn := &TerminalNotifier{
		w:          w,
		bell:       true,
		alertStyle: color.New(color.FgYellow, color.Bold),
		errorStyle: color.New(color.FgRed, color.Bold),
		infoStyle:  color.New(color.FgCyan),
		timeStyle:  color.New(color.Faint),
	}
	if !colorEnabled {
		for _, s := range []*color.Color{tn.alertStyle, tn.errorStyle, tn.infoStyle, tn.timeStyle} {
			s.DisableColor()
		}
	}
	return tn
}

// SetBell enables or disables the terminal bell on alerts.
func (tn *TerminalNotifier) SetBell(enabled bool) {
	tn.mu.Lock()
	defer tn.mu.Unlock()
	tn.bell = enabled
}

// Name returns the name of the notifier.
func (tn *TerminalNotifier) Name() string {
	return "terminal"
}

// IsEnabled always returns true.
func (tn *TerminalNotifier) IsEnabled() bool {
	return true
}

// Send writes the notification as one line, ringing the bell on alerts.
func (tn *TerminalNotifier) Send(ctx context.Context, n Notification) error {
	if n.Timestamp.IsZero() {
		n.Timestamp = time.Now()
	}
	line := tn.formatLine(n)

	tn.mu.Lock()
	defer tn.mu.Unlock()

	if tn.bell && n.Type == NotificationAlert {
		fmt.Fprint(tn.w, "\a")
	}
	_, err := fmt.Fprintln(tn.w, line)
	return err
}

// formatLine renders a notification for terminal display.
func (tn *TerminalNotifier) formatLine(n Notification) string {
	var tag string
	var style *color.Color
	switch n.Type {
	case NotificationError:
		tag, style = "ERROR", tn.errorStyle
	case NotificationInfo:
		tag, style = "INFO", tn.infoStyle
	default:
		tag, style = "ALERT", tn.alertStyle
	}

	line := tn.timeStyle.Sprintf("[%s]", n.Timestamp.Format("15:04:05")) + " " + style.Sprint(tag)
	if n.Title != "" {
		line += " " + style.Sprint(n.Title)
	}
	if n.Message != "" {
		line += " | " + n.Message
	}
	return line
}

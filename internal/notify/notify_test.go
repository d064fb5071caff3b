package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureChannel records notifications and can simulate failures.
type captureChannel struct {
	name    string
	enabled bool
	err     error
	sent    []Notification
}

func (c *captureChannel) Name() string    { return c.name }
func (c *captureChannel) IsEnabled() bool { return c.enabled }
func (c *captureChannel) Send(ctx context.Context, n Notification) error {
	c.sent = append(c.sent, n)
	return c.err
}

func alertNotification() Notification {
	return Notification{
		Type:    NotificationAlert,
		Title:   "DEMO crossed breakeven 227.00",
		Message: "mark 230.00, strategy long-call",
		Data:    map[string]interface{}{"level": 227.0},
	}
}

func TestMultiNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("fans out to enabled channels", func(t *testing.T) {
		on := &captureChannel{name: "on", enabled: true}
		off := &captureChannel{name: "off", enabled: false}
		mn := NewMultiNotifier(FilterAll, on, off)

		require.NoError(t, mn.Send(ctx, alertNotification()))
		require.Len(t, on.sent, 1)
		assert.Empty(t, off.sent)
		assert.False(t, on.sent[0].Timestamp.IsZero(), "timestamp should be stamped")
	})

	t.Run("collects channel errors", func(t *testing.T) {
		bad := &captureChannel{name: "bad", enabled: true, err: errors.New("boom")}
		good := &captureChannel{name: "good", enabled: true}
		mn := NewMultiNotifier(FilterAll, bad, good)

		err := mn.Send(ctx, alertNotification())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad: boom")
		assert.Len(t, good.sent, 1, "a failing channel should not block the others")
	})

	t.Run("alerts only filter", func(t *testing.T) {
		ch := &captureChannel{name: "ch", enabled: true}
		mn := NewMultiNotifier(FilterAlertsOnly, ch)

		require.NoError(t, mn.Send(ctx, Notification{Type: NotificationInfo}))
		assert.Empty(t, ch.sent)

		require.NoError(t, mn.Send(ctx, alertNotification()))
		assert.Len(t, ch.sent, 1)
	})

	t.Run("errors only filter", func(t *testing.T) {
		ch := &captureChannel{name: "ch", enabled: true}
		mn := NewMultiNotifier(FilterErrorsOnly, ch)

		require.NoError(t, mn.Send(ctx, alertNotification()))
		assert.Empty(t, ch.sent)

		require.NoError(t, mn.Send(ctx, Notification{Type: NotificationError}))
		assert.Len(t, ch.sent, 1)
	})

	t.Run("add channel", func(t *testing.T) {
		ch := &captureChannel{name: "late", enabled: true}
		mn := NewMultiNotifier(FilterAll)
		mn.AddChannel(ch)

		require.NoError(t, mn.Send(ctx, alertNotification()))
		assert.Len(t, ch.sent, 1)
	})
}

func TestWebhookNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("posts notification as JSON", func(t *testing.T) {
		var (
			gotMethod  string
			gotType    string
			gotAgent   string
			gotPayload map[string]interface{}
		)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotType = r.Header.Get("Content-Type")
			gotAgent = r.Header.Get("User-Agent")
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &gotPayload))
			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		wn := NewWebhookNotifier(server.URL)
		require.True(t, wn.IsEnabled())

		n := alertNotification()
		n.Timestamp = time.Date(2026, 8, 25, 9, 30, 5, 0, time.UTC)
		require.NoError(t, wn.Send(ctx, n))

		assert.Equal(t, http.MethodPost, gotMethod)
		assert.Equal(t, "application/json", gotType)
		assert.Equal(t, "OptionsStrategist/1.0", gotAgent)
		assert.Equal(t, "alert", gotPayload["type"])
		assert.Equal(t, "DEMO crossed breakeven 227.00", gotPayload["title"])
		assert.Equal(t, "2026-08-25T09:30:05Z", gotPayload["timestamp"])
		data, ok := gotPayload["data"].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, 227.0, data["level"])
	})

	t.Run("reports non-2xx status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		wn := NewWebhookNotifier(server.URL)
		err := wn.Send(ctx, alertNotification())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "500")
	})

	t.Run("empty URL disables", func(t *testing.T) {
		wn := NewWebhookNotifier("")
		assert.False(t, wn.IsEnabled())
		assert.NoError(t, wn.Send(ctx, alertNotification()))
	})
}

func TestTerminalNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("formats a plain line", func(t *testing.T) {
		var buf bytes.Buffer
		tn := NewTerminalNotifier(&buf, false)
		tn.SetBell(false)

		n := alertNotification()
		n.Timestamp = time.Date(2026, 8, 25, 9, 30, 5, 0, time.UTC)
		require.NoError(t, tn.Send(ctx, n))

		want := "[09:30:05] ALERT DEMO crossed breakeven 227.00 | mark 230.00, strategy long-call\n"
		assert.Equal(t, want, buf.String())
	})

	t.Run("bell rings on alerts", func(t *testing.T) {
		var buf bytes.Buffer
		tn := NewTerminalNotifier(&buf, false)
		tn.SetBell(true)

		require.NoError(t, tn.Send(ctx, alertNotification()))
		assert.True(t, strings.HasPrefix(buf.String(), "\a"))
	})

	t.Run("tags by type", func(t *testing.T) {
		var buf bytes.Buffer
		tn := NewTerminalNotifier(&buf, false)
		tn.SetBell(false)

		require.NoError(t, tn.Send(ctx, Notification{Type: NotificationError, Message: "feed dropped"}))
		require.NoError(t, tn.Send(ctx, Notification{Type: NotificationInfo, Message: "watching DEMO"}))

		out := buf.String()
		assert.Contains(t, out, "ERROR | feed dropped")
		assert.Contains(t, out, "INFO | watching DEMO")
	})

	t.Run("stamps missing timestamp", func(t *testing.T) {
		var buf bytes.Buffer
		tn := NewTerminalNotifier(&buf, false)
		tn.SetBell(false)

		require.NoError(t, tn.Send(ctx, Notification{Type: NotificationInfo, Message: "x"}))
		assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] `, buf.String())
	})
}

func TestNoOpNotifier(t *testing.T) {
	nn := NewNoOpNotifier()
	assert.True(t, nn.IsEnabled())
	assert.NoError(t, nn.Send(context.Background(), alertNotification()))
}

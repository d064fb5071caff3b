package stream

import (
	"context"
	"testing"
	"time"

	"options-strategist/internal/models"
	"options-strategist/internal/notify"
)

// captureNotifier records every notification it receives.
type captureNotifier struct {
	sent []notify.Notification
}

func (c *captureNotifier) Send(ctx context.Context, n notify.Notification) error {
	c.sent = append(c.sent, n)
	return nil
}

func tick(symbol string, price float64) models.SpotUpdate {
	return models.SpotUpdate{Symbol: symbol, Price: price, Timestamp: time.Now()}
}

func TestLevelMonitorApproaching(t *testing.T) {
	m := NewLevelMonitor(nil)
	m.WatchLevels("DEMO", "test", LevelBreakeven, []float64{227})

	var events []LevelEvent
	m.SetOnApproaching(func(e LevelEvent) { events = append(events, e) })

	m.Check(tick("DEMO", 224))
	if len(events) != 0 {
		t.Fatalf("event fired at 1.3%% distance: %+v", events)
	}

	m.Check(tick("DEMO", 226))
	if len(events) != 1 {
		t.Fatalf("expected 1 approaching event, got %d", len(events))
	}
	e := events[0]
	if e.Symbol != "DEMO" || e.Strategy != "test" || e.Kind != LevelBreakeven {
		t.Errorf("wrong event identity: %+v", e)
	}
	if e.Level != 227 || e.Price != 226 || e.Crossed {
		t.Errorf("wrong event values: %+v", e)
	}
	if e.Distance >= 0 {
		t.Errorf("distance should be negative below the level, got %v", e.Distance)
	}

	// Still inside the window, but already notified.
	m.Check(tick("DEMO", 226.1))
	if len(events) != 1 {
		t.Errorf("approach fired twice with notify-once enabled")
	}
}

func TestLevelMonitorCrossing(t *testing.T) {
	m := NewLevelMonitor(nil)
	m.WatchLevels("DEMO", "test", LevelBreakeven, []float64{227})

	var crossed, approached []LevelEvent
	m.SetOnCrossed(func(e LevelEvent) { crossed = append(crossed, e) })
	m.SetOnApproaching(func(e LevelEvent) { approached = append(approached, e) })

	m.Check(tick("DEMO", 220))
	m.Check(tick("DEMO", 235))

	if len(crossed) != 1 {
		t.Fatalf("expected 1 crossed event, got %d", len(crossed))
	}
	if !crossed[0].Crossed || crossed[0].Level != 227 || crossed[0].Price != 235 {
		t.Errorf("wrong crossed event: %+v", crossed[0])
	}
	if len(approached) != 0 {
		t.Errorf("approach fired on a jump through the level: %+v", approached)
	}

	// Dipping back through is a second crossing, suppressed by notify-once.
	m.Check(tick("DEMO", 220))
	if len(crossed) != 1 {
		t.Errorf("crossing fired twice with notify-once enabled")
	}
}

func TestLevelMonitorCrossingSuppressesApproach(t *testing.T) {
	m := NewLevelMonitor(nil)
	m.WatchLevels("DEMO", "test", LevelStrike, []float64{227})

	var kinds []bool
	m.SetOnApproaching(func(e LevelEvent) { kinds = append(kinds, false) })
	m.SetOnCrossed(func(e LevelEvent) { kinds = append(kinds, true) })

	m.Check(tick("DEMO", 226.9))
	m.Check(tick("DEMO", 227.05))

	want := []bool{false, true}
	if len(kinds) != len(want) {
		t.Fatalf("expected approach then cross, got %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("expected approach then cross, got %v", kinds)
		}
	}
}

func TestLevelMonitorNotifyEveryTime(t *testing.T) {
	m := NewLevelMonitorWithConfig(nil, LevelMonitorConfig{
		ApproachPercent: 0.5,
		NotifyOnce:      false,
	})
	m.WatchLevels("DEMO", "test", LevelBreakeven, []float64{227})

	var crossings int
	m.SetOnCrossed(func(e LevelEvent) { crossings++ })

	for _, price := range []float64{220, 230, 220, 230} {
		m.Check(tick("DEMO", price))
	}
	if crossings != 3 {
		t.Errorf("expected 3 crossings, got %d", crossings)
	}
}

func TestLevelMonitorReset(t *testing.T) {
	m := NewLevelMonitor(nil)
	m.WatchLevels("DEMO", "test", LevelBreakeven, []float64{227})

	var crossings int
	m.SetOnCrossed(func(e LevelEvent) { crossings++ })

	m.Check(tick("DEMO", 220))
	m.Check(tick("DEMO", 230))
	m.Check(tick("DEMO", 220))
	m.Check(tick("DEMO", 230))
	if crossings != 1 {
		t.Fatalf("expected 1 crossing before reset, got %d", crossings)
	}

	m.Reset("DEMO")
	m.Check(tick("DEMO", 220))
	m.Check(tick("DEMO", 230))
	if crossings != 2 {
		t.Errorf("expected 2 crossings after reset, got %d", crossings)
	}
}

func TestLevelMonitorWatchAnalysis(t *testing.T) {
	legs, err := models.NewLegSet(
		models.NewOptionLeg(models.SideLong, models.InstrumentCall, 220, 13, 1),
	)
	if err != nil {
		t.Fatal(err)
	}
	analysis := &models.Analysis{Legs: legs, Breakevens: []float64{233}}

	m := NewLevelMonitor(nil)
	m.Watch("DEMO", "long-call", analysis)

	if got := m.LevelCount(); got != 2 {
		t.Fatalf("expected breakeven and strike levels, got %d", got)
	}
	if symbols := m.Symbols(); len(symbols) != 1 || symbols[0] != "DEMO" {
		t.Fatalf("wrong symbols: %v", symbols)
	}

	var events []LevelEvent
	m.SetOnCrossed(func(e LevelEvent) { events = append(events, e) })

	m.Check(tick("DEMO", 218))
	m.Check(tick("DEMO", 234))

	if len(events) != 2 {
		t.Fatalf("expected strike and breakeven crossings, got %d", len(events))
	}
	byKind := map[LevelKind]float64{}
	for _, e := range events {
		byKind[e.Kind] = e.Level
	}
	if byKind[LevelBreakeven] != 233 || byKind[LevelStrike] != 220 {
		t.Errorf("wrong crossed levels: %v", byKind)
	}
}

func TestLevelMonitorNotifier(t *testing.T) {
	capture := &captureNotifier{}
	m := NewLevelMonitor(capture)
	m.WatchLevels("DEMO", "long-call", LevelBreakeven, []float64{227})

	m.Check(tick("DEMO", 220))
	m.Check(tick("DEMO", 230))

	if len(capture.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(capture.sent))
	}
	n := capture.sent[0]
	if n.Type != notify.NotificationAlert {
		t.Errorf("wrong type: %s", n.Type)
	}
	if n.Title != "DEMO crossed breakeven 227.00" {
		t.Errorf("wrong title: %q", n.Title)
	}
	if n.Message != "mark 230.00, strategy long-call" {
		t.Errorf("wrong message: %q", n.Message)
	}
	if crossed, _ := n.Data["crossed"].(bool); !crossed {
		t.Errorf("data not populated: %v", n.Data)
	}
	if n.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestLevelMonitorUnwatch(t *testing.T) {
	m := NewLevelMonitor(nil)
	m.WatchLevels("DEMO", "test", LevelBreakeven, []float64{227})
	m.WatchLevels("OTHER", "test", LevelBreakeven, []float64{100})

	m.Unwatch("DEMO")

	var events int
	m.SetOnCrossed(func(e LevelEvent) { events++ })
	m.Check(tick("DEMO", 220))
	m.Check(tick("DEMO", 230))
	if events != 0 {
		t.Errorf("events fired for an unwatched symbol")
	}

	if symbols := m.Symbols(); len(symbols) != 1 || symbols[0] != "OTHER" {
		t.Errorf("wrong symbols after unwatch: %v", symbols)
	}
}

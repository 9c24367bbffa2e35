package offline

import "testing"

func TestMonitorTransitions(t *testing.T) {
	monitor := NewMonitor(false)
	if monitor.Online() {
		t.Fatalf("expected initial offline")
	}

	var got []bool
	monitor.Subscribe(func(online bool) {
		got = append(got, online)
	})

	monitor.SetOnline(true)
	monitor.SetOnline(true) // duplicate report, no transition
	monitor.SetOnline(false)

	if monitor.Online() {
		t.Fatalf("expected offline after final transition")
	}
	if len(got) != 2 || got[0] != true || got[1] != false {
		t.Fatalf("unexpected notifications %#v", got)
	}
}

func TestMonitorUnsubscribe(t *testing.T) {
	monitor := NewMonitor(false)
	calls := 0
	cancel := monitor.Subscribe(func(bool) { calls++ })
	monitor.SetOnline(true)
	cancel()
	monitor.SetOnline(false)
	if calls != 1 {
		t.Fatalf("expected 1 call after unsubscribe, got %d", calls)
	}
}

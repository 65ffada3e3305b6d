package bus

import (
	"sort"
	"testing"
	"time"
)

func TestPublishReachesSubscriber(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("refresh")
	sub := conn.Subscribe(T("leds", "led"))

	conn.Publish(conn.NewMessage(T("leds", "led"), "n7", false))
	expectOneOf(t, sub, "n7")
}

func TestRetainedReplayedOnSubscribe(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("wifi")
	conn.Publish(conn.NewMessage(T("status", "wifi"), "up", true))

	sub := conn.Subscribe(T("status", "wifi"))
	expectOneOf(t, sub, "up")
}

// -----------------------------------------------------------------------------
// Wildcards
// -----------------------------------------------------------------------------

func TestSingleLevelWildcard(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	anyStatus := c.Subscribe(T("status", SingleLevel))
	anyTwo := c.Subscribe(T(SingleLevel, SingleLevel))
	wifiOnly := c.Subscribe(T("status", "wifi"))
	config := c.Subscribe(T("config", SingleLevel))

	c.Publish(b.NewMessage(T("status", "wifi"), "w", false))
	expectOneOf(t, anyStatus, "w")
	expectOneOf(t, anyTwo, "w")
	expectOneOf(t, wifiOnly, "w")
	expectNoMessage(t, config)

	c.Publish(b.NewMessage(T("config", "refresh"), "r", false))
	expectOneOf(t, anyTwo, "r")
	expectOneOf(t, config, "r")
	expectNoMessage(t, anyStatus)
	expectNoMessage(t, wifiOnly)

	// "+" matches exactly one token.
	c.Publish(b.NewMessage(T("status"), "short", false))
	c.Publish(b.NewMessage(T("status", "ota", "detail"), "long", false))
	expectNoMessage(t, anyStatus)
	expectNoMessage(t, anyTwo)
}

func TestMultiLevelWildcard(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	leds := c.Subscribe(T("leds", MultiLevel))
	all := c.Subscribe(T(MultiLevel))
	ledExact := c.Subscribe(T("leds", "led"))

	c.Publish(b.NewMessage(T("leds"), "bare", false))
	expectOneOf(t, leds, "bare")
	expectOneOf(t, all, "bare")
	expectNoMessage(t, ledExact)

	c.Publish(b.NewMessage(T("leds", "clear"), "clear", false))
	expectOneOf(t, leds, "clear")
	expectOneOf(t, all, "clear")
	expectNoMessage(t, ledExact)

	c.Publish(b.NewMessage(T("status", "error"), "err", false))
	expectOneOf(t, all, "err")
	expectNoMessage(t, leds)
}

func TestWildcardRetainedReplay(t *testing.T) {
	b := NewBus(32)
	c := b.NewConnection("test")

	for _, tp := range []Topic{
		T("status", "wifi"),
		T("status", "ota"),
		T("status", "direction"),
		T("config", "night"),
	} {
		c.Publish(b.NewMessage(tp, tp.String(), true))
	}

	got := drainPayloads(t, c.Subscribe(T("status", MultiLevel)), 3)
	assertUnorderedEqual(t, got, []string{"status/wifi", "status/ota", "status/direction"})

	got = drainPayloads(t, c.Subscribe(T(SingleLevel, "night")), 1)
	assertUnorderedEqual(t, got, []string{"config/night"})
}

func TestNilRetainedClears(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(T("status", "ota"), "available", true))
	c.Publish(b.NewMessage(T("status", "wifi"), "up", true))
	c.Publish(b.NewMessage(T("status", "ota"), nil, true))

	got := drainPayloads(t, c.Subscribe(T("status", MultiLevel)), 1)
	if got[0] != "up" {
		t.Fatalf("replayed %v after clearing status/ota", got)
	}
}

// -----------------------------------------------------------------------------
// Delivery
// -----------------------------------------------------------------------------

func TestSlowSubscriberLosesOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")
	s := c.Subscribe(T("leds", "frame"))

	for _, p := range []string{"f1", "f2", "f3"} {
		c.Publish(b.NewMessage(T("leds", "frame"), p, false))
	}
	expectOneOf(t, s, "f2")
	expectOneOf(t, s, "f3")
	expectNoMessage(t, s)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s := c.Subscribe(ParseTopic("status/error"))
	s.Unsubscribe()

	if _, ok := <-s.Channel(); ok {
		t.Fatal("channel still open after Unsubscribe")
	}
	// A second call is a no-op.
	c.Unsubscribe(s)

	c.Publish(b.NewMessage(ParseTopic("status/error"), "x", false))
}

func TestDisconnectClosesAll(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")
	s1 := c.Subscribe(T("a"))
	s2 := c.Subscribe(T("b", "#"))
	c.Disconnect()

	for _, s := range []*Subscription{s1, s2} {
		if _, ok := <-s.Channel(); ok {
			t.Fatalf("subscription %v still open", s.Topic())
		}
	}
}

func TestParseTopic(t *testing.T) {
	if got := ParseTopic("status/wifi"); !got.Equal(T("status", "wifi")) {
		t.Fatalf("ParseTopic = %v", got)
	}
	if got := T("status", "ota").String(); got != "status/ota" {
		t.Fatalf("String = %q", got)
	}
	if ParseTopic("") != nil {
		t.Fatal("empty topic should parse to nil")
	}
}

// -----------------------------------------------------------------------------
// helpers
// -----------------------------------------------------------------------------

func expectOneOf(t *testing.T, sub *Subscription, want string) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		s, ok := got.Payload.(string)
		if !ok || s != want {
			t.Fatalf("unexpected payload: %v (want %q)", got.Payload, want)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message: %#v", got)
	case <-time.After(60 * time.Millisecond):
	}
}

func drainPayloads(t *testing.T, sub *Subscription, n int) []string {
	t.Helper()
	var out []string
	deadline := time.Now().Add(300 * time.Millisecond)
	for len(out) < n && time.Now().Before(deadline) {
		select {
		case m := <-sub.Channel():
			if s, ok := m.Payload.(string); ok {
				out = append(out, s)
			} else {
				t.Fatalf("non-string payload in drain: %#v", m.Payload)
			}
		case <-time.After(10 * time.Millisecond):
		}
	}
	if len(out) != n {
		t.Fatalf("drainPayloads: expected %d messages, got %d (%v)", n, len(out), out)
	}
	return out
}

func assertUnorderedEqual(t *testing.T, got, want []string) {
	t.Helper()
	sort.Strings(got)
	sort.Strings(want)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: got %q, want %q (got=%v want=%v)", i, got[i], want[i], got, want)
		}
	}
}

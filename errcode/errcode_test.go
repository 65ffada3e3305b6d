package errcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestOf(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, OK},
		{"bare code", LostMark, LostMark},
		{"wrapped code", fmt.Errorf("store: %w", InvalidSize), InvalidSize},
		{"E", Wrap(BadStatus, "open", errors.New("404")), BadStatus},
		{"wrapped E", fmt.Errorf("fetch: %w", New(NoConn, "fetch", "retries exhausted")), NoConn},
		{"foreign", errors.New("boom"), Error},
	}
	for _, c := range cases {
		if got := Of(c.err); got != c.want {
			t.Fatalf("%s: Of() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestEError(t *testing.T) {
	e := &E{C: Fail, Op: "dots.exec", Msg: "chip 0x30", Err: errors.New("nack")}
	if got, want := e.Error(), "dots.exec: fail: chip 0x30: nack"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(e, e.Err) {
		t.Fatal("Unwrap did not expose cause")
	}
	if !Is(e, Fail) {
		t.Fatal("Is(e, Fail) = false")
	}
}

package mathx

import (
	"math"
	"testing"
)

func TestModAddSubRange(t *testing.T) {
	vals := []uint32{0, 1, 2, 7, 255, 1 << 16, math.MaxUint32 - 1, math.MaxUint32}
	mods := []uint32{1, 2, 3, 256, 1<<31 + 5, math.MaxUint32}
	for _, n := range mods {
		for _, a := range vals {
			for _, b := range vals {
				r, ok := ModAdd(a, b, n)
				if !ok || r >= n {
					t.Fatalf("ModAdd(%d,%d,%d) = %d,%v", a, b, n, r, ok)
				}
				want := uint32((uint64(a) + uint64(b)) % uint64(n))
				if r != want {
					t.Fatalf("ModAdd(%d,%d,%d) = %d, want %d", a, b, n, r, want)
				}
				s, ok := ModSub(a, b, n)
				if !ok || s >= n {
					t.Fatalf("ModSub(%d,%d,%d) = %d,%v", a, b, n, s, ok)
				}
				if got, _ := ModAdd(s, b, n); got != a%n {
					t.Fatalf("ModSub(%d,%d,%d)+%d = %d, want %d", a, b, n, b, got, a%n)
				}
			}
		}
	}
}

func TestModZero(t *testing.T) {
	if _, ok := ModAdd(3, 4, 0); ok {
		t.Fatal("ModAdd with n=0 reported ok")
	}
	if _, ok := ModSub(3, 4, 0); ok {
		t.Fatal("ModSub with n=0 reported ok")
	}
}

func TestModSubNegative(t *testing.T) {
	if r, _ := ModSub(1, 3, 10); r != 8 {
		t.Fatalf("ModSub(1,3,10) = %d, want 8", r)
	}
	if r, _ := ModSub(-4, 0, 10); r != 6 {
		t.Fatalf("ModSub(-4,0,10) = %d, want 6", r)
	}
}

func TestClamp(t *testing.T) {
	if Clamp(-3, 0, 10) != 0 || Clamp(12, 0, 10) != 10 || Clamp(5, 10, 0) != 5 {
		t.Fatal("Clamp out of range")
	}
}

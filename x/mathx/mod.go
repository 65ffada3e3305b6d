package mathx

import "golang.org/x/exp/constraints"

// ModAdd returns (a + b) mod n, always in [0, n).
// Intermediates are signed 64-bit, so any 32-bit operands are safe.
// ok is false when n is zero.
func ModAdd[T constraints.Integer](a, b, n T) (r T, ok bool) {
	if n == 0 {
		return 0, false
	}
	return T(mod64(int64(a)+int64(b), int64(n))), true
}

// ModSub returns (a - b) mod n, always in [0, n).
// ok is false when n is zero.
func ModSub[T constraints.Integer](a, b, n T) (r T, ok bool) {
	if n == 0 {
		return 0, false
	}
	return T(mod64(int64(a)-int64(b), int64(n))), true
}

func mod64(v, n int64) int64 {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

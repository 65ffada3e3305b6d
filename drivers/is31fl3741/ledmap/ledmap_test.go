package ledmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trafficdots-go/drivers/is31fl3741"
)

func TestV1Table(t *testing.T) {
	m := V1()
	require.Equal(t, 326, m.MaxLED())
	require.Len(t, m.Chips, 3)

	_, ok := m.Lookup(0)
	assert.False(t, ok, "led 0 is reserved")
	_, ok = m.Lookup(327)
	assert.False(t, ok)

	a, ok := m.Lookup(329)
	require.True(t, ok)
	b, _ := m.Lookup(325)
	assert.Equal(t, b, a)

	for n := 1; n <= m.MaxLED(); n++ {
		loc, ok := m.Lookup(n)
		require.True(t, ok)
		require.Less(t, int(loc.Chip), len(m.Chips), "led %d", n)
		require.True(t, loc.Page == is31fl3741.PagePWM0 || loc.Page == is31fl3741.PagePWM1, "led %d", n)
	}
}

func TestV1RegistersUnique(t *testing.T) {
	m := V1()
	type key struct {
		chip uint8
		page is31fl3741.Page
		reg  uint8
	}
	seen := map[key]int{}
	for n := 1; n <= m.MaxLED(); n++ {
		loc, _ := m.Lookup(n)
		for _, r := range loc.Regs() {
			k := key{loc.Chip, loc.Page, r}
			if prev, dup := seen[k]; dup {
				t.Fatalf("led %d reuses register %+v of led %d", n, k, prev)
			}
			seen[k] = n
		}
	}
}

func TestV2Sequential(t *testing.T) {
	m := V2()
	require.Equal(t, 414, m.MaxLED())
	require.Len(t, m.Chips, 4)

	loc, _ := m.Lookup(1)
	assert.Equal(t, Location{Chip: 0, Page: is31fl3741.PagePWM0, R: 0, G: 1, B: 2}, loc)

	// 61st LED of a chip is the first on page 1.
	loc, _ = m.Lookup(61)
	assert.Equal(t, Location{Chip: 0, Page: is31fl3741.PagePWM1, R: 0, G: 1, B: 2}, loc)

	loc, _ = m.Lookup(117)
	assert.Equal(t, Location{Chip: 0, Page: is31fl3741.PagePWM1, R: 168, G: 169, B: 170}, loc)

	loc, _ = m.Lookup(118)
	assert.Equal(t, Location{Chip: 1, Page: is31fl3741.PagePWM0, R: 0, G: 1, B: 2}, loc)

	loc, _ = m.Lookup(414)
	assert.Equal(t, uint8(3), loc.Chip)
}

func TestFor(t *testing.T) {
	m, err := For(1)
	require.NoError(t, err)
	assert.Equal(t, uint8(1), m.Hardware)

	m, err = For(2)
	require.NoError(t, err)
	assert.Equal(t, uint8(2), m.Hardware)

	_, err = For(3)
	assert.ErrorIs(t, err, ErrUnknownHardware)
}

func TestScalingPage(t *testing.T) {
	assert.Equal(t, is31fl3741.PageScaling0, is31fl3741.PagePWM0.ScalingPage())
	assert.Equal(t, is31fl3741.PageScaling1, is31fl3741.PagePWM1.ScalingPage())
}

func TestIndicators(t *testing.T) {
	_, ok := V1().Indicators()
	assert.False(t, ok)
	assert.False(t, V1().NoRefresh(325))

	m := V2()
	ind, ok := m.Indicators()
	require.True(t, ok)
	assert.Equal(t, uint16(414), ind.WiFi)
	for _, n := range []int{414, 413, 325, 411, 409, 412, 410, 328, 326, 327, 46} {
		assert.True(t, m.NoRefresh(n), "led %d", n)
		_, found := m.Lookup(n)
		assert.True(t, found, "led %d", n)
	}
	assert.False(t, m.NoRefresh(1))
	assert.False(t, m.NoRefresh(324))
}

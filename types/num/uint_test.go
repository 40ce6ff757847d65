package num_test

import (
	"testing"

	"code.stakewire.io/stakewire/types/num"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUintConstructors(t *testing.T) {
	t.Run("from string - success", testUintFromString)
	t.Run("from string - failure", testUintFromStringInvalid)
	t.Run("from decimal drops the fractional part", testUintFromDecimal)
}

func TestMulDiv(t *testing.T) {
	t.Run("muldiv rounds down", testMulDivFloor)
	t.Run("muldivup rounds up", testMulDivCeil)
	t.Run("muldiv and muldivup agree on exact quotients", testMulDivExact)
	t.Run("muldiv survives intermediate overflow", testMulDivWideIntermediate)
	t.Run("a quotient wider than 256 bits panics", testMulDivQuotientOverflow)
}

func testUintFromString(t *testing.T) {
	u, overflow := num.UintFromString("1000000000000000000000000")
	require.False(t, overflow)
	assert.Equal(t, "1000000000000000000000000", u.String())
}

func testUintFromStringInvalid(t *testing.T) {
	_, overflow := num.UintFromString("not a number")
	assert.True(t, overflow)
	_, overflow = num.UintFromString("10.3")
	assert.True(t, overflow)
}

func testUintFromDecimal(t *testing.T) {
	d := num.MustDecimalFromString("42.9")
	u, overflow := num.UintFromDecimal(d)
	require.False(t, overflow)
	assert.True(t, u.EQUint64(42))
}

func testMulDivFloor(t *testing.T) {
	// 10 * 100 / 3 = 333.33...
	res := num.MulDiv(num.NewUint(10), num.NewUint(100), num.NewUint(3))
	assert.True(t, res.EQUint64(333))
}

func testMulDivCeil(t *testing.T) {
	res := num.MulDivUp(num.NewUint(10), num.NewUint(100), num.NewUint(3))
	assert.True(t, res.EQUint64(334))
}

func testMulDivExact(t *testing.T) {
	down := num.MulDiv(num.NewUint(50), num.NewUint(4), num.NewUint(2))
	up := num.MulDivUp(num.NewUint(50), num.NewUint(4), num.NewUint(2))
	assert.True(t, down.EQ(up))
	assert.True(t, down.EQUint64(100))
}

func testMulDivWideIntermediate(t *testing.T) {
	// x*y does not fit 64 bits, the full width product must be used
	// before dividing
	x := num.MustUintFromString("340282366920938463463374607431768211456") // 2^128
	y := num.MustUintFromString("18446744073709551616")                    // 2^64
	res := num.MulDiv(x, y, y)
	assert.True(t, res.EQ(x))
}

func testMulDivQuotientOverflow(t *testing.T) {
	// 2^128 * 2^128 / 1 = 2^256, one past the top; truncating it would
	// corrupt the amount, so the wrapper refuses
	x := num.MustUintFromString("340282366920938463463374607431768211456") // 2^128
	require.Panics(t, func() {
		num.MulDiv(x, x, num.NewUint(1))
	})
}

func TestUintText(t *testing.T) {
	u := num.MustUintFromString("123456789123456789123456789")
	b, err := u.MarshalText()
	require.NoError(t, err)

	restored := num.UintZero()
	require.NoError(t, restored.UnmarshalText(b))
	assert.True(t, u.EQ(restored))
}

func TestUintCloneIsDetached(t *testing.T) {
	u := num.NewUint(100)
	cpy := u.Clone()
	u.AddSum(num.NewUint(1))
	assert.True(t, cpy.EQUint64(100))
	assert.True(t, u.EQUint64(101))
}

package num

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// Uint is a wrapper for a 256 bit unsigned integer, the unit of both
// collateral and share amounts.
type Uint struct {
	u uint256.Int
}

// NewUint creates a new Uint with the value of the uint64 passed as a parameter.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintZero returns a new Uint set to zero.
func UintZero() *Uint {
	return NewUint(0)
}

// UintFromBig constructs a new Uint from a big.Int,
// returns true if an overflow happened.
func UintFromBig(b *big.Int) (*Uint, bool) {
	u, overflow := uint256.FromBig(b)
	if overflow {
		return UintZero(), true
	}
	return &Uint{*u}, false
}

// UintFromString creates a new Uint from a base 10 string,
// returns true if the string was invalid or overflowed.
func UintFromString(str string) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, 10)
	if !ok {
		return UintZero(), true
	}
	return UintFromBig(b)
}

// MustUintFromString creates a new Uint from a base 10 string and
// panics on failure. Reserved for literals in tests and defaults.
func MustUintFromString(str string) *Uint {
	u, overflow := UintFromString(str)
	if overflow {
		panic(fmt.Sprintf("invalid uint string %q", str))
	}
	return u
}

// UintFromDecimal returns a Uint from a Decimal, dropping any fractional
// part, returns true on overflow.
func UintFromDecimal(d Decimal) (*Uint, bool) {
	return UintFromBig(d.BigInt())
}

// Sum returns the sum of all the values passed as parameters.
func Sum(vals ...*Uint) *Uint {
	return UintZero().AddSum(vals...)
}

// Min returns the smallest of the 2 numbers.
func Min(a, b *Uint) *Uint {
	if a.LT(b) {
		return a
	}
	return b
}

// Max returns the largest of the 2 numbers.
func Max(a, b *Uint) *Uint {
	if a.GT(b) {
		return a
	}
	return b
}

// MulDiv returns floor(x * y / z) using full 512 bit precision for the
// intermediate product. Truncation is the rounding the protocol uses for
// both minting and redemption. z must not be zero. A quotient wider than
// 256 bits panics rather than truncating, amounts are never corrupted.
func MulDiv(x, y, z *Uint) *Uint {
	res := &Uint{}
	if _, overflow := res.u.MulDivOverflow(&x.u, &y.u, &z.u); overflow {
		panic("num: MulDiv quotient overflows 256 bits")
	}
	return res
}

// MulDivUp returns ceil(x * y / z), the rounding used when computing the
// number of shares needed to cover a principal amount.
func MulDivUp(x, y, z *Uint) *Uint {
	res := MulDiv(x, y, z)
	rem := &uint256.Int{}
	rem.MulMod(&x.u, &y.u, &z.u)
	if !rem.IsZero() {
		res.u.Add(&res.u, uint256.NewInt(1))
	}
	return res
}

func (z *Uint) Set(oth *Uint) *Uint {
	z.u.Set(&oth.u)
	return z
}

func (z Uint) Uint64() uint64 {
	return z.u.Uint64()
}

func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

func (z *Uint) ToDecimal() Decimal {
	return DecimalFromUint(z)
}

// Add will add x and y then store the result into z, returned for
// convenience.
func (z *Uint) Add(x, y *Uint) *Uint {
	z.u.Add(&x.u, &y.u)
	return z
}

// AddSum adds multiple values at the same time to a given uint,
// so x.AddSum(y, z) is equivalent to x + y + z.
func (z *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		z.u.Add(&z.u, &x.u)
	}
	return z
}

// Sub will subtract y from x then store the result into z.
func (z *Uint) Sub(x, y *Uint) *Uint {
	z.u.Sub(&x.u, &y.u)
	return z
}

// Mul will multiply x and y then store the result into z.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// Div will divide x by y then store the result into z.
func (z *Uint) Div(x, y *Uint) *Uint {
	z.u.Div(&x.u, &y.u)
	return z
}

func (z Uint) LT(oth *Uint) bool {
	return z.u.Lt(&oth.u)
}

func (z Uint) LTE(oth *Uint) bool {
	return z.u.Lt(&oth.u) || z.u.Eq(&oth.u)
}

func (z Uint) GT(oth *Uint) bool {
	return z.u.Gt(&oth.u)
}

func (z Uint) GTE(oth *Uint) bool {
	return z.u.Gt(&oth.u) || z.u.Eq(&oth.u)
}

func (z Uint) EQ(oth *Uint) bool {
	return z.u.Eq(&oth.u)
}

func (z Uint) NEQ(oth *Uint) bool {
	return !z.u.Eq(&oth.u)
}

func (z Uint) EQUint64(oth uint64) bool {
	return z.u.Eq(uint256.NewInt(oth))
}

// IsZero returns whether z == 0 or not.
func (z Uint) IsZero() bool {
	return z.u.IsZero()
}

// Copy sets z to x and returns z.
func (z *Uint) Copy(x *Uint) *Uint {
	z.u = x.u
	return z
}

// Clone creates an independent copy of z. Accessors hand out clones so
// callers never hold an alias into engine state.
func (z Uint) Clone() *Uint {
	return &Uint{z.u}
}

// String returns the stored value as a base 10 string.
func (z Uint) String() string {
	return z.u.ToBig().String()
}

// Format implements fmt.Formatter.
func (z Uint) Format(s fmt.State, ch rune) {
	z.u.Format(s, ch)
}

// MarshalText makes amounts serialise as base 10 strings, never floats,
// so checkpoints round-trip byte-for-byte.
func (z Uint) MarshalText() ([]byte, error) {
	return []byte(z.String()), nil
}

// UnmarshalText parses a base 10 string amount.
func (z *Uint) UnmarshalText(text []byte) error {
	u, overflow := UintFromString(string(text))
	if overflow {
		return fmt.Errorf("invalid uint string %q", string(text))
	}
	z.u = u.u
	return nil
}

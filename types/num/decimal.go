package num

import (
	"github.com/shopspring/decimal"
)

// Decimal is the arbitrary precision type used for reporting the exchange
// rate. All accounting stays in Uint, decimals never feed back into state.
type Decimal = decimal.Decimal

func DecimalZero() Decimal {
	return decimal.Zero
}

func DecimalOne() Decimal {
	return decimal.New(1, 0)
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

func MustDecimalFromString(s string) Decimal {
	d, err := DecimalFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), 0)
}

func MaxD(a, b Decimal) Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

func MinD(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

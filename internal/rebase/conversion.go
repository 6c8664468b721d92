// internal/rebase/conversion.go
package rebase

import (
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
)

var maxUint64 = new(big.Int).SetUint64(math.MaxUint64)

// maxUint64Digits is the number of decimal digits in math.MaxUint64.
const maxUint64Digits = 20

// mulDivRound returns x*num/den rounded half-up. den must be non-zero.
func mulDivRound(x *big.Int, num, den uint64) *big.Int {
	d := new(big.Int).SetUint64(den)
	n := new(big.Int).Mul(x, new(big.Int).SetUint64(num))
	n.Lsh(n, 1).Add(n, d)
	return n.Quo(n, d.Lsh(d, 1))
}

func saturate(v *big.Int) uint64 {
	if v.Cmp(maxUint64) > 0 {
		return math.MaxUint64
	}
	return v.Uint64()
}

// AmountToShares converts a raw token amount into shares. With no supply
// the ratio is 1:1.
func (s State) AmountToShares(amount uint64) uint64 {
	if s.TotalSupply == 0 {
		return amount
	}
	return saturate(mulDivRound(new(big.Int).SetUint64(amount), s.TotalShares, s.TotalSupply))
}

// SharesToAmount converts shares back into a raw token amount. With no
// shares the ratio is 1:1.
func (s State) SharesToAmount(shares uint64) uint64 {
	if s.TotalShares == 0 {
		return shares
	}
	return saturate(mulDivRound(new(big.Int).SetUint64(shares), s.TotalSupply, s.TotalShares))
}

// SharesToUIAmount formats the amount backing shares with exactly decimals
// fractional digits.
func (s State) SharesToUIAmount(shares uint64, decimals uint8) string {
	amount := new(big.Int).SetUint64(s.SharesToAmount(shares))
	return decimal.NewFromBigInt(amount, -int32(decimals)).StringFixed(int32(decimals))
}

// TryUIAmountIntoShares parses a decimal UI amount, scales it by
// 10^decimals and converts the result to shares. Digits beyond the token's
// precision are truncated.
//
// The magnitude is checked from the coefficient length and exponent before
// any scaling, so inputs like "1e20000000" are rejected without building
// the full integer.
func (s State) TryUIAmountIntoShares(uiAmount string, decimals uint8) (uint64, error) {
	parsed, err := decimal.NewFromString(uiAmount)
	if err != nil {
		return 0, fmt.Errorf("parse ui amount %q: %w", uiAmount, tokenerr.ErrInvalidArgument)
	}
	if parsed.IsNegative() {
		return 0, fmt.Errorf("negative ui amount %q: %w", uiAmount, tokenerr.ErrInvalidArgument)
	}

	if parsed.IsZero() {
		return s.AmountToShares(0), nil
	}

	// The scaled value lies in [10^(magnitude-1), 10^magnitude).
	magnitude := int64(parsed.NumDigits()) + int64(parsed.Exponent()) + int64(decimals)
	switch {
	case magnitude <= 0:
		return s.AmountToShares(0), nil
	case magnitude > maxUint64Digits:
		return 0, fmt.Errorf("ui amount %q exceeds u64 range: %w", uiAmount, tokenerr.ErrInvalidArgument)
	}

	amount := parsed.Shift(int32(decimals)).Truncate(0).BigInt()
	if amount.Cmp(maxUint64) > 0 {
		return 0, fmt.Errorf("ui amount %q exceeds u64 range: %w", uiAmount, tokenerr.ErrInvalidArgument)
	}
	return s.AmountToShares(amount.Uint64()), nil
}

// internal/rebase/rebase.go
package rebase

import (
	"fmt"
	"math/big"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
)

// Rebase returns the state after re-scaling the supply to newSupply. The
// receiver is never modified, so a rejected rebase leaves nothing behind.
//
// The exact new share count is rounded to the nearest whole share and the
// signed residual is combined with the carry banked by the previous rebase.
// A combined carry of a whole share or more becomes an extra share; a
// negative one borrows a share back. The realised shares plus the banked
// carry therefore track the exact result, so drift stays under one share.
//
// A positive exact result never commits zero shares: the last share is not
// borrowed, and a result below half a share is rounded up to one share with
// nothing banked.
func (s State) Rebase(newSupply uint64) (State, error) {
	if newSupply == 0 {
		return s, tokenerr.ErrInvalidSupply
	}

	scale := big.NewInt(CarryScale)

	// Exact new shares in units of 1/CarryScale share.
	var exact *big.Int
	if s.TotalSupply == 0 {
		// 1:1 bootstrap, same policy as AmountToShares.
		exact = new(big.Int).Mul(new(big.Int).SetUint64(newSupply), scale)
	} else {
		scaledShares := new(big.Int).Mul(new(big.Int).SetUint64(s.TotalShares), scale)
		exact = mulDivRound(scaledShares, newSupply, s.TotalSupply)
	}

	rounded := mulDivRound(exact, 1, CarryScale)
	residual := new(big.Int).Sub(exact, new(big.Int).Mul(rounded, scale))
	combined := residual.Add(residual, big.NewInt(int64(s.RoundingErrorCarry)))

	switch {
	case combined.Cmp(scale) >= 0:
		extra, rem := new(big.Int).QuoRem(combined, scale, new(big.Int))
		rounded.Add(rounded, extra)
		combined = rem
	case combined.Sign() < 0:
		if rounded.Cmp(big.NewInt(1)) > 0 {
			rounded.Sub(rounded, big.NewInt(1))
			combined.Add(combined, scale)
		} else {
			combined.SetInt64(0)
		}
	}
	if rounded.Sign() == 0 && (s.TotalShares > 0 || s.TotalSupply == 0) {
		rounded.SetInt64(1)
		combined.SetInt64(0)
	}

	if !rounded.IsUint64() {
		return s, fmt.Errorf("rebase to supply %d: %w", newSupply, tokenerr.ErrOverflow)
	}

	next := s
	next.TotalSupply = newSupply
	next.TotalShares = rounded.Uint64()
	next.RoundingErrorCarry = uint16(combined.Int64())
	return next, nil
}

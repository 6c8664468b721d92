// internal/token/account.go
package token

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
)

// AccountInfo is the view of an account handed to the processor for the
// duration of one instruction.
type AccountInfo struct {
	Key        solana.PublicKey
	Owner      solana.PublicKey
	IsSigner   bool
	IsWritable bool
	Data       []byte
}

// Clone returns a deep copy, including the data buffer.
func (a *AccountInfo) Clone() *AccountInfo {
	c := *a
	c.Data = append([]byte(nil), a.Data...)
	return &c
}

// AccountIter hands out accounts in instruction order.
type AccountIter struct {
	accounts []*AccountInfo
}

func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account or ErrNotEnoughAccountKeys.
func (it *AccountIter) Next() (*AccountInfo, error) {
	if len(it.accounts) == 0 {
		return nil, tokenerr.ErrNotEnoughAccountKeys
	}
	next := it.accounts[0]
	it.accounts = it.accounts[1:]
	return next, nil
}

// Rest returns the accounts not yet consumed.
func (it *AccountIter) Rest() []*AccountInfo {
	return it.accounts
}

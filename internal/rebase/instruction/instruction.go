// internal/rebase/instruction/instruction.go
package instruction

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/rebase-mint/internal/types"
)

// Initialize builds the instruction that attaches the rebase extension to a
// mint. It has to run before the base mint is initialized.
//
// Accounts:
//
//	0. [writable] the mint
func Initialize(
	programID solana.PublicKey,
	mint solana.PublicKey,
	supplyAuthority types.OptionalPubkey,
	initialSupply uint16,
) (solana.Instruction, error) {
	data, err := Encode(OpInitialize, InitializeData{
		SupplyAuthority: supplyAuthority,
		InitialSupply:   initialSupply,
	})
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: mint, IsSigner: false, IsWritable: true},
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

// RebaseSupply builds the instruction that re-scales the mint's supply.
//
// Accounts for a single authority:
//
//	0. [writable] the mint
//	1. [signer] the rebase authority
//
// Accounts for a multisig authority:
//
//	0. [writable] the mint
//	1. [] the multisig authority
//	2..2+M [signer] M signer accounts
func RebaseSupply(
	programID solana.PublicKey,
	mint solana.PublicKey,
	supplyAuthority solana.PublicKey,
	signers []solana.PublicKey,
	newSupply uint16,
) (solana.Instruction, error) {
	data, err := Encode(OpRebaseSupply, RebaseSupplyData{NewSupply: newSupply})
	if err != nil {
		return nil, err
	}

	accounts := []*solana.AccountMeta{
		{PublicKey: mint, IsSigner: false, IsWritable: true},
		{PublicKey: supplyAuthority, IsSigner: len(signers) == 0, IsWritable: false},
	}
	for _, signer := range signers {
		accounts = append(accounts, &solana.AccountMeta{PublicKey: signer, IsSigner: true, IsWritable: false})
	}
	return solana.NewInstruction(programID, accounts, data), nil
}

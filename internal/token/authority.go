// internal/token/authority.go
package token

import (
	"github.com/gagliardetto/solana-go"

	"github.com/rovshanmuradov/rebase-mint/internal/tokenerr"
)

// ValidateOwner checks that ownerInfo is the expected authority and that it
// has approved the instruction: either by signing itself or, when it is a
// multisig owned by programID, through at least M of its listed signers
// among signers.
func ValidateOwner(
	programID solana.PublicKey,
	expectedOwner solana.PublicKey,
	ownerInfo *AccountInfo,
	signers []*AccountInfo,
) error {
	if !expectedOwner.Equals(ownerInfo.Key) {
		return tokenerr.ErrOwnerMismatch
	}

	if ownerInfo.Owner.Equals(programID) && len(ownerInfo.Data) == MultisigSize {
		multisig, err := UnpackMultisig(ownerInfo.Data)
		if err != nil {
			return err
		}

		var matched [MaxSigners]bool
		numSigners := 0
		for _, signer := range signers {
			for i, key := range multisig.Signers[:multisig.N] {
				if key.Equals(signer.Key) && !matched[i] {
					if !signer.IsSigner {
						return tokenerr.ErrMissingRequiredSignature
					}
					matched[i] = true
					numSigners++
				}
			}
		}
		if numSigners < int(multisig.M) {
			return tokenerr.ErrMissingRequiredSignature
		}
		return nil
	}

	if !ownerInfo.IsSigner {
		return tokenerr.ErrMissingRequiredSignature
	}
	return nil
}

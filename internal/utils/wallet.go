package utils

// Solana addresses are base58-encoded 32-byte public keys, which encode to
// between 32 and 44 characters.
const (
	minWalletLen = 32
	maxWalletLen = 44
)

// base58 alphabet: no 0, O, I or l.
func isBase58Char(c byte) bool {
	switch {
	case c >= '1' && c <= '9':
		return true
	case c >= 'A' && c <= 'H', c >= 'J' && c <= 'N', c >= 'P' && c <= 'Z':
		return true
	case c >= 'a' && c <= 'k', c >= 'm' && c <= 'z':
		return true
	}
	return false
}

// ValidateWalletAddress rejects obviously malformed wallet addresses before
// any network call. It checks base58 shape only; existence of the account is
// the chain's concern.
func ValidateWalletAddress(wallet string) error {
	if len(wallet) < minWalletLen || len(wallet) > maxWalletLen {
		return NewInvalidWalletError(wallet)
	}
	for i := 0; i < len(wallet); i++ {
		if !isBase58Char(wallet[i]) {
			return NewInvalidWalletError(wallet)
		}
	}
	return nil
}

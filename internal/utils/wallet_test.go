package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateWalletAddress(t *testing.T) {
	tests := []struct {
		name    string
		wallet  string
		wantErr bool
	}{
		{name: "valid devnet wallet", wallet: "4Nd1mYvM6HLVxKJryuTH6A8acfTK8Ch9dkRCFAWZfvvR", wantErr: false},
		{name: "valid system program", wallet: "11111111111111111111111111111111", wantErr: false},
		{name: "valid token program", wallet: "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA", wantErr: false},
		{name: "empty", wallet: "", wantErr: true},
		{name: "too short", wallet: "abc123", wantErr: true},
		{name: "too long", wallet: strings.Repeat("1", 45), wantErr: true},
		{name: "zero digit not in alphabet", wallet: "0000000000000000000000000000000000", wantErr: true},
		{name: "capital O not in alphabet", wallet: "OOOOOOOOOOOOOOOOOOOOOOOOOOOOOOOOOO", wantErr: true},
		{name: "lowercase l not in alphabet", wallet: "llllllllllllllllllllllllllllllllll", wantErr: true},
		{name: "punctuation", wallet: "4Nd1mYvM6HLVxKJryuTH6A8acfTK8Ch9dkRCFAWZ!!!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWalletAddress(tt.wallet)
			if tt.wantErr {
				assert.Error(t, err)
				var iw *InvalidWalletError
				assert.ErrorAs(t, err, &iw)
				assert.Equal(t, tt.wallet, iw.Wallet)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckPasswordComplexity(t *testing.T) {
	cases := []struct {
		name     string
		password string
		wantErr  string
	}{
		{"all lowercase", "password", "uppercase"},
		{"too short", "Pa1!", "8 characters"},
		{"no lowercase", "PASSWORD1!", "lowercase"},
		{"no digit", "Password!", "number"},
		{"no symbol", "Password1", "special character"},
		{"valid", "Passw0rd!", ""},
		{"valid with other symbol", "Climate,Map7", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckPasswordComplexity(tc.password)
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}

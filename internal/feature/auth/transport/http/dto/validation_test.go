package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidUsername(t *testing.T) {
	t.Parallel()

	tests := []struct {
		username string
		want     bool
	}{
		{"ram", true},
		{"alice.admin_01-x", true},
		{"bo", false},
		{"bob/admin", false},
		{"bob smith", false},
		{"", false},
		{strings.Repeat("a", 64), true},
		{strings.Repeat("a", 65), false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidUsername(tt.username), tt.username)
	}
}

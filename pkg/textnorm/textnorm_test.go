package textnorm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Café  Orgánico ", "cafe organico"},
		{"AÑO Nuevo", "ano nuevo"},
		{"Pingüino", "pinguino"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SearchKey(tt.in))
	}
}

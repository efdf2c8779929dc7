package article

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Trim Me  ", "trim-me"},
		{"Harga BBM Naik 10%!", "harga-bbm-naik-10"},
		{"snake_case   and--dashes", "snake-case-and-dashes"},
		{"-leading and trailing-", "leading-and-trailing"},
		{"Café Über", "café-über"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.input))
		})
	}
}

func TestSlugify_Length(t *testing.T) {
	got := Slugify(strings.Repeat("ä", 250))
	assert.Equal(t, strings.Repeat("ä", maxSlugRunes), got)
}

func TestSlugSet_Claim(t *testing.T) {
	s := NewSlugSet()
	assert.Equal(t, "a", s.Claim("a"))
	assert.Equal(t, "a-1", s.Claim("a"))
	assert.Equal(t, "a-2", s.Claim("a"))
	// A literal slug that collides with a generated suffix is bumped too.
	assert.Equal(t, "a-1-1", s.Claim("a-1"))
	assert.Equal(t, 4, s.Len())
}

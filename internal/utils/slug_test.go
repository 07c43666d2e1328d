// internal/utils/slug_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Fiction", "fiction"},
		{"spaces", "Staff Pick", "staff-pick"},
		{"punctuation runs", "50% Off -- Today!", "50-off-today"},
		{"leading and trailing separators", "  --Sale--  ", "sale"},
		{"unicode stripped", "Café Münü", "caf-m-n"},
		{"only separators", "!!!", ""},
		{"empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.in))
		})
	}
}

func TestSlugifyIsDeterministic(t *testing.T) {
	assert.Equal(t, Slugify("Staff Pick"), Slugify("staff   pick"))
	assert.Equal(t, Slugify("Staff Pick"), Slugify("STAFF-PICK"))
}

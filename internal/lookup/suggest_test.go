package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	cands := []string{"sloop", "galleon", "brigantine", "keelboat", "full_sail", "broadside"}

	tests := []struct {
		in   string
		want string
	}{
		{"sloop", "sloop"},
		{"Sloop", "sloop"},
		{"slop", "sloop"},
		{"galeon", "galleon"},
		{"brigantyne", "brigantine"},
		{"full sail", "full_sail"},
		{"brig", "brigantine"},
		{"zeppelin", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Suggest(tt.in, cands))
		})
	}
}

func TestHint(t *testing.T) {
	assert.Equal(t, ` (did you mean "galleon"?)`, Hint("galeon", []string{"galleon"}))
	assert.Equal(t, "", Hint("xyz", []string{"galleon"}))
}

package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input, mask, want string
	}{
		{"5551234567", "(###) ###-####", "(555) 123-4567"},
		{"555", "(###) ###-####", "(555"},
		{"5551", "(###) ###-####", "(555) 1"},
		{"555-123-4567 ext", "(###) ###-####", "(555) 123-4567"},
		{"555123456789", "(###) ###-####", "(555) 123-4567"},
		{"a1b2c3", "", "123"},
		{"", "### ###", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.input, tt.mask), tt.input)
	}
}

func TestFullNumber(t *testing.T) {
	assert.Equal(t, "+1 (555) 123-4567", Lookup("US").FullNumber("5551234567"))
	assert.Equal(t, "+34 612 34 56 78", Lookup("es").FullNumber("612345678"))
	assert.Equal(t, "+52", Lookup("MX").FullNumber(""))
}

func TestFormatLocalUsesCountryMask(t *testing.T) {
	br := Lookup("BR")
	assert.Equal(t, "(##) #####-####", br.Format)
	assert.Equal(t, "(11) 98765-4321", br.FormatLocal("11987654321"))
}

func TestSplitValue(t *testing.T) {
	c, local, ok := SplitValue("+1809 (555) 123-4567")
	require.True(t, ok)
	assert.Equal(t, "DO", c.Code)
	assert.Equal(t, "(555) 123-4567", local)

	c, local, ok = SplitValue("+44 7911 123456")
	require.True(t, ok)
	assert.Equal(t, "GB", c.Code)
	assert.Equal(t, "7911 123456", local)

	c, _, ok = SplitValue("0044 1234")
	assert.False(t, ok)
	assert.Equal(t, "US", c.Code)
}

func TestFilterCountries(t *testing.T) {
	codes := func(cs []Country) []string {
		out := make([]string, 0, len(cs))
		for _, c := range cs {
			out = append(out, c.Code)
		}
		return out
	}
	assert.Equal(t, []string{"BR"}, codes(FilterCountries("braz")))
	assert.Equal(t, []string{"GB"}, codes(FilterCountries("+44")))
	assert.Contains(t, codes(FilterCountries("us")), "US")
	assert.Len(t, FilterCountries(""), len(Countries))
}

func TestE164(t *testing.T) {
	got, ok := E164("(202) 555-0143", "US")
	require.True(t, ok)
	assert.Equal(t, "+12025550143", got)

	got, ok = E164("+44 20 7946 0958", "")
	require.True(t, ok)
	assert.Equal(t, "+442079460958", got)

	_, ok = E164("12", "US")
	assert.False(t, ok)
	_, ok = E164("", "US")
	assert.False(t, ok)
}

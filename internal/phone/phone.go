// Package phone holds the dial-code table and mask formatting used by the
// site's phone input, plus E.164 normalisation for outbound links.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Country is one entry of the dial-code picker.
type Country struct {
	Code   string `json:"code"`
	Dial   string `json:"dial"`
	Flag   string `json:"flag"`
	Name   string `json:"name"`
	Format string `json:"format,omitempty"`
}

// Countries is the default picker table.
var Countries = []Country{
	{Code: "US", Dial: "+1", Flag: "🇺🇸", Name: "United States", Format: "(###) ###-####"},
	{Code: "DO", Dial: "+1809", Flag: "🇩🇴", Name: "Dominican Republic", Format: "(###) ###-####"},
	{Code: "CA", Dial: "+1", Flag: "🇨🇦", Name: "Canada", Format: "(###) ###-####"},
	{Code: "MX", Dial: "+52", Flag: "🇲🇽", Name: "Mexico", Format: "## #### ####"},
	{Code: "GB", Dial: "+44", Flag: "🇬🇧", Name: "United Kingdom", Format: "#### ######"},
	{Code: "ES", Dial: "+34", Flag: "🇪🇸", Name: "Spain", Format: "### ## ## ##"},
	{Code: "FR", Dial: "+33", Flag: "🇫🇷", Name: "France", Format: "# ## ## ## ##"},
	{Code: "DE", Dial: "+49", Flag: "🇩🇪", Name: "Germany", Format: "### #######"},
	{Code: "IT", Dial: "+39", Flag: "🇮🇹", Name: "Italy", Format: "### ### ####"},
	{Code: "BR", Dial: "+55", Flag: "🇧🇷", Name: "Brazil", Format: "(##) #####-####"},
	{Code: "AR", Dial: "+54", Flag: "🇦🇷", Name: "Argentina", Format: "## ####-####"},
	{Code: "CO", Dial: "+57", Flag: "🇨🇴", Name: "Colombia", Format: "### ### ####"},
	{Code: "CL", Dial: "+56", Flag: "🇨🇱", Name: "Chile", Format: "# #### ####"},
	{Code: "PE", Dial: "+51", Flag: "🇵🇪", Name: "Peru", Format: "### ### ###"},
	{Code: "VE", Dial: "+58", Flag: "🇻🇪", Name: "Venezuela", Format: "(###) ###-####"},
}

// DefaultCountry is preselected when nothing else matches.
const DefaultCountry = "US"

// Lookup finds a country by ISO code, falling back to the first entry.
func Lookup(code string) Country {
	for _, c := range Countries {
		if strings.EqualFold(c.Code, code) {
			return c
		}
	}
	return Countries[0]
}

// Digits strips everything but ASCII digits.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatNumber lays the digits of input over mask, where '#' marks a digit
// slot. Output stops at the last digit; extra digits are dropped. An empty
// mask returns the bare digits.
func FormatNumber(input, mask string) string {
	digits := Digits(input)
	if mask == "" {
		return digits
	}
	var b strings.Builder
	i := 0
	for _, r := range mask {
		if i >= len(digits) {
			break
		}
		if r == '#' {
			b.WriteByte(digits[i])
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatLocal applies the country's mask to input.
func (c Country) FormatLocal(input string) string {
	return FormatNumber(input, c.Format)
}

// FullNumber joins the dial code and the formatted local number.
func (c Country) FullNumber(local string) string {
	return strings.TrimSpace(c.Dial + " " + c.FormatLocal(local))
}

// SplitValue detects the country of a stored "+dial local" value. The longest
// matching dial prefix wins, so +1809 resolves to the Dominican Republic.
func SplitValue(value string) (Country, string, bool) {
	value = strings.TrimSpace(value)
	best := -1
	for i, c := range Countries {
		if strings.HasPrefix(value, c.Dial) && (best < 0 || len(c.Dial) > len(Countries[best].Dial)) {
			best = i
		}
	}
	if best < 0 {
		return Lookup(DefaultCountry), value, false
	}
	c := Countries[best]
	return c, strings.TrimSpace(strings.TrimPrefix(value, c.Dial)), true
}

// FilterCountries matches query case-insensitively against name and code, and
// literally against the dial code.
func FilterCountries(query string) []Country {
	q := strings.ToLower(query)
	out := make([]Country, 0, len(Countries))
	for _, c := range Countries {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(strings.ToLower(c.Code), q) ||
			strings.Contains(c.Dial, query) {
			out = append(out, c)
		}
	}
	return out
}

// E164 normalises a free-form number to +<country><national>. Numbers
// without a leading + are parsed in defaultRegion.
func E164(value, defaultRegion string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	if defaultRegion == "" {
		defaultRegion = DefaultCountry
	}
	num, err := phonenumbers.Parse(value, strings.ToUpper(defaultRegion))
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return "", false
	}
	return phonenumbers.Format(num, phonenumbers.E164), true
}

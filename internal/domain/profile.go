package domain

// UnknownField is the sentinel for profile text fields the provider did
// not supply.
const UnknownField = "Unknown"

// Profile holds company fundamentals for a symbol. Absent fields default
// to UnknownField for strings and 0 for numerics.
type Profile struct {
	Name          string
	Sector        string
	MarketCap     int64
	PERatio       float64
	DividendYield float64
}

// UnknownProfile returns a profile with every field at its sentinel value.
func UnknownProfile() Profile {
	return Profile{
		Name:   UnknownField,
		Sector: UnknownField,
	}
}

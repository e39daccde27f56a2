package models

// Package is a priced subscription tier. Packages are reference data: they
// are seeded once at bootstrap and never mutated by user-facing code.
type Package struct {
	ID               int
	Key              string   // Unique key, e.g. "basic"
	Name             string   // Display name, e.g. "Básico"
	Description      string
	PriceMonthly     int64    // Centavos
	PriceYearly      int64    // Centavos
	PriceBiyearly    int64    // Centavos
	MaxAccounts      int      // Quota: bank accounts per user
	MaxFamilyMembers int      // Quota: family members per user
	Features         []string // Enabled feature keys
	IsActive         bool
	Highlight        bool
	SortOrder        int // Seed order, drives listing order
}

// HasFeature reports whether the package enables the named feature.
func (p *Package) HasFeature(feature string) bool {
	for _, f := range p.Features {
		if f == feature {
			return true
		}
	}
	return false
}

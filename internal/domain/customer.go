package domain

import "time"

// CustomerTier enumerates account classes, ordered by priority weight
// Enterprise > Premium > Basic.
type CustomerTier string

const (
	TierBasic      CustomerTier = "Basic"
	TierPremium    CustomerTier = "Premium"
	TierEnterprise CustomerTier = "Enterprise"
)

// Valid reports whether the tier is a known class.
func (t CustomerTier) Valid() bool {
	switch t {
	case TierBasic, TierPremium, TierEnterprise:
		return true
	}
	return false
}

// Customer is the owning account for issues.
type Customer struct {
	ID        string
	Name      string
	Email     string
	Company   string
	Tier      CustomerTier
	CreatedAt time.Time
}

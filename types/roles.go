package types

// Role is the closed set of capabilities the core checks before privileged
// operations. Membership is managed externally, the core only asks an
// Authorizer whether a caller holds a role and propagates its answer.
type Role int

const (
	// RoleAdmin can pause the ledger, change fees and rotate addresses.
	RoleAdmin Role = iota
	// RoleBot drives the periodic partner harvest / undelegate / disburse cycle.
	RoleBot
	// RoleTreasury funds the fee reimbursement pool.
	RoleTreasury
	// RoleInstantPoolOwner provides instant pool liquidity and collects its fees.
	RoleInstantPoolOwner
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleBot:
		return "bot"
	case RoleTreasury:
		return "treasury"
	case RoleInstantPoolOwner:
		return "instant-pool-owner"
	default:
		return "unknown"
	}
}

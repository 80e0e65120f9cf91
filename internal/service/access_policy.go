package service

import "swipe-market/internal/domain"

// AccessPolicy decide el acceso a features pagas. Se resuelve una vez desde la
// config y se pasa explicitamente a quien la necesita.
type AccessPolicy struct {
	// BypassPaywall abre todas las features mientras no haya cobros integrados.
	BypassPaywall bool
}

// HasAccess aplica los tiers: founder e investor son caminos separados, no jerarquicos.
func (p AccessPolicy) HasAccess(userTier, feature string) bool {
	if p.BypassPaywall {
		return true
	}
	required := domain.RequiredTier(feature)
	if required == domain.TierFree {
		return true
	}
	return userTier == required
}

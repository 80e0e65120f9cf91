package domain

const (
	TierFree     = "free"
	TierFounder  = "founder"
	TierInvestor = "investor"
)

// Features con acceso restringido por tier.
const (
	FeatureCreateProduct  = "create_product"
	FeatureSyntheticTest  = "synthetic_test"
	FeatureAIMatchScoring = "ai_match_scoring"
	FeaturePurchaseIntent = "purchase_intent"
	FeatureSwipe          = "swipe_interface"
	FeatureMarketAnalysis = "market_analysis"
	FeatureDueDiligence   = "due_diligence"
)

// FeatureTiers mapea cada feature con el tier minimo requerido.
var FeatureTiers = map[string]string{
	FeatureCreateProduct:  TierFounder,
	FeatureSyntheticTest:  TierFounder,
	FeatureAIMatchScoring: TierInvestor,
	FeaturePurchaseIntent: TierInvestor,
	FeatureSwipe:          TierFree,
	FeatureMarketAnalysis: TierFounder,
	FeatureDueDiligence:   TierInvestor,
}

// RequiredTier devuelve el tier de una feature; las desconocidas son libres.
func RequiredTier(feature string) string {
	if tier, ok := FeatureTiers[feature]; ok {
		return tier
	}
	return TierFree
}

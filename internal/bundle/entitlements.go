package bundle

// DefaultEntitlements returns the fixed free-tier defaults applied by the
// entitlements stage.
func DefaultEntitlements() Entitlements {
	return Entitlements{
		Plan: "free",
		Features: map[string]bool{
			"forms":          true,
			"automations":    true,
			"analytics":      false,
			"customDomain":   false,
			"removeBranding": false,
		},
		Limits: Limits{
			PagesMax:       5,
			AutomationsMax: 10,
			StorageMB:      100,
		},
	}
}

package automation

import "time"

// Install records one automation installed into a site bundle. Recipes
// whose secrets are missing are installed disabled, never omitted.
type Install struct {
	RecipeID    string    `json:"recipeId"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Trigger     string    `json:"trigger"`
	Enabled     bool      `json:"enabled"`
	InstalledAt time.Time `json:"installedAt"`
}

// Installer resolves recipes for an industry and gates them on secrets.
// The recipe tables are bound at construction, so concurrent runs can
// each own an Installer without sharing mutable state.
type Installer struct {
	recipesFor func(industry string) []Recipe
	secretsFor func(recipeID string) []SecretRequirement
	now        func() time.Time
}

// NewInstaller returns an Installer backed by the static recipe tables.
func NewInstaller() *Installer {
	return &Installer{recipesFor: RecipesFor, secretsFor: SecretsFor, now: time.Now}
}

// InstallAll installs every base and industry recipe. A recipe is enabled
// only when it requires no secrets; missing secrets are reported once per
// provider with a human-readable reason.
func (in *Installer) InstallAll(industry string) ([]Install, []SecretRequirement) {
	recipes := in.recipesFor(industry)
	installs := make([]Install, 0, len(recipes))
	var required []SecretRequirement
	seen := make(map[string]struct{})

	for _, r := range recipes {
		secrets := in.secretsFor(r.ID)
		installs = append(installs, Install{
			RecipeID:    r.ID,
			Name:        r.Name,
			Description: r.Description,
			Trigger:     r.Trigger,
			Enabled:     len(secrets) == 0,
			InstalledAt: in.now(),
		})
		for _, s := range secrets {
			if _, dup := seen[s.Provider]; dup {
				continue
			}
			seen[s.Provider] = struct{}{}
			required = append(required, s)
		}
	}
	return installs, required
}

package automation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func fixedInstaller() *Installer {
	in := NewInstaller()
	in.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	return in
}

func findInstall(t *testing.T, installs []Install, recipeID string) Install {
	t.Helper()
	for _, i := range installs {
		if i.RecipeID == recipeID {
			return i
		}
	}
	t.Fatalf("recipe %s not installed", recipeID)
	return Install{}
}

func TestInstallAllBaseRecipes(t *testing.T) {
	installs, required := fixedInstaller().InstallAll("general")

	require.Len(t, installs, 3)
	require.Equal(t, "form-forwarder", installs[0].RecipeID)
	require.Equal(t, "lead-notifier", installs[1].RecipeID)
	require.Equal(t, "weekly-digest", installs[2].RecipeID)

	// form-forwarder needs SMTP, so it installs disabled.
	require.False(t, installs[0].Enabled)
	require.True(t, installs[1].Enabled)
	require.True(t, installs[2].Enabled)

	require.Len(t, required, 1)
	require.Equal(t, "smtp", required[0].Provider)
}

func TestInstallAllRestaurant(t *testing.T) {
	installs, required := fixedInstaller().InstallAll("restaurant")

	require.Len(t, installs, 6)
	handler := findInstall(t, installs, "reservation-handler")
	require.True(t, handler.Enabled)
	require.Equal(t, "booking.requested", handler.Trigger)

	menu := findInstall(t, installs, "menu-update")
	require.True(t, menu.Enabled)

	// review-responder is gated on a Google Business token.
	responder := findInstall(t, installs, "review-responder")
	require.False(t, responder.Enabled)

	providers := make([]string, 0, len(required))
	for _, s := range required {
		providers = append(providers, s.Provider)
	}
	require.ElementsMatch(t, []string{"smtp", "google-business"}, providers)
}

func TestInstallAllDeduplicatesProviders(t *testing.T) {
	// retail's order-confirmation shares the smtp provider with the base
	// form-forwarder; the requirement is reported once.
	_, required := fixedInstaller().InstallAll("retail")

	count := 0
	for _, s := range required {
		if s.Provider == "smtp" {
			count++
		}
	}
	require.Equal(t, 1, count)
}

func TestInstallAllUnknownIndustryGetsBaseSet(t *testing.T) {
	installs, _ := fixedInstaller().InstallAll("submarine-repair")
	require.Len(t, installs, 3)
}

func TestInstallAllStampsInstalledAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	installs, _ := fixedInstaller().InstallAll("salon")
	for _, i := range installs {
		require.Equal(t, now, i.InstalledAt)
	}
}

func TestSecretsForUnknownRecipe(t *testing.T) {
	require.Empty(t, SecretsFor("no-such-recipe"))
}

func TestRecipesForReturnsCopies(t *testing.T) {
	first := RecipesFor("restaurant")
	first[0].Name = "mutated"
	second := RecipesFor("restaurant")
	require.Equal(t, "Form Forwarder", second[0].Name)
}

package automation

// Recipe is one automation blueprint that can be installed into a site.
type Recipe struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Trigger     string `json:"trigger"`
}

// SecretRequirement names a credential a recipe needs before it can run.
type SecretRequirement struct {
	Provider string `json:"provider"`
	Reason   string `json:"reason"`
}

// baseRecipes are installed for every site regardless of industry.
var baseRecipes = []Recipe{
	{ID: "form-forwarder", Name: "Form Forwarder", Description: "Forward form submissions to the business inbox", Trigger: "form.submitted"},
	{ID: "lead-notifier", Name: "Lead Notifier", Description: "Record new leads in the site inbox", Trigger: "lead.captured"},
	{ID: "weekly-digest", Name: "Weekly Digest", Description: "Summarize site activity once a week", Trigger: "schedule.weekly"},
}

// industryRecipes extend the base set for known industries.
var industryRecipes = map[string][]Recipe{
	"restaurant": {
		{ID: "reservation-handler", Name: "Reservation Handler", Description: "Confirm table reservations and send reminders", Trigger: "booking.requested"},
		{ID: "menu-update", Name: "Menu Update", Description: "Publish menu changes to the site", Trigger: "content.menu_changed"},
		{ID: "review-responder", Name: "Review Responder", Description: "Draft replies to new public reviews", Trigger: "review.received"},
	},
	"salon": {
		{ID: "appointment-reminder", Name: "Appointment Reminder", Description: "Remind clients of upcoming appointments", Trigger: "booking.upcoming"},
	},
	"retail": {
		{ID: "order-confirmation", Name: "Order Confirmation", Description: "Send order confirmations to customers", Trigger: "order.placed"},
		{ID: "restock-alert", Name: "Restock Alert", Description: "Notify subscribers when items restock", Trigger: "inventory.restocked"},
	},
	"services": {
		{ID: "quote-followup", Name: "Quote Follow-up", Description: "Follow up on unanswered quote requests", Trigger: "lead.stale"},
	},
}

// recipeSecrets maps recipe id to the secrets it cannot run without.
// A recipe absent from this table needs none.
var recipeSecrets = map[string][]SecretRequirement{
	"form-forwarder":       {{Provider: "smtp", Reason: "SMTP credentials are required to forward form submissions by email"}},
	"order-confirmation":   {{Provider: "smtp", Reason: "SMTP credentials are required to email order confirmations"}},
	"appointment-reminder": {{Provider: "sms", Reason: "An SMS gateway key is required to send appointment reminders"}},
	"review-responder":     {{Provider: "google-business", Reason: "A Google Business Profile token is required to read and answer reviews"}},
}

// RecipesFor returns the base recipes plus any industry-specific ones,
// in table order. Unknown industries get the base set only.
func RecipesFor(industry string) []Recipe {
	out := make([]Recipe, 0, len(baseRecipes)+4)
	out = append(out, baseRecipes...)
	out = append(out, industryRecipes[industry]...)
	return out
}

// SecretsFor returns the secret requirements for a recipe id.
func SecretsFor(recipeID string) []SecretRequirement {
	return recipeSecrets[recipeID]
}

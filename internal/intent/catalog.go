package intent

// CatalogVersion identifies the intent catalog revision embedded in a bundle.
const CatalogVersion = "1.1.0"

// HandlerKind discriminates how a bound intent is executed at runtime.
type HandlerKind string

const (
	HandlerEndpoint HandlerKind = "endpoint" // remote-callable endpoint
	HandlerClient   HandlerKind = "client"   // client-side action
)

// Handler describes how an intent is carried out once triggered.
type Handler struct {
	Kind   HandlerKind `json:"kind"`
	Method string      `json:"method,omitempty"` // endpoint handlers only
	Path   string      `json:"path,omitempty"`   // endpoint handlers only
	Action string      `json:"action,omitempty"` // client handlers only
}

// ParamSpec describes one parameter an intent accepts.
type ParamSpec struct {
	Type     string `json:"type"`
	Required bool   `json:"required,omitempty"`
}

// Definition is one entry in the intent catalog. Immutable once the
// catalog is built for a run.
type Definition struct {
	ID          string               `json:"id"`
	Category    string               `json:"category"`
	Description string               `json:"description"`
	Parameters  map[string]ParamSpec `json:"parameters,omitempty"`
	Handler     Handler              `json:"handler"`
}

// Catalog is an immutable registry of intent definitions keyed by id.
type Catalog struct {
	defs map[string]Definition
}

// NewCatalog builds a catalog from the given definitions. The input slice
// is copied; later mutation of the caller's slice has no effect.
func NewCatalog(defs []Definition) *Catalog {
	m := make(map[string]Definition, len(defs))
	for _, d := range defs {
		m[d.ID] = d
	}
	return &Catalog{defs: m}
}

// Lookup returns the definition for id, if present.
func (c *Catalog) Lookup(id string) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// Definitions returns the full id -> definition mapping as a copy safe to
// embed into a bundle.
func (c *Catalog) Definitions() map[string]Definition {
	out := make(map[string]Definition, len(c.defs))
	for k, v := range c.defs {
		out[k] = v
	}
	return out
}

// AsList returns the definitions as a slice, for handing to inference
// calls that expect an array of available intents. Order is not specified.
func (c *Catalog) AsList() []Definition {
	out := make([]Definition, 0, len(c.defs))
	for _, v := range c.defs {
		out = append(out, v)
	}
	return out
}

// Len reports the number of definitions in the catalog.
func (c *Catalog) Len() int { return len(c.defs) }

// DefaultCatalog returns the built-in intent catalog used for every run
// unless a caller supplies its own.
func DefaultCatalog() *Catalog {
	return NewCatalog([]Definition{
		{
			ID:          "booking.request",
			Category:    "scheduling",
			Description: "Request an appointment or reservation",
			Parameters: map[string]ParamSpec{
				"service":  {Type: "string"},
				"datetime": {Type: "string"},
				"name":     {Type: "string", Required: true},
				"email":    {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/bookings"},
		},
		{
			ID:          "contact.submit",
			Category:    "communication",
			Description: "Send a message to the business",
			Parameters: map[string]ParamSpec{
				"name":    {Type: "string", Required: true},
				"email":   {Type: "string", Required: true},
				"message": {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/contact"},
		},
		{
			ID:          "lead.capture",
			Category:    "sales",
			Description: "Capture a sales lead or quote request",
			Parameters: map[string]ParamSpec{
				"name":    {Type: "string", Required: true},
				"email":   {Type: "string", Required: true},
				"details": {Type: "string"},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/leads"},
		},
		{
			ID:          "newsletter.subscribe",
			Category:    "marketing",
			Description: "Subscribe a visitor to the mailing list",
			Parameters: map[string]ParamSpec{
				"email": {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/subscriptions"},
		},
		{
			ID:          "account.signup",
			Category:    "account",
			Description: "Create a customer account",
			Parameters: map[string]ParamSpec{
				"email":    {Type: "string", Required: true},
				"password": {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/accounts"},
		},
		{
			ID:          "account.login",
			Category:    "account",
			Description: "Sign an existing customer in",
			Parameters: map[string]ParamSpec{
				"email":    {Type: "string", Required: true},
				"password": {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/sessions"},
		},
		{
			ID:          "commerce.checkout",
			Category:    "commerce",
			Description: "Start a purchase or checkout flow",
			Parameters: map[string]ParamSpec{
				"sku":      {Type: "string"},
				"quantity": {Type: "number"},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/checkout"},
		},
		{
			ID:          "phone.call",
			Category:    "communication",
			Description: "Place a phone call to the business",
			Parameters: map[string]ParamSpec{
				"number": {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerClient, Action: "tel"},
		},
		{
			ID:          "asset.download",
			Category:    "content",
			Description: "Download a file or brochure",
			Parameters: map[string]ParamSpec{
				"asset": {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerClient, Action: "download"},
		},
		{
			ID:          "form.submit",
			Category:    "forms",
			Description: "Submit a generic on-page form",
			Parameters: map[string]ParamSpec{
				"form": {Type: "string"},
			},
			Handler: Handler{Kind: HandlerEndpoint, Method: "POST", Path: "/api/forms"},
		},
		{
			ID:          "nav.go",
			Category:    "navigation",
			Description: "Navigate to another page or section",
			Parameters: map[string]ParamSpec{
				"href": {Type: "string", Required: true},
			},
			Handler: Handler{Kind: HandlerClient, Action: "navigate"},
		},
	})
}

package public

import "github.com/indicamais/internal/provider"

// Handler serves the public campaign endpoints: registration forms, referral
// link lookups, the CEP proxy and the ranking page.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

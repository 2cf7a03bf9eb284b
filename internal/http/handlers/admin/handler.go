package admin

import "github.com/indicamais/internal/provider"

// Handler serves the campaign dashboard endpoints.
type Handler struct {
	*provider.Container
}

// New creates the admin handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}

package portal

import (
	"log/slog"
	"net/http"

	"timeshare/internal/api"
)

type Handlers struct {
	Portals      *Repository
	Logger       *slog.Logger
	ExposeErrors bool
}

// List serves the resort portal directory.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Portals.List(r.Context())
	if err != nil {
		api.Fail(w, r, h.Logger, err, h.ExposeErrors)
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

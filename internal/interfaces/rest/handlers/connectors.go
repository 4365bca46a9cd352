package handlers

import (
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) ListConnectors(w http.ResponseWriter, r *http.Request) {
	list := h.catalog.List()
	out := make([]ConnectorResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toConnectorResponse(c))
	}
	rest.WriteJSON(w, http.StatusOK, map[string]any{"connectors": out})
}

func (h *Handlers) GetConnector(w http.ResponseWriter, r *http.Request) {
	c, err := h.catalog.Get(chi.URLParam(r, "connector"))
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}
	rest.WriteJSON(w, http.StatusOK, toConnectorResponse(c))
}

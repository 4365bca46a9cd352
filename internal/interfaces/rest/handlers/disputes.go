package handlers

import (
	"net/http"

	"github.com/DanielPopoola/connector-gateway/internal/interfaces/rest"
	"github.com/go-chi/chi/v5"
)

func (h *Handlers) GetDispute(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	dispute, err := h.disputes.Get(r.Context(), merchantID, chi.URLParam(r, "dispute_id"))
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	rest.WriteJSON(w, http.StatusOK, toDisputeResponse(dispute))
}

func (h *Handlers) ListDisputes(w http.ResponseWriter, r *http.Request) {
	merchantID, err := rest.MerchantID(r)
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	disputes, err := h.disputes.ListByPayment(r.Context(), merchantID, r.URL.Query().Get("payment_id"))
	if err != nil {
		rest.WriteError(w, r, err, h.logger)
		return
	}

	out := make([]DisputeResponse, 0, len(disputes))
	for _, d := range disputes {
		out = append(out, toDisputeResponse(d))
	}
	rest.WriteJSON(w, http.StatusOK, map[string]any{"disputes": out})
}

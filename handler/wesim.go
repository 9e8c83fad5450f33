package handler

import (
	"net/http"
)

// GetWesim serves the four normalized Wesim tables. The first call reads
// the workbook; later calls hit the process-wide cache.
func (h *Handler) GetWesim(w http.ResponseWriter, r *http.Request) error {
	payload, err := h.Hub.Wesim()
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"data": payload})
}

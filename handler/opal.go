package handler

import (
	"math"
	"net/http"

	"github.com/gridlington/datahub/parsers"
)

// PostOpal ingests one frame of telemetry, in either wire form.
func (h *Handler) PostOpal(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()
	payload, err := parsers.ParseOpal(r.Body)
	if err != nil {
		return err
	}
	if err := h.Hub.UpsertOpal(payload); err != nil {
		return err
	}
	return writeMessage(w, submittedMessage)
}

// GetOpal serves rows with start <= frame <= end in split orientation.
// Both bounds are optional; an empty slice is a valid response.
func (h *Handler) GetOpal(w http.ResponseWriter, r *http.Request) error {
	start, err := queryInt(r, "start", 0)
	if err != nil {
		return err
	}
	end, err := queryInt(r, "end", math.MaxInt64)
	if err != nil {
		return err
	}
	table, err := h.Hub.SliceOpal(start, end)
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"data": table})
}

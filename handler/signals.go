package handler

import (
	"net/http"
)

// SetModelSignals flips the start flag the simulation model polls.
func (h *Handler) SetModelSignals(w http.ResponseWriter, r *http.Request) error {
	start, err := queryBool(r, "start")
	if err != nil {
		return err
	}
	h.Hub.SetModelStart(start)
	return writeMessage(w, "Model signals set.")
}

// ModelReady records model readiness; a ready signal clears the previous
// session's data before the next run begins.
func (h *Handler) ModelReady(w http.ResponseWriter, r *http.Request) error {
	ready, err := queryBool(r, "ready")
	if err != nil {
		return err
	}
	h.Hub.SetModelReady(ready)
	return writeMessage(w, "Model ready state set.")
}

func (h *Handler) GetStart(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]bool{"start": h.Hub.ModelStart()})
}

func (h *Handler) GetStop(w http.ResponseWriter, r *http.Request) error {
	return writeJSON(w, http.StatusOK, map[string]bool{"stop": !h.Hub.ModelStart()})
}

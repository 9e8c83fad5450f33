// Package handler exposes the hub over HTTP. Each feed has one handler
// file; all of them resolve the wire format at the boundary so the core
// packages only ever see canonical record shapes.
package handler

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/repository"
	"github.com/gridlington/datahub/router"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const submittedMessage = "Data submitted successfully."

type Handler struct {
	Hub *repository.Hub
}

// Routes lists the full API surface.
func Routes(h *Handler) []*router.Route {
	return []*router.Route{
		{Path: "/opal", Methods: []string{"POST"}, Handler: h.PostOpal},
		{Path: "/opal", Methods: []string{"GET"}, Handler: h.GetOpal},
		{Path: "/dsr", Methods: []string{"POST"}, Handler: h.PostDSR},
		{Path: "/dsr", Methods: []string{"GET"}, Handler: h.GetDSR},
		{Path: "/wesim", Methods: []string{"GET"}, Handler: h.GetWesim},
		{Path: "/set_model_signals", Methods: []string{"POST"}, Handler: h.SetModelSignals},
		{Path: "/model_ready", Methods: []string{"POST"}, Handler: h.ModelReady},
		{Path: "/start", Methods: []string{"GET"}, Handler: h.GetStart},
		{Path: "/stop", Methods: []string{"GET"}, Handler: h.GetStop},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(body)
	return err
}

func writeMessage(w http.ResponseWriter, msg string) error {
	return writeJSON(w, http.StatusOK, map[string]string{"message": msg})
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, def int64) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, model.BadRequest("query parameter " + name + " must be an integer")
	}
	return v, nil
}

// queryBool parses a required boolean query parameter.
func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, model.BadRequest("query parameter " + name + " is required")
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, model.BadRequest("query parameter " + name + " must be a boolean")
	}
	return v, nil
}

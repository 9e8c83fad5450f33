package router

import (
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gridlington/datahub/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Route struct {
	Path    string
	Methods []string
	Handler func(w http.ResponseWriter, r *http.Request) error
}

// WithErrorHandle adapts an error-returning handler: hub errors carry their
// own HTTP status, anything else is a 500. Error bodies mirror the API's
// {"detail": ...} convention.
func WithErrorHandle(hndl func(w http.ResponseWriter, r *http.Request) error,
) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		err := hndl(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var apiErr *model.APIError
		if errors.As(err, &apiErr) {
			status = apiErr.Status
		} else {
			log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		body, _ := json.Marshal(map[string]string{"detail": err.Error()})
		w.Write(body)
	}
}

func NewRouter(routes []*Route) *mux.Router {
	router := mux.NewRouter()
	for _, r := range routes {
		router.HandleFunc(r.Path, WithErrorHandle(r.Handler)).Methods(r.Methods...)
	}
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return router
}

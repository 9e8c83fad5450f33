package handler

import (
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/gridlington/datahub/dsr"
	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/parsers"
)

// uploads are bounded: the largest legitimate record (five 4329-wide EV
// matrices over a long horizon) stays well under this.
const maxUploadBytes = 512 << 20

// PostDSR ingests one simulation output record, either as a JSON object or
// as an uploaded .npz file. The record is validated before it is stored;
// a rejected record leaves the list untouched.
func (h *Handler) PostDSR(w http.ResponseWriter, r *http.Request) error {
	defer r.Body.Close()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		return h.postDSRFile(w, r)
	}

	arrays, err := parsers.ParseDSR(r.Body)
	if err != nil {
		return err
	}
	if err := h.Hub.AppendDSR(dsr.NewRecord(arrays)); err != nil {
		return err
	}
	return writeMessage(w, submittedMessage)
}

func (h *Handler) postDSRFile(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return model.BadRequest("cannot parse multipart form: " + err.Error())
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return model.BadRequest("missing file upload: " + err.Error())
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return model.BadRequest("cannot read file upload: " + err.Error())
	}
	arrays, err := dsr.ReadNPZ(data)
	if err != nil {
		return err
	}
	if err := h.Hub.AppendDSR(dsr.NewRecord(arrays)); err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]string{"filename": header.Filename})
}

// GetDSR serves records by position, optionally projected to the requested
// columns. Positions are 0-indexed and end is inclusive.
func (h *Handler) GetDSR(w http.ResponseWriter, r *http.Request) error {
	start, err := queryInt(r, "start", 0)
	if err != nil {
		return err
	}
	end, err := queryInt(r, "end", math.MaxInt64)
	if err != nil {
		return err
	}
	records, err := h.Hub.SliceDSR(int(start), int(end), r.URL.Query().Get("col"))
	if err != nil {
		return err
	}
	return writeJSON(w, http.StatusOK, map[string]any{"data": records})
}

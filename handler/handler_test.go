package handler

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlington/datahub/repository"
	"github.com/gridlington/datahub/router"
	"github.com/gridlington/datahub/schema"
)

func newTestServer(t *testing.T) (*httptest.Server, *repository.Hub) {
	t.Helper()
	hub := repository.NewHub("testdata/absent.xlsx", false)
	srv := httptest.NewServer(router.NewRouter(Routes(&Handler{Hub: hub})))
	t.Cleanup(srv.Close)
	return srv, hub
}

func opalBody(frame int64) string {
	payload := map[string]float64{"frame": float64(frame)}
	for _, f := range schema.Opal() {
		payload[f.Key] = 0
	}
	body, _ := json.Marshal(payload)
	return string(body)
}

func dsrBody() string {
	payload := make(map[string]any)
	for _, f := range schema.DSR() {
		if f.Shape == nil {
			continue
		}
		dims := make([]int, len(f.Shape))
		for i, d := range f.Shape {
			if d == schema.Wildcard {
				d = 2
			}
			dims[i] = d
		}
		switch {
		case f.Kind == schema.KindText:
			payload[f.Label] = make([]string, dims[0])
		case len(dims) == 2:
			rows := make([][]float64, dims[0])
			for i := range rows {
				rows[i] = make([]float64, dims[1])
			}
			payload[f.Label] = rows
		default:
			payload[f.Label] = make([]float64, dims[0])
		}
	}
	payload["Name"] = "integration run"
	body, _ := json.Marshal(payload)
	return string(body)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	return resp
}

func TestOpalRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := post(t, srv.URL+"/opal", opalBody(1))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var msg map[string]string
	decode(t, resp, &msg)
	assert.Equal(t, "Data submitted successfully.", msg["message"])

	resp = get(t, srv.URL+"/opal")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Data struct {
			Index   []any   `json:"index"`
			Columns []any   `json:"columns"`
			Data    [][]any `json:"data"`
		} `json:"data"`
	}
	decode(t, resp, &out)
	assert.Len(t, out.Data.Index, 1)
	assert.Len(t, out.Data.Columns, 41)
	assert.Equal(t, "Time", out.Data.Columns[0])
}

func TestOpalMissingFields(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := post(t, srv.URL+"/opal", `{"frame": 1, "time": 2.5}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.True(t, strings.HasPrefix(body["detail"], "Missing required fields:"), body["detail"])
}

func TestOpalInvalidRange(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/opal?start=5&end=2")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "Invalid range: end (2) is less than start (5).", body["detail"])
}

func TestOpalBadQueryParam(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := get(t, srv.URL+"/opal?start=abc")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDSRRoundTrip(t *testing.T) {
	srv, hub := newTestServer(t)

	resp := post(t, srv.URL+"/dsr", dsrBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, hub.DSRLen())

	resp = get(t, srv.URL+"/dsr?col=amount,name")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Data []map[string]any `json:"data"`
	}
	decode(t, resp, &out)
	require.Len(t, out.Data, 1)
	assert.Equal(t, "integration run", out.Data[0]["Name"])
	assert.Contains(t, out.Data[0], "Amount")
}

func TestDSRInvalidColumn(t *testing.T) {
	srv, hub := newTestServer(t)
	resp := post(t, srv.URL+"/dsr", dsrBody())
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	require.Equal(t, 1, hub.DSRLen())

	resp = get(t, srv.URL+"/dsr?col=bogus")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestDSRUploadIncompleteArchive(t *testing.T) {
	srv, hub := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "run.npz")
	require.NoError(t, err)
	_, err = part.Write(npzWithAmount(t))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/dsr", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.True(t, strings.HasPrefix(body["detail"], "Missing required fields:"), body["detail"])
	assert.Equal(t, 0, hub.DSRLen())
}

// npzWithAmount builds an archive holding only the Amount array, far short
// of a complete record.
func npzWithAmount(t *testing.T) []byte {
	t.Helper()
	header := "{'descr': '<f8', 'fortran_order': False, 'shape': (13,), }"
	for (10+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	var npy bytes.Buffer
	npy.WriteString("\x93NUMPY")
	npy.Write([]byte{1, 0})
	binary.Write(&npy, binary.LittleEndian, uint16(len(header)))
	npy.WriteString(header)
	binary.Write(&npy, binary.LittleEndian, make([]float64, 13))

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("Amount.npy")
	require.NoError(t, err)
	_, err = w.Write(npy.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestSignals(t *testing.T) {
	srv, hub := newTestServer(t)

	resp := post(t, srv.URL+"/set_model_signals?start=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.True(t, hub.ModelStart())

	resp = get(t, srv.URL+"/start")
	var start map[string]bool
	decode(t, resp, &start)
	assert.True(t, start["start"])

	resp = get(t, srv.URL+"/stop")
	var stop map[string]bool
	decode(t, resp, &stop)
	assert.False(t, stop["stop"])
}

func TestSignalsRequireParam(t *testing.T) {
	srv, _ := newTestServer(t)
	resp := post(t, srv.URL+"/set_model_signals", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestModelReadyResets(t *testing.T) {
	srv, hub := newTestServer(t)

	resp := post(t, srv.URL+"/opal", opalBody(1))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	require.Equal(t, 1, hub.OpalLen())

	resp = post(t, srv.URL+"/model_ready?ready=true", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 0, hub.OpalLen())
	assert.True(t, hub.ModelReady())
}

func TestOpalArrayForm(t *testing.T) {
	srv, hub := newTestServer(t)

	values := make([]string, 45)
	for i := range values {
		values[i] = fmt.Sprint(i)
	}
	body := `{"array": [` + strings.Join(values, ",") + `]}`
	resp := post(t, srv.URL+"/opal", body)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	assert.Equal(t, 1, hub.OpalLen())
}

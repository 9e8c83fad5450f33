// Package repository owns the hub's process-wide state: the Opal table, the
// DSR record list, the Wesim cache and the model signal flags. All shared
// state lives on the Hub and is reached through it; there are no package
// globals, so reset and any future multi-tenancy stay explicit.
package repository

import (
	"log"
	"sync"

	"github.com/gridlington/datahub/dsr"
	"github.com/gridlington/datahub/metrics"
	"github.com/gridlington/datahub/model"
	"github.com/gridlington/datahub/opal"
	"github.com/gridlington/datahub/wesim"
)

// Hub serializes access per store: one lock each for Opal, DSR and the
// signal flags, held for the full duration of a mutating operation. Reset
// swaps fresh structures in under all locks so readers never observe a
// partially cleared state.
type Hub struct {
	opalMtx sync.RWMutex
	opal    *opal.Table

	dsrMtx sync.RWMutex
	dsr    *dsr.List

	wesim *wesim.Service

	signalMtx  sync.RWMutex
	modelStart bool
	modelReady bool

	opalInitRow bool
}

func NewHub(wesimFile string, opalInitRow bool) *Hub {
	return &Hub{
		opal:        opal.New(opalInitRow),
		dsr:         dsr.NewList(),
		wesim:       wesim.NewService(wesimFile),
		opalInitRow: opalInitRow,
	}
}

func (h *Hub) UpsertOpal(payload map[string]float64) error {
	h.opalMtx.Lock()
	defer h.opalMtx.Unlock()
	if err := h.opal.Upsert(payload); err != nil {
		return err
	}
	metrics.OpalRows.Inc()
	return nil
}

func (h *Hub) SliceOpal(start, end int64) (*model.Table, error) {
	h.opalMtx.RLock()
	defer h.opalMtx.RUnlock()
	return h.opal.Slice(start, end)
}

func (h *Hub) OpalLen() int {
	h.opalMtx.RLock()
	defer h.opalMtx.RUnlock()
	return h.opal.Len()
}

// AppendDSR validates and appends in one critical section, so a concurrent
// reset cannot land between the check and the write.
func (h *Hub) AppendDSR(rec dsr.Record) error {
	h.dsrMtx.Lock()
	defer h.dsrMtx.Unlock()
	if err := rec.Validate(); err != nil {
		return err
	}
	h.dsr.Append(rec)
	metrics.DSRRecords.Inc()
	return nil
}

func (h *Hub) SliceDSR(start, end int, cols string) ([]map[string]any, error) {
	h.dsrMtx.RLock()
	defer h.dsrMtx.RUnlock()
	records, err := h.dsr.Slice(start, end)
	if err != nil {
		return nil, err
	}
	return dsr.Project(records, cols)
}

func (h *Hub) DSRLen() int {
	h.dsrMtx.RLock()
	defer h.dsrMtx.RUnlock()
	return h.dsr.Len()
}

func (h *Hub) Wesim() (*wesim.Payload, error) {
	return h.wesim.Get()
}

func (h *Hub) SetModelStart(start bool) {
	h.signalMtx.Lock()
	h.modelStart = start
	h.signalMtx.Unlock()
}

func (h *Hub) ModelStart() bool {
	h.signalMtx.RLock()
	defer h.signalMtx.RUnlock()
	return h.modelStart
}

// SetModelReady records the flag; a rising ready signal means the model is
// about to run and the previous session's data is cleared.
func (h *Hub) SetModelReady(ready bool) {
	h.signalMtx.Lock()
	h.modelReady = ready
	h.signalMtx.Unlock()
	if ready {
		h.Reset()
	}
}

func (h *Hub) ModelReady() bool {
	h.signalMtx.RLock()
	defer h.signalMtx.RUnlock()
	return h.modelReady
}

// Reset clears the Opal table and DSR list and drops the Wesim cache
// atomically with respect to concurrent readers.
func (h *Hub) Reset() {
	h.opalMtx.Lock()
	h.dsrMtx.Lock()
	h.opal = opal.New(h.opalInitRow)
	h.dsr = dsr.NewList()
	h.wesim.Reset()
	h.dsrMtx.Unlock()
	h.opalMtx.Unlock()
	metrics.Resets.Inc()
	log.Println("data hub reset: opal, dsr and wesim caches cleared")
}

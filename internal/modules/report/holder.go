package report

import (
	"sync"

	"github.com/guyc74/stocks/internal/domain"
)

// Holder keeps the most recent report for concurrent readers
type Holder struct {
	mu     sync.RWMutex
	latest *Report
}

// NewHolder creates an empty holder
func NewHolder() *Holder {
	return &Holder{}
}

// Publish replaces the current report
func (h *Holder) Publish(r *Report) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest = r
}

// Latest returns the current report, nil before the first publish
func (h *Holder) Latest() *Report {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.latest
}

// Rows returns the rows of the current report
func (h *Holder) Rows() []Row {
	if r := h.Latest(); r != nil {
		return r.Rows
	}
	return nil
}

// Row returns the row of the security in the current report
func (h *Holder) Row(id domain.SecurityID) (Row, bool) {
	return Find(h.Rows(), id)
}

package api

import (
	"net/http"

	"github.com/okian/securescore/internal/domain/history"
)

// HistoryHandler serves the stored records.
type HistoryHandler struct {
	reader HistoryReader
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(reader HistoryReader) *HistoryHandler {
	return &HistoryHandler{reader: reader}
}

// HandleGetHistory handles GET /history?limit=N requests. Records are
// returned exactly as stored, oldest first.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	n, err := parseLimit(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	snap, err := h.reader.Load(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tail(snap.Records, n))
}

// HandleGetLatest handles GET /history/latest requests.
func (h *HistoryHandler) HandleGetLatest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.reader.Load(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}
	latest := history.Latest(snap.Records)
	if latest == nil {
		writeError(w, http.StatusNotFound, "not_found", ErrNoHistory)
		return
	}
	writeJSON(w, http.StatusOK, latest)
}

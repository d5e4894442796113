package api

import (
	"net/http"

	"github.com/okian/securescore/internal/domain/delta"
)

// TrendHandler serves the change between consecutive captures.
type TrendHandler struct {
	reader HistoryReader
}

// NewTrendHandler creates a new trend handler.
func NewTrendHandler(reader HistoryReader) *TrendHandler {
	return &TrendHandler{reader: reader}
}

type trendPoint struct {
	Timestamp  string `json:"timestamp"`
	Percentage int    `json:"scorePercentage"`
	delta.Result
}

// HandleGetTrend handles GET /trend?limit=N requests.
func (h *TrendHandler) HandleGetTrend(w http.ResponseWriter, r *http.Request) {
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
	series, err := delta.Series(snap.Records)
	if err != nil {
		writeLoadError(w, err)
		return
	}

	points := make([]trendPoint, len(series))
	for i, res := range series {
		rec := snap.Records[i].Record()
		points[i] = trendPoint{Timestamp: rec.Timestamp, Percentage: rec.ScorePercentage, Result: res}
	}
	writeJSON(w, http.StatusOK, tail(points, n))
}

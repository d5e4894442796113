package api

import (
	"net/http"

	"github.com/okian/securescore/internal/domain/record"
)

// StatsHandler summarises the history.
type StatsHandler struct {
	reader HistoryReader
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(reader HistoryReader) *StatsHandler {
	return &StatsHandler{reader: reader}
}

type statsResponse struct {
	Location  string              `json:"location"`
	Exists    bool                `json:"exists"`
	Records   int                 `json:"records"`
	FirstSeen string              `json:"first_seen,omitempty"`
	LastSeen  string              `json:"last_seen,omitempty"`
	MinScore  *float64            `json:"min_score,omitempty"`
	MaxScore  *float64            `json:"max_score,omitempty"`
	Latest    *record.ScoreRecord `json:"latest,omitempty"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	snap, err := h.reader.Load(r.Context())
	if err != nil {
		writeLoadError(w, err)
		return
	}

	resp := statsResponse{Location: snap.Location, Exists: snap.Exists, Records: len(snap.Records)}
	for i, f := range snap.Records {
		rec := f.Record()
		if i == 0 {
			resp.FirstSeen = rec.Timestamp
			lo, hi := rec.CurrentScore, rec.CurrentScore
			resp.MinScore, resp.MaxScore = &lo, &hi
		}
		if rec.CurrentScore < *resp.MinScore {
			*resp.MinScore = rec.CurrentScore
		}
		if rec.CurrentScore > *resp.MaxScore {
			*resp.MaxScore = rec.CurrentScore
		}
		if i == len(snap.Records)-1 {
			resp.LastSeen = rec.Timestamp
			resp.Latest = &rec
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

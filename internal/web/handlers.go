package web

import (
	"context"
	"net/http"

	"github.com/rotisserie/eris"

	"github.com/sdshc/costshare/internal/conservation"
	"github.com/sdshc/costshare/internal/dashboard"
	"github.com/sdshc/costshare/internal/geo"
)

const headerRunID = "X-Run-ID"

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := s.engine.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"state":  st.State,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Status())
}

func (s *Server) handleSegments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, conservation.Segments())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), s.opts.ReloadTimeout)
	defer cancel()

	err := s.engine.Load(ctx)
	st := s.engine.Status()
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, st)
	case eris.Is(err, dashboard.ErrSuperseded):
		writeError(w, http.StatusConflict, errorResponse{Error: "reload superseded by a newer reload", State: st.State})
	default:
		writeError(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error(), State: st.State})
	}
}

// snapshot resolves ?segment= and selects it, writing the error response
// itself when it returns nil.
func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) *dashboard.Snapshot {
	seg, err := conservation.ParseSegment(r.URL.Query().Get("segment"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil
	}

	snap, err := s.engine.Select(seg)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, errorResponse{
			Error: err.Error(),
			State: s.engine.Status().State,
		})
		return nil
	}
	w.Header().Set(headerRunID, snap.RunID)
	return snap
}

func (s *Server) withSnapshot(view func(*dashboard.Snapshot) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap := s.snapshot(w, r)
		if snap == nil {
			return
		}
		writeJSON(w, http.StatusOK, view(snap))
	}
}

func (s *Server) handleLocations(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot(w, r)
	if snap == nil {
		return
	}
	data, err := geo.MarshalGeoJSON(snap.Views.Clusters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

type budgetRow struct {
	conservation.BudgetSummary
	Utilization float64 `json:"utilization"`
}

type fundingResponse struct {
	Total         budgetRow   `json:"total"`
	Segments      []budgetRow `json:"segments"`
	Funds         []budgetRow `json:"funds"`
	PracticeTypes []budgetRow `json:"practice_types"`
}

func newFundingResponse(b conservation.Budget) fundingResponse {
	total := conservation.BudgetSummary{Name: "Total"}
	for _, s := range b.Segments {
		total.Allocated += s.Allocated
		total.Used += s.Used
		total.Available += s.Available
	}
	return fundingResponse{
		Total:         budgetRow{BudgetSummary: total, Utilization: total.Utilization()},
		Segments:      budgetRows(b.Segments),
		Funds:         budgetRows(b.Funds),
		PracticeTypes: budgetRows(b.PracticeTypes),
	}
}

func budgetRows(in []conservation.BudgetSummary) []budgetRow {
	out := make([]budgetRow, 0, len(in))
	for _, s := range in {
		out = append(out, budgetRow{BudgetSummary: s, Utilization: s.Utilization()})
	}
	return out
}

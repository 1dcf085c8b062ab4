package http

import (
	"net/http"
	"sort"

	"github.com/AltEgora/avito/api/openapi"
	"github.com/AltEgora/avito/internal/service/converter"
)

type userAssignmentStatsDTO struct {
	UserID      string `json:"user_id"`
	Assignments int64  `json:"assignments"`
}

type prAssignmentStatsDTO struct {
	PullRequestID string `json:"pull_request_id"`
	Assignments   int64  `json:"assignments"`
}

type assignmentStatsResponse struct {
	ByUser        []userAssignmentStatsDTO `json:"by_user"`
	ByPullRequest []prAssignmentStatsDTO   `json:"by_pull_request"`
}

func (s *Server) HandleStatsAssignments(w http.ResponseWriter, r *http.Request) {
	byUser, byPR, err := s.app.Stats.GetAssignmentStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := assignmentStatsResponse{
		ByUser:        make([]userAssignmentStatsDTO, 0, len(byUser)),
		ByPullRequest: make([]prAssignmentStatsDTO, 0, len(byPR)),
	}

	for _, id := range sortedKeys(byUser) {
		resp.ByUser = append(resp.ByUser, userAssignmentStatsDTO{
			UserID:      id,
			Assignments: byUser[id],
		})
	}

	for _, id := range sortedKeys(byPR) {
		resp.ByPullRequest = append(resp.ByPullRequest, prAssignmentStatsDTO{
			PullRequestID: id,
			Assignments:   byPR[id],
		})
	}

	s.writeJSON(w, http.StatusOK, resp)
}

type userAssignmentsResponse struct {
	Stats []openapi.UserAssignmentStat `json:"stats"`
}

func (s *Server) HandleStatsUserAssignments(w http.ResponseWriter, r *http.Request) {
	stats, err := s.app.Stats.GetUserAssignmentStats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, userAssignmentsResponse{
		Stats: converter.ReviewerStatsToOpenAPI(stats),
	})
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

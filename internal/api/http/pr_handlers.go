package http

import (
	"net/http"

	"github.com/AltEgora/avito/api/openapi"
	"github.com/AltEgora/avito/internal/service/converter"
)

type prResponse struct {
	PR openapi.PullRequest `json:"pr"`
}

func (s *Server) HandlePullRequestCreate(w http.ResponseWriter, r *http.Request) {
	var req openapi.PostPullRequestCreateJSONBody
	if !s.decodeBody(w, r, &req, false) {
		return
	}
	if req.PullRequestId == "" || req.PullRequestName == "" || req.AuthorId == "" {
		s.badRequest(w, "pull_request_id, pull_request_name and author_id are required")
		return
	}

	pr, err := s.app.PR.CreatePullRequest(r.Context(), req.PullRequestId, req.PullRequestName, req.AuthorId)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, prResponse{PR: converter.PullRequestToOpenAPI(pr)})
}

func (s *Server) HandlePullRequestGet(w http.ResponseWriter, r *http.Request) {
	id, ok := s.queryParam(w, r, "pull_request_id")
	if !ok {
		return
	}

	pr, err := s.app.PR.GetPullRequest(r.Context(), id)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, prResponse{PR: converter.PullRequestToOpenAPI(pr)})
}

func (s *Server) HandlePullRequestMerge(w http.ResponseWriter, r *http.Request) {
	var req openapi.PostPullRequestMergeJSONBody
	if !s.decodeBody(w, r, &req, false) {
		return
	}
	if req.PullRequestId == "" {
		s.badRequest(w, "pull_request_id is required")
		return
	}

	pr, err := s.app.PR.MergePullRequest(r.Context(), req.PullRequestId)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, prResponse{PR: converter.PullRequestToOpenAPI(pr)})
}

type reassignPRResponse struct {
	PR         openapi.PullRequest `json:"pr"`
	ReplacedBy string              `json:"replaced_by"`
}

func (s *Server) HandlePullRequestReassign(w http.ResponseWriter, r *http.Request) {
	var req openapi.PostPullRequestReassignJSONBody
	if !s.decodeBody(w, r, &req, false) {
		return
	}

	oldReviewerID := req.OldReviewerId
	if oldReviewerID == "" {
		oldReviewerID = req.OldUserId
	}
	if req.PullRequestId == "" || oldReviewerID == "" {
		s.badRequest(w, "pull_request_id and old_reviewer_id are required")
		return
	}

	updated, replacedBy, err := s.app.PR.ReassignReviewer(r.Context(), req.PullRequestId, oldReviewerID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, reassignPRResponse{
		PR:         converter.PullRequestToOpenAPI(updated),
		ReplacedBy: replacedBy,
	})
}

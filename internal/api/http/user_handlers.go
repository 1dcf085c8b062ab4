package http

import (
	"net/http"

	"github.com/AltEgora/avito/api/openapi"
	"github.com/AltEgora/avito/internal/service/converter"
)

type userResponse struct {
	User openapi.User `json:"user"`
}

func (s *Server) HandleUserSetIsActive(w http.ResponseWriter, r *http.Request) {
	var req openapi.PostUsersSetIsActiveJSONBody
	if !s.decodeBody(w, r, &req, false) {
		return
	}
	if req.UserId == "" || req.IsActive == nil {
		s.badRequest(w, "user_id and is_active are required")
		return
	}

	user, err := s.app.User.SetActive(r.Context(), req.UserId, *req.IsActive)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, userResponse{User: converter.UserToOpenAPI(user)})
}

type userReviewsResponse struct {
	UserID       string                     `json:"user_id"`
	PullRequests []openapi.PullRequestShort `json:"pull_requests"`
}

func (s *Server) HandleUserGetReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.queryParam(w, r, "user_id")
	if !ok {
		return
	}

	prs, err := s.app.User.ListAssignedPullRequests(r.Context(), userID)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, userReviewsResponse{
		UserID:       userID,
		PullRequests: converter.PullRequestShortList(prs),
	})
}

package http

import (
	"net/http"

	"github.com/AltEgora/avito/api/openapi"
	"github.com/AltEgora/avito/internal/service/converter"
)

type createTeamResponse struct {
	Team openapi.Team `json:"team"`
}

func (s *Server) HandleTeamAdd(w http.ResponseWriter, r *http.Request) {
	var req openapi.Team
	if !s.decodeBody(w, r, &req, false) {
		return
	}
	if req.TeamName == "" {
		s.badRequest(w, "team_name is required")
		return
	}
	for _, m := range req.Members {
		if m.UserId == "" {
			s.badRequest(w, "members[].user_id is required")
			return
		}
	}

	domainTeam := converter.TeamFromOpenAPI(&req)

	created, err := s.app.Team.CreateTeam(r.Context(), domainTeam.Name, domainTeam.Members)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	resp := createTeamResponse{
		Team: converter.TeamToOpenAPI(created),
	}
	s.writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) HandleTeamGet(w http.ResponseWriter, r *http.Request) {
	teamName, ok := s.queryParam(w, r, "team_name")
	if !ok {
		return
	}

	team, err := s.app.Team.GetTeam(r.Context(), teamName)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, converter.TeamToOpenAPI(team))
}

func (s *Server) HandleTeamDelete(w http.ResponseWriter, r *http.Request) {
	teamName, ok := s.queryParam(w, r, "team_name")
	if !ok {
		return
	}

	if err := s.app.Team.DeleteTeam(r.Context(), teamName); err != nil {
		s.handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleTeamDeactivateMembers deactivates the whole team, or only the members
// listed in an optional {"user_ids": [...]} body. An explicit empty list is
// rejected.
func (s *Server) HandleTeamDeactivateMembers(w http.ResponseWriter, r *http.Request) {
	teamName, ok := s.queryParam(w, r, "team_name")
	if !ok {
		return
	}

	var req openapi.PostTeamDeactivateMembersJSONBody
	if !s.decodeBody(w, r, &req, true) {
		return
	}
	if req.UserIds != nil && len(req.UserIds) == 0 {
		s.badRequest(w, "user_ids must not be empty")
		return
	}

	res, err := s.app.Team.DeactivateMembers(r.Context(), teamName, req.UserIds)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, converter.TeamDeactivationToOpenAPI(&res))
}

// Package openapi holds the wire types of the reviewer service HTTP API and
// the OpenAPI document that describes them.
package openapi

import "time"

type PullRequestStatus string

const (
	PullRequestStatusMERGED PullRequestStatus = "MERGED"
	PullRequestStatusOPEN   PullRequestStatus = "OPEN"
)

type PullRequestShortStatus string

const (
	PullRequestShortStatusMERGED PullRequestShortStatus = "MERGED"
	PullRequestShortStatusOPEN   PullRequestShortStatus = "OPEN"
)

type ErrorResponseErrorCode string

type ErrorResponse struct {
	Error struct {
		Code    ErrorResponseErrorCode `json:"code"`
		Message string                 `json:"message"`
	} `json:"error"`
}

type PullRequest struct {
	AssignedReviewers []string          `json:"assigned_reviewers"`
	AuthorId          string            `json:"author_id"`
	CreatedAt         *time.Time        `json:"createdAt,omitempty"`
	MergedAt          *time.Time        `json:"mergedAt,omitempty"`
	PullRequestId     string            `json:"pull_request_id"`
	PullRequestName   string            `json:"pull_request_name"`
	Status            PullRequestStatus `json:"status"`
}

type PullRequestShort struct {
	AuthorId        string                 `json:"author_id"`
	PullRequestId   string                 `json:"pull_request_id"`
	PullRequestName string                 `json:"pull_request_name"`
	Status          PullRequestShortStatus `json:"status"`
}

type Team struct {
	Members  []TeamMember `json:"members"`
	TeamName string       `json:"team_name"`
}

type TeamMember struct {
	IsActive bool   `json:"is_active"`
	UserId   string `json:"user_id"`
	Username string `json:"username"`
}

type User struct {
	IsActive bool    `json:"is_active"`
	TeamName *string `json:"team_name"`
	UserId   string  `json:"user_id"`
	Username string  `json:"username"`
}

type ReviewerReplacement struct {
	NewReviewerId *string `json:"new_reviewer_id"`
	OldReviewerId string  `json:"old_reviewer_id"`
	PullRequestId string  `json:"pull_request_id"`
}

type TeamDeactivation struct {
	DeactivatedCount int                   `json:"deactivated_count"`
	ReassignedPrs    []string              `json:"reassigned_prs"`
	Replacements     []ReviewerReplacement `json:"replacements"`
	TeamName         string                `json:"team_name"`
}

type UserAssignmentStat struct {
	AssignmentsCount int64  `json:"assignments_count"`
	UserId           string `json:"user_id"`
}

type PostPullRequestCreateJSONBody struct {
	AuthorId        string `json:"author_id"`
	PullRequestId   string `json:"pull_request_id"`
	PullRequestName string `json:"pull_request_name"`
}

type PostPullRequestMergeJSONBody struct {
	PullRequestId string `json:"pull_request_id"`
}

// PostPullRequestReassignJSONBody accepts old_user_id as an alias of
// old_reviewer_id.
type PostPullRequestReassignJSONBody struct {
	OldReviewerId string `json:"old_reviewer_id"`
	OldUserId     string `json:"old_user_id,omitempty"`
	PullRequestId string `json:"pull_request_id"`
}

type PostUsersSetIsActiveJSONBody struct {
	IsActive *bool  `json:"is_active"`
	UserId   string `json:"user_id"`
}

type PostTeamDeactivateMembersJSONBody struct {
	UserIds []string `json:"user_ids,omitempty"`
}

package domain

import "time"

// MaxInitialReviewers is how many reviewers a new pull request gets at most.
const MaxInitialReviewers = 2

type User struct {
	ID       string
	Username string
	// TeamName is empty for users detached from any team.
	TeamName string
	IsActive bool
}

func (u User) HasTeam() bool {
	return u.TeamName != ""
}

type Team struct {
	Name    string
	Members []User
}

type PRStatus string

const (
	PRStatusOpen   PRStatus = "OPEN"
	PRStatusMerged PRStatus = "MERGED"
)

type PullRequest struct {
	ID                string
	Name              string
	AuthorID          string
	Status            PRStatus
	AssignedReviewers []string
	CreatedAt         time.Time
	MergedAt          *time.Time
}

func (p PullRequest) IsMerged() bool {
	return p.Status == PRStatusMerged
}

func (p PullRequest) HasReviewer(userID string) bool {
	for _, id := range p.AssignedReviewers {
		if id == userID {
			return true
		}
	}
	return false
}

// ReviewerReplacement records one repaired reviewer slot. NewReviewerID is empty
// when the slot was dropped for lack of a replacement.
type ReviewerReplacement struct {
	PullRequestID string
	OldReviewerID string
	NewReviewerID string
}

type TeamDeactivationResult struct {
	TeamName         string
	DeactivatedUsers int
	ReassignedPRs    []string
	Replacements     []ReviewerReplacement
}

type ReviewerStat struct {
	UserID      string
	Assignments int64
}

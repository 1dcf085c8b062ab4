package repo

import (
	"time"

	"github.com/AltEgora/avito/internal/domain"
)

type OpKind int

const (
	OpCreateTeam OpKind = iota + 1
	OpDeleteTeam
	OpUpsertUser
	OpSetUserActive
	OpCreatePullRequest
	OpMergePullRequest
	OpAddReviewer
	OpRemoveReviewer
)

func (k OpKind) String() string {
	switch k {
	case OpCreateTeam:
		return "create_team"
	case OpDeleteTeam:
		return "delete_team"
	case OpUpsertUser:
		return "upsert_user"
	case OpSetUserActive:
		return "set_user_active"
	case OpCreatePullRequest:
		return "create_pull_request"
	case OpMergePullRequest:
		return "merge_pull_request"
	case OpAddReviewer:
		return "add_reviewer"
	case OpRemoveReviewer:
		return "remove_reviewer"
	}
	return "unknown"
}

// Op is a single staged write. Only the fields relevant to Kind are set.
type Op struct {
	Kind          OpKind
	TeamName      string
	User          domain.User
	PullRequest   domain.PullRequest
	PullRequestID string
	UserID        string
	Active        bool
	At            time.Time
}

// Mutations is an ordered batch of writes applied atomically by Tx.Apply.
type Mutations struct {
	ops []Op
}

func NewMutations() *Mutations {
	return &Mutations{}
}

func (m *Mutations) Ops() []Op {
	out := make([]Op, len(m.ops))
	copy(out, m.ops)
	return out
}

func (m *Mutations) Len() int {
	return len(m.ops)
}

func (m *Mutations) CreateTeam(name string) *Mutations {
	m.ops = append(m.ops, Op{Kind: OpCreateTeam, TeamName: name})
	return m
}

func (m *Mutations) DeleteTeam(name string) *Mutations {
	m.ops = append(m.ops, Op{Kind: OpDeleteTeam, TeamName: name})
	return m
}

func (m *Mutations) UpsertUser(u domain.User) *Mutations {
	m.ops = append(m.ops, Op{Kind: OpUpsertUser, User: u})
	return m
}

func (m *Mutations) SetUserActive(userID string, active bool) *Mutations {
	m.ops = append(m.ops, Op{Kind: OpSetUserActive, UserID: userID, Active: active})
	return m
}

// CreatePullRequest inserts the pull request together with its reviewer set.
func (m *Mutations) CreatePullRequest(pr domain.PullRequest) *Mutations {
	pr.AssignedReviewers = append([]string(nil), pr.AssignedReviewers...)
	m.ops = append(m.ops, Op{Kind: OpCreatePullRequest, PullRequest: pr})
	return m
}

// MergePullRequest marks the pull request MERGED. An existing merge time is kept.
func (m *Mutations) MergePullRequest(prID string, at time.Time) *Mutations {
	m.ops = append(m.ops, Op{Kind: OpMergePullRequest, PullRequestID: prID, At: at})
	return m
}

func (m *Mutations) AddReviewer(prID, userID string) *Mutations {
	m.ops = append(m.ops, Op{Kind: OpAddReviewer, PullRequestID: prID, UserID: userID})
	return m
}

func (m *Mutations) RemoveReviewer(prID, userID string) *Mutations {
	m.ops = append(m.ops, Op{Kind: OpRemoveReviewer, PullRequestID: prID, UserID: userID})
	return m
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPullRequest_HasReviewer(t *testing.T) {
	pr := PullRequest{AssignedReviewers: []string{"u2", "u3"}}

	assert.True(t, pr.HasReviewer("u2"))
	assert.False(t, pr.HasReviewer("u1"))
	assert.False(t, PullRequest{}.HasReviewer("u1"))
}

func TestDomainError_IsAndCodeOf(t *testing.T) {
	err := fmt.Errorf("reassign: %w", NewDomainError(ErrorCodeNoCandidate, "no available candidate"))

	assert.True(t, errors.Is(err, NewDomainError(ErrorCodeNoCandidate, "")))
	assert.False(t, errors.Is(err, NewDomainError(ErrorCodeNotFound, "")))
	assert.Equal(t, ErrorCodeNoCandidate, CodeOf(err))
	assert.Equal(t, ErrorCode(""), CodeOf(errors.New("plain")))
	assert.Equal(t, "NO_CANDIDATE: no available candidate", NewDomainError(ErrorCodeNoCandidate, "no available candidate").Error())
}

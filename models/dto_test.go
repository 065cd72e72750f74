package models

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestUpdateQueryRequestRejectsUnknownStatus(t *testing.T) {
	req := UpdateQueryRequest{Status: "escalated"}
	assert.Error(t, binding.Validator.ValidateStruct(&req))
}

func TestUpdateQueryRequestAcceptsKnownStatuses(t *testing.T) {
	for _, status := range []QueryStatus{
		QueryStatusNew, QueryStatusAssigned, QueryStatusUnderDiscussion,
		QueryStatusSolutionProvided, QueryStatusPendingReview, QueryStatusApproved,
		QueryStatusRejected, QueryStatusPublished, QueryStatusArchived,
	} {
		req := UpdateQueryRequest{Status: status}
		assert.NoError(t, binding.Validator.ValidateStruct(&req), string(status))
	}

	empty := UpdateQueryRequest{}
	assert.NoError(t, binding.Validator.ValidateStruct(&empty))
}

func TestUpdateKnowledgeBaseRequestValidatesStatus(t *testing.T) {
	req := UpdateKnowledgeBaseRequest{Status: "retired"}
	assert.Error(t, binding.Validator.ValidateStruct(&req))

	for _, status := range []KnowledgeBaseStatus{
		KBStatusDraft, KBStatusPublished, KBStatusArchived, KBStatusUnderReview,
	} {
		req := UpdateKnowledgeBaseRequest{Status: status}
		assert.NoError(t, binding.Validator.ValidateStruct(&req), string(status))
	}
}

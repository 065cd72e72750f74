package models

import (
	"time"

	"gorm.io/gorm"
)

type QueryStatus string

const (
	QueryStatusNew              QueryStatus = "new"
	QueryStatusAssigned         QueryStatus = "assigned"
	QueryStatusUnderDiscussion  QueryStatus = "under_discussion"
	QueryStatusSolutionProvided QueryStatus = "solution_provided"
	QueryStatusPendingReview    QueryStatus = "pending_review"
	QueryStatusApproved         QueryStatus = "approved"
	QueryStatusRejected         QueryStatus = "rejected"
	QueryStatusPublished        QueryStatus = "published"
	QueryStatusArchived         QueryStatus = "archived"
)

type WorkflowStage string

const (
	StageManagerReview WorkflowStage = "manager_review"
	StageAdminReview   WorkflowStage = "admin_review"
	StageCompleted     WorkflowStage = "completed"
	StageRejected      WorkflowStage = "rejected"
)

type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "approve"
	ReviewActionReject  ReviewAction = "reject"
)

// Solution is the single current proposed answer to a query, distinct
// from the answer log. Overwritable until a review snapshots it.
type Solution struct {
	Content      string     `json:"content"`
	ProvidedByID *uint      `json:"provided_by"`
	ProvidedAt   *time.Time `json:"provided_at"`
	ManagerNotes string     `json:"manager_notes"`
}

// AdminReview records the latest review action on a query. The
// OriginalSolution/OriginalAnswers snapshot is captured exactly once, on
// the first review; SnapshotTaken marks that it happened.
type AdminReview struct {
	ReviewedByID     *uint           `json:"reviewed_by"`
	ReviewedAt       *time.Time      `json:"reviewed_at"`
	Action           ReviewAction    `json:"action"`
	AdminNotes       string          `json:"admin_notes"`
	RejectionReason  string          `json:"rejection_reason"`
	SnapshotTaken    bool            `json:"snapshot_taken"`
	OriginalSolution *string         `json:"original_solution"`
	OriginalAnswers  AnswerSnapshots `json:"original_answers" gorm:"type:jsonb"`
	WasEdited        bool            `json:"was_edited"`
}

type Query struct {
	ID           uint        `json:"id" gorm:"primarykey"`
	Title        string      `json:"title"`
	Organization string      `json:"organization"`
	Cause        string      `json:"cause"`
	Stage        string      `json:"stage"`
	Tags         StringArray `json:"tags" gorm:"type:text[]"`
	Status       QueryStatus `json:"status" gorm:"default:'new'"`

	SubmittedByID uint `json:"submitted_by_id" gorm:"not null"`
	SubmittedBy   User `json:"submitted_by" gorm:"foreignKey:SubmittedByID"`

	Answers  []QueryAnswer  `json:"answers,omitempty" gorm:"foreignKey:QueryID"`
	Comments []QueryComment `json:"comments,omitempty" gorm:"foreignKey:QueryID"`

	Solution    Solution    `json:"solution" gorm:"embedded;embeddedPrefix:solution_"`
	AdminReview AdminReview `json:"admin_review" gorm:"embedded;embeddedPrefix:review_"`

	KnowledgeBaseEntryID *uint               `json:"knowledge_base_entry_id"`
	KnowledgeBaseEntry   *KnowledgeBaseEntry `json:"knowledge_base_entry,omitempty" gorm:"foreignKey:KnowledgeBaseEntryID"`

	WorkflowStage  WorkflowStage `json:"workflow_stage" gorm:"default:'manager_review'"`
	StageStartedAt time.Time     `json:"stage_started_at"`

	Views         int `json:"views" gorm:"default:0"`
	AnswersCount  int `json:"answers_count" gorm:"default:0"`
	CommentsCount int `json:"comments_count" gorm:"default:0"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// QueryAnswer is one entry of the append-only answer log. Rows are never
// mutated after insertion; insertion order is the canonical order.
type QueryAnswer struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	QueryID      uint      `json:"query_id" gorm:"not null;index"`
	Content      string    `json:"content" gorm:"type:text"`
	ProvidedByID uint      `json:"provided_by_id"`
	ProvidedBy   User      `json:"provided_by" gorm:"foreignKey:ProvidedByID"`
	ProvidedAt   time.Time `json:"provided_at"`
	Helpful      *bool     `json:"helpful,omitempty"`
	ManagerNotes string    `json:"manager_notes"`
}

type CommentType string

const (
	CommentTypeComment   CommentType = "comment"
	CommentTypeSolution  CommentType = "solution"
	CommentTypeReview    CommentType = "review"
	CommentTypeApproval  CommentType = "approval"
	CommentTypeRejection CommentType = "rejection"
)

type QueryComment struct {
	ID        uint        `json:"id" gorm:"primarykey"`
	QueryID   uint        `json:"query_id" gorm:"not null;index"`
	UserID    uint        `json:"user_id"`
	User      User        `json:"user" gorm:"foreignKey:UserID"`
	Message   string      `json:"message"`
	Type      CommentType `json:"type" gorm:"default:'comment'"`
	CreatedAt time.Time   `json:"created_at"`
}

// HasReviewableContent reports whether a review has anything to act on:
// either a current solution or at least one answer.
func (q *Query) HasReviewableContent() bool {
	return q.Solution.Content != "" || len(q.Answers) > 0
}

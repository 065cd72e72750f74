package models

import (
	"time"

	"gorm.io/gorm"
)

type KnowledgeBaseStatus string

const (
	KBStatusDraft       KnowledgeBaseStatus = "draft"
	KBStatusPublished   KnowledgeBaseStatus = "published"
	KBStatusArchived    KnowledgeBaseStatus = "archived"
	KBStatusUnderReview KnowledgeBaseStatus = "under_review"
)

// OrganizationAll entries are visible to every organization filter.
const OrganizationAll = "ALL"

// KnowledgeBaseWorkflow is the permanent provenance record for entries
// derived from an approved query. Directly authored entries leave it
// empty.
type KnowledgeBaseWorkflow struct {
	SourceQueryID      *uint           `json:"source_query"`
	SolutionProviderID *uint           `json:"solution_provider"`
	OriginalSolution   *string         `json:"original_solution"`
	OriginalAnswers    AnswerSnapshots `json:"original_answers" gorm:"type:jsonb"`
	ApprovedByID       *uint           `json:"approved_by"`
	ApprovalDate       *time.Time      `json:"approval_date"`
	AdminEdits         string          `json:"admin_edits"`
	WasEdited          bool            `json:"was_edited"`
	PublishedAt        *time.Time      `json:"published_at"`
}

// KnowledgeBaseMetrics are monotonic counters mutated only by
// read/feedback/search operations, never by editors.
type KnowledgeBaseMetrics struct {
	Views        int        `json:"views" gorm:"default:0"`
	Helpful      int        `json:"helpful" gorm:"default:0"`
	NotHelpful   int        `json:"not_helpful" gorm:"default:0"`
	Searches     int        `json:"searches" gorm:"default:0"`
	LastAccessed *time.Time `json:"last_accessed"`
}

type KnowledgeBaseEntry struct {
	ID                uint                `json:"id" gorm:"primarykey"`
	Title             string              `json:"title"`
	Content           ContentBlocks       `json:"content" gorm:"type:jsonb"`
	Summary           string              `json:"summary"`
	Organization      string              `json:"organization"`
	Tags              StringArray         `json:"tags" gorm:"type:text[]"`
	SearchKeywords    StringArray         `json:"search_keywords" gorm:"type:text[]"`
	AlternativeTitles StringArray         `json:"alternative_titles" gorm:"type:text[]"`
	Cause             string              `json:"cause"`
	Stage             string              `json:"stage"`
	Status            KnowledgeBaseStatus `json:"status" gorm:"default:'published'"`
	Featured          bool                `json:"featured" gorm:"default:false"`

	Workflow KnowledgeBaseWorkflow `json:"workflow" gorm:"embedded;embeddedPrefix:workflow_"`
	Metrics  KnowledgeBaseMetrics  `json:"metrics" gorm:"embedded;embeddedPrefix:metrics_"`

	Ratings []KnowledgeBaseRating `json:"ratings,omitempty" gorm:"foreignKey:EntryID"`

	Version int `json:"version" gorm:"default:1"`

	CreatedByID     uint  `json:"created_by_id"`
	CreatedBy       User  `json:"created_by" gorm:"foreignKey:CreatedByID"`
	LastUpdatedByID *uint `json:"last_updated_by"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// KnowledgeBaseRating holds at most one rating per user per entry.
// Re-rating replaces the row, timestamp included.
type KnowledgeBaseRating struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	EntryID   uint      `json:"entry_id" gorm:"not null;uniqueIndex:idx_kb_rating_entry_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_kb_rating_entry_user"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// FromWorkflow reports whether the entry was produced by the query
// approval workflow rather than authored directly.
func (e *KnowledgeBaseEntry) FromWorkflow() bool {
	return e.Workflow.SourceQueryID != nil
}

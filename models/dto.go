package models

type RegisterRequest struct {
	Name         string   `json:"name" binding:"required,min=2,max=50"`
	Email        string   `json:"email" binding:"required,email"`
	Password     string   `json:"password" binding:"required,min=8"`
	Role         UserRole `json:"role" binding:"required,oneof=admin manager sales_executive"`
	Organization string   `json:"organization" binding:"required"`
	Mobile       string   `json:"mobile" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type SolutionInput struct {
	Content      string `json:"content"`
	ManagerNotes string `json:"manager_notes"`
}

type CreateQueryRequest struct {
	Title        string         `json:"title" binding:"omitempty,min=5,max=200"`
	Organization string         `json:"organization"`
	Cause        string         `json:"cause" binding:"omitempty,max=200"`
	Stage        string         `json:"stage" binding:"omitempty,max=100"`
	Tags         []string       `json:"tags"`
	Solution     *SolutionInput `json:"solution,omitempty"`
}

type UpdateQueryRequest struct {
	Title        string      `json:"title" binding:"omitempty,min=5,max=200"`
	Organization string      `json:"organization"`
	Cause        string      `json:"cause" binding:"omitempty,max=200"`
	Stage        string      `json:"stage" binding:"omitempty,max=100"`
	Tags         []string    `json:"tags"`
	Status       QueryStatus `json:"status" binding:"omitempty,oneof=new assigned under_discussion solution_provided pending_review approved rejected published archived"`
}

type AddAnswerRequest struct {
	Content      string `json:"content" binding:"required,max=5000"`
	Helpful      *bool  `json:"helpful,omitempty"`
	ManagerNotes string `json:"manager_notes" binding:"omitempty,max=1000"`
}

type ProvideSolutionRequest struct {
	Content      string `json:"content" binding:"required,max=5000"`
	ManagerNotes string `json:"manager_notes" binding:"omitempty,max=1000"`
}

type ReviewSolutionRequest struct {
	Action          string `json:"action" binding:"required"`
	EditedSolution  string `json:"edited_solution"`
	AdminNotes      string `json:"admin_notes" binding:"omitempty,max=1000"`
	RejectionReason string `json:"rejection_reason" binding:"omitempty,max=500"`

	// Optional knowledge base overrides, used on approve.
	KnowledgeBaseTitle string   `json:"knowledge_base_title" binding:"omitempty,max=200"`
	Summary            string   `json:"summary" binding:"omitempty,max=1000"`
	Tags               []string `json:"tags"`
	SearchKeywords     []string `json:"search_keywords"`
	AlternativeTitles  []string `json:"alternative_titles"`
}

type AddCommentRequest struct {
	Message string      `json:"message" binding:"required,max=1000"`
	Type    CommentType `json:"type"`
}

type QueryListParams struct {
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=10"`
	Status       string `form:"status"`
	Organization string `form:"organization"`
	SubmittedBy  uint   `form:"submitted_by"`
	Search       string `form:"search"`
	SortBy       string `form:"sort_by,default=created_at"`
	SortOrder    string `form:"sort_order,default=desc"`
}

type CreateKnowledgeBaseRequest struct {
	Title             string   `json:"title" binding:"required,min=5,max=200"`
	Content           []string `json:"content" binding:"required,min=1"`
	Summary           string   `json:"summary" binding:"omitempty,max=300"`
	Organization      string   `json:"organization"`
	Tags              []string `json:"tags"`
	SearchKeywords    []string `json:"search_keywords"`
	AlternativeTitles []string `json:"alternative_titles"`
	Featured          bool     `json:"featured"`
	Cause             string   `json:"cause" binding:"omitempty,max=200"`
	Stage             string   `json:"stage" binding:"omitempty,max=100"`
}

type UpdateKnowledgeBaseRequest struct {
	Title             string              `json:"title" binding:"omitempty,min=5,max=200"`
	Content           []string            `json:"content"`
	Summary           string              `json:"summary" binding:"omitempty,max=300"`
	Organization      string              `json:"organization"`
	Tags              []string            `json:"tags"`
	SearchKeywords    []string            `json:"search_keywords"`
	AlternativeTitles []string            `json:"alternative_titles"`
	Status            KnowledgeBaseStatus `json:"status" binding:"omitempty,oneof=draft published archived under_review"`
	Featured          *bool               `json:"featured,omitempty"`
	Cause             string              `json:"cause" binding:"omitempty,max=200"`
	Stage             string              `json:"stage" binding:"omitempty,max=100"`
}

type KnowledgeBaseListParams struct {
	Page         int    `form:"page,default=1"`
	Limit        int    `form:"limit,default=10"`
	Organization string `form:"organization"`
	Status       string `form:"status"`
	Featured     *bool  `form:"featured"`
	Search       string `form:"search"`
	Tags         string `form:"tags"`
	SortBy       string `form:"sort_by,default=created_at"`
	SortOrder    string `form:"sort_order,default=desc"`
}

type KnowledgeBaseSearchParams struct {
	Query        string `form:"q"`
	Organization string `form:"organization"`
	Tags         string `form:"tags"`
	Limit        int    `form:"limit,default=20"`
}

type RateKnowledgeBaseRequest struct {
	Rating  *int   `json:"rating,omitempty"`
	Comment string `json:"comment" binding:"omitempty,max=200"`
}

type MarkHelpfulRequest struct {
	Helpful *bool `json:"helpful" binding:"required"`
}

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type OrganizationCount struct {
	Organization string `json:"organization"`
	Count        int64  `json:"count"`
	Views        int64  `json:"views"`
}

type KnowledgeBaseTotals struct {
	Featured     int64 `json:"featured"`
	TotalViews   int64 `json:"total_views"`
	TotalRatings int64 `json:"total_ratings"`
}

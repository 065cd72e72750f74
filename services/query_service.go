package services

import (
	"errors"
	"fmt"
	"time"

	"srs-backend/helper"
	"srs-backend/models"
	"srs-backend/repositories"

	"gorm.io/gorm"
)

// CreateQueryResult carries either the created query or, on the admin
// shortcut path, the directly published knowledge base entry.
type CreateQueryResult struct {
	Query              *models.Query              `json:"query,omitempty"`
	KnowledgeBaseEntry *models.KnowledgeBaseEntry `json:"knowledge_base_entry,omitempty"`
}

// ReviewResult carries the reviewed query and, on approval, the
// published knowledge base entry.
type ReviewResult struct {
	Query              *models.Query              `json:"query"`
	KnowledgeBaseEntry *models.KnowledgeBaseEntry `json:"knowledge_base_entry,omitempty"`
}

type QueryStats struct {
	Overall        map[string]int64           `json:"overall"`
	ByOrganization []models.OrganizationCount `json:"by_organization"`
}

type QueryService interface {
	Create(req models.CreateQueryRequest, userID uint, role models.UserRole) (*CreateQueryResult, error)
	GetByID(id uint) (*models.Query, error)
	GetList(params models.QueryListParams) ([]models.Query, int64, error)
	Update(id uint, req models.UpdateQueryRequest, userID uint, role models.UserRole) (*models.Query, error)
	Delete(id uint, userID uint, role models.UserRole) error
	AddAnswer(id uint, req models.AddAnswerRequest, userID uint) (*models.Query, error)
	ProvideSolution(id uint, req models.ProvideSolutionRequest, userID uint) (*models.Query, error)
	Review(id uint, req models.ReviewSolutionRequest, reviewerID uint) (*ReviewResult, error)
	AddComment(id uint, req models.AddCommentRequest, userID uint) (*models.Query, error)
	Stats() (*QueryStats, error)
}

type queryService struct {
	queryRepo repositories.QueryRepository
	kbService KnowledgeBaseService
}

func NewQueryService(queryRepo repositories.QueryRepository, kbService KnowledgeBaseService) QueryService {
	return &queryService{
		queryRepo: queryRepo,
		kbService: kbService,
	}
}

func (s *queryService) Create(req models.CreateQueryRequest, userID uint, role models.UserRole) (*CreateQueryResult, error) {
	// Admin shortcut: an admin submitting a query together with solution
	// content skips the workflow entirely and publishes directly.
	if role == models.RoleAdmin && req.Solution != nil && req.Solution.Content != "" {
		entry, err := s.kbService.CreateFromAdminShortcut(req, userID)
		if err != nil {
			return nil, err
		}
		return &CreateQueryResult{KnowledgeBaseEntry: entry}, nil
	}

	query := &models.Query{
		Title:          req.Title,
		Organization:   req.Organization,
		Cause:          req.Cause,
		Stage:          req.Stage,
		Tags:           models.StringArray(req.Tags),
		Status:         models.QueryStatusNew,
		SubmittedByID:  userID,
		WorkflowStage:  models.StageManagerReview,
		StageStartedAt: time.Now(),
	}

	if err := s.queryRepo.Create(query); err != nil {
		return nil, err
	}

	created, err := s.queryRepo.GetByID(query.ID)
	if err != nil {
		return nil, err
	}

	helper.GetLogger().WithFields(map[string]interface{}{
		"query_id":     created.ID,
		"submitted_by": userID,
	}).Info("Query submitted")

	return &CreateQueryResult{Query: created}, nil
}

func (s *queryService) GetByID(id uint) (*models.Query, error) {
	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Query not found")
	}

	if err := s.queryRepo.IncrementViews(id); err != nil {
		return nil, err
	}
	query.Views++

	return query, nil
}

func (s *queryService) GetList(params models.QueryListParams) ([]models.Query, int64, error) {
	return s.queryRepo.GetList(params)
}

func (s *queryService) Update(id uint, req models.UpdateQueryRequest, userID uint, role models.UserRole) (*models.Query, error) {
	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Query not found")
	}

	if role == models.RoleSalesExecutive && query.SubmittedByID != userID {
		return nil, models.ErrorForbidden{Message: "You can only update your own queries"}
	}

	if req.Title != "" {
		query.Title = req.Title
	}
	if req.Organization != "" {
		query.Organization = req.Organization
	}
	if req.Cause != "" {
		query.Cause = req.Cause
	}
	if req.Stage != "" {
		query.Stage = req.Stage
	}
	if req.Tags != nil {
		query.Tags = models.StringArray(req.Tags)
	}
	if req.Status != "" {
		query.Status = req.Status
	}

	if err := s.queryRepo.Update(query); err != nil {
		return nil, err
	}

	return s.queryRepo.GetByID(id)
}

func (s *queryService) Delete(id uint, userID uint, role models.UserRole) error {
	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return notFoundOr(err, "Query not found")
	}

	if role == models.RoleSalesExecutive && query.SubmittedByID != userID {
		return models.ErrorForbidden{Message: "You can only delete your own queries"}
	}

	return s.queryRepo.Delete(id)
}

func (s *queryService) AddAnswer(id uint, req models.AddAnswerRequest, userID uint) (*models.Query, error) {
	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Query not found")
	}

	answer := &models.QueryAnswer{
		QueryID:      query.ID,
		Content:      req.Content,
		ProvidedByID: userID,
		ProvidedAt:   time.Now(),
		Helpful:      req.Helpful,
		ManagerNotes: req.ManagerNotes,
	}

	if err := s.queryRepo.AddAnswer(answer); err != nil {
		return nil, err
	}

	query.AnswersCount++
	if query.Status == models.QueryStatusNew || query.Status == models.QueryStatusAssigned {
		query.Status = models.QueryStatusUnderDiscussion
	}

	if err := s.queryRepo.Update(query); err != nil {
		return nil, err
	}

	return s.queryRepo.GetByID(id)
}

func (s *queryService) ProvideSolution(id uint, req models.ProvideSolutionRequest, userID uint) (*models.Query, error) {
	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Query not found")
	}

	now := time.Now()

	// Last write wins: a prior solution is overwritten here and only
	// survives if a review already snapshotted it.
	query.Solution = models.Solution{
		Content:      req.Content,
		ProvidedByID: &userID,
		ProvidedAt:   &now,
		ManagerNotes: req.ManagerNotes,
	}
	query.Status = models.QueryStatusSolutionProvided
	query.WorkflowStage = models.StageAdminReview
	query.StageStartedAt = now

	if err := s.queryRepo.Update(query); err != nil {
		return nil, err
	}

	helper.GetLogger().WithFields(map[string]interface{}{
		"query_id":    query.ID,
		"provided_by": userID,
	}).Info("Solution provided")

	return s.queryRepo.GetByID(id)
}

func (s *queryService) Review(id uint, req models.ReviewSolutionRequest, reviewerID uint) (*ReviewResult, error) {
	action := models.ReviewAction(req.Action)
	if action != models.ReviewActionApprove && action != models.ReviewActionReject {
		return nil, models.ErrorValidation{Message: `Action must be either "approve" or "reject"`}
	}

	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Query not found")
	}

	if !query.HasReviewableContent() {
		return nil, models.ErrorValidation{Message: "No solution or answers provided for this query"}
	}

	now := time.Now()

	// Capture the audit snapshot exactly once, on the first review.
	if !query.AdminReview.SnapshotTaken {
		if query.Solution.Content != "" {
			original := query.Solution.Content
			query.AdminReview.OriginalSolution = &original
		}
		snapshots := make(models.AnswerSnapshots, 0, len(query.Answers))
		for _, a := range query.Answers {
			snapshots = append(snapshots, models.AnswerSnapshot{
				Content:    a.Content,
				ProvidedBy: a.ProvidedByID,
			})
		}
		query.AdminReview.OriginalAnswers = snapshots
		query.AdminReview.SnapshotTaken = true
	}

	query.AdminReview.ReviewedByID = &reviewerID
	query.AdminReview.ReviewedAt = &now
	query.AdminReview.Action = action
	query.AdminReview.AdminNotes = req.AdminNotes
	query.AdminReview.RejectionReason = req.RejectionReason

	if action == models.ReviewActionReject {
		query.Status = models.QueryStatusRejected
		query.WorkflowStage = models.StageRejected

		if err := s.queryRepo.Update(query); err != nil {
			return nil, err
		}

		helper.GetLogger().WithFields(map[string]interface{}{
			"query_id":    query.ID,
			"reviewed_by": reviewerID,
		}).Info("Query rejected")

		reloaded, err := s.queryRepo.GetByID(id)
		if err != nil {
			return nil, err
		}
		return &ReviewResult{Query: reloaded}, nil
	}

	resolved, err := resolveSolution(query, req.EditedSolution, reviewerID)
	if err != nil {
		return nil, err
	}

	switch resolved.Source {
	case sourceEdited:
		query.AdminReview.WasEdited = true
		query.Solution = models.Solution{
			Content:      resolved.Content,
			ProvidedByID: &reviewerID,
			ProvidedAt:   &now,
			ManagerNotes: req.AdminNotes,
		}
	case sourceAnswer:
		providerID := resolved.ProviderID
		query.Solution = models.Solution{
			Content:      resolved.Content,
			ProvidedByID: &providerID,
			ProvidedAt:   &now,
			ManagerNotes: fmt.Sprintf("Approved answer from user %d", providerID),
		}
	}

	query.Status = models.QueryStatusApproved
	query.WorkflowStage = models.StageCompleted

	entry, err := s.kbService.PublishFromQuery(query, resolved, req, reviewerID)
	if err != nil {
		return nil, err
	}

	query.KnowledgeBaseEntryID = &entry.ID
	query.Status = models.QueryStatusPublished

	if err := s.queryRepo.Update(query); err != nil {
		return nil, err
	}

	helper.GetLogger().WithFields(map[string]interface{}{
		"query_id":    query.ID,
		"entry_id":    entry.ID,
		"reviewed_by": reviewerID,
		"was_edited":  query.AdminReview.WasEdited,
	}).Info("Query approved and published to knowledge base")

	reloaded, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	return &ReviewResult{Query: reloaded, KnowledgeBaseEntry: entry}, nil
}

func (s *queryService) AddComment(id uint, req models.AddCommentRequest, userID uint) (*models.Query, error) {
	query, err := s.queryRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Query not found")
	}

	commentType := req.Type
	if commentType == "" {
		commentType = models.CommentTypeComment
	}

	comment := &models.QueryComment{
		QueryID:   query.ID,
		UserID:    userID,
		Message:   req.Message,
		Type:      commentType,
		CreatedAt: time.Now(),
	}

	if err := s.queryRepo.AddComment(comment); err != nil {
		return nil, err
	}

	query.CommentsCount++
	if err := s.queryRepo.Update(query); err != nil {
		return nil, err
	}

	return s.queryRepo.GetByID(id)
}

func (s *queryService) Stats() (*QueryStats, error) {
	statusCounts, err := s.queryRepo.StatusCounts()
	if err != nil {
		return nil, err
	}

	overall := map[string]int64{}
	var total int64
	for _, sc := range statusCounts {
		overall[sc.Status] = sc.Count
		total += sc.Count
	}
	overall["total"] = total

	byOrganization, err := s.queryRepo.CountByOrganization()
	if err != nil {
		return nil, err
	}

	return &QueryStats{
		Overall:        overall,
		ByOrganization: byOrganization,
	}, nil
}

// notFoundOr converts a missing-record error into the typed not-found
// kind and passes every other store failure through unchanged.
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrorNotFound{Message: message}
	}
	return err
}

package services

import (
	"time"

	"srs-backend/cache"
	"srs-backend/helper"
	"srs-backend/models"
	"srs-backend/repositories"
)

const listCacheTTL = 5 * time.Minute

type KnowledgeBaseStats struct {
	Overall        map[string]int64           `json:"overall"`
	ByOrganization []models.OrganizationCount `json:"by_organization"`
}

type SearchResult struct {
	Results []models.KnowledgeBaseEntry `json:"results"`
	Query   string                      `json:"query"`
	Count   int                         `json:"count"`
}

type KnowledgeBaseService interface {
	Create(req models.CreateKnowledgeBaseRequest, userID uint) (*models.KnowledgeBaseEntry, error)
	CreateFromAdminShortcut(req models.CreateQueryRequest, adminID uint) (*models.KnowledgeBaseEntry, error)
	PublishFromQuery(query *models.Query, resolved resolvedSolution, req models.ReviewSolutionRequest, reviewerID uint) (*models.KnowledgeBaseEntry, error)
	GetByID(id uint) (*models.KnowledgeBaseEntry, error)
	GetList(params models.KnowledgeBaseListParams) ([]models.KnowledgeBaseEntry, int64, error)
	Update(id uint, req models.UpdateKnowledgeBaseRequest, userID uint, role models.UserRole) (*models.KnowledgeBaseEntry, error)
	Delete(id uint, role models.UserRole) error
	Search(params models.KnowledgeBaseSearchParams) (*SearchResult, error)
	Rate(id uint, req models.RateKnowledgeBaseRequest, userID uint) (*models.KnowledgeBaseEntry, error)
	MarkHelpful(id uint, helpful bool) (*models.KnowledgeBaseMetrics, error)
	GetFeatured(organization string, limit int) ([]models.KnowledgeBaseEntry, error)
	GetPopular(organization string, days, limit int) ([]models.KnowledgeBaseEntry, error)
	Stats() (*KnowledgeBaseStats, error)
}

type knowledgeBaseService struct {
	kbRepo repositories.KnowledgeBaseRepository
	cache  *cache.Cache
}

func NewKnowledgeBaseService(kbRepo repositories.KnowledgeBaseRepository, c *cache.Cache) KnowledgeBaseService {
	return &knowledgeBaseService{
		kbRepo: kbRepo,
		cache:  c,
	}
}

func (s *knowledgeBaseService) Create(req models.CreateKnowledgeBaseRequest, userID uint) (*models.KnowledgeBaseEntry, error) {
	entry := &models.KnowledgeBaseEntry{
		Title:             req.Title,
		Content:           models.ContentBlocks(req.Content),
		Summary:           req.Summary,
		Organization:      req.Organization,
		Tags:              firstNonEmptyList(req.Tags),
		SearchKeywords:    firstNonEmptyList(req.SearchKeywords),
		AlternativeTitles: firstNonEmptyList(req.AlternativeTitles),
		Cause:             req.Cause,
		Stage:             req.Stage,
		Featured:          req.Featured,
		Status:            models.KBStatusPublished,
		Version:           1,
		CreatedByID:       userID,
		LastUpdatedByID:   &userID,
	}

	if err := s.kbRepo.Create(entry); err != nil {
		return nil, err
	}

	s.cache.InvalidateEntryLists()

	return s.kbRepo.GetByID(entry.ID)
}

// CreateFromAdminShortcut publishes a knowledge base entry straight from
// a query submission, self-approved by the admin who supplied the
// solution. No query row exists on this path.
func (s *knowledgeBaseService) CreateFromAdminShortcut(req models.CreateQueryRequest, adminID uint) (*models.KnowledgeBaseEntry, error) {
	now := time.Now()

	entry := &models.KnowledgeBaseEntry{
		Title:        req.Title,
		Content:      models.ContentBlocks{req.Solution.Content},
		Summary:      "Solution for: " + req.Title,
		Organization: req.Organization,
		Tags:         firstNonEmptyList(req.Tags),
		Cause:        req.Cause,
		Stage:        req.Stage,
		Status:       models.KBStatusPublished,
		Version:      1,
		Workflow: models.KnowledgeBaseWorkflow{
			SolutionProviderID: &adminID,
			ApprovedByID:       &adminID,
			ApprovalDate:       &now,
			AdminEdits:         req.Solution.ManagerNotes,
			WasEdited:          false,
			PublishedAt:        &now,
		},
		CreatedByID: adminID,
	}

	if err := s.kbRepo.Create(entry); err != nil {
		return nil, err
	}

	s.cache.InvalidateEntryLists()

	helper.GetLogger().WithFields(map[string]interface{}{
		"entry_id":   entry.ID,
		"created_by": adminID,
	}).Info("Knowledge base entry created via admin shortcut")

	return s.kbRepo.GetByID(entry.ID)
}

// PublishFromQuery materializes an approved query into a knowledge base
// entry carrying the full workflow provenance. The approver becomes the
// entry's author of record; the original author is preserved in
// workflow.solution_provider.
func (s *knowledgeBaseService) PublishFromQuery(query *models.Query, resolved resolvedSolution, req models.ReviewSolutionRequest, reviewerID uint) (*models.KnowledgeBaseEntry, error) {
	now := time.Now()
	providerID := resolved.ProviderID

	entry := &models.KnowledgeBaseEntry{
		Title:             firstNonEmpty(req.KnowledgeBaseTitle, query.Title, "Untitled"),
		Content:           models.ContentBlocks{resolved.Content},
		Summary:           firstNonEmpty(req.Summary, "Solution for: "+query.Title),
		Organization:      query.Organization,
		Tags:              firstNonEmptyList(req.Tags, query.Tags),
		SearchKeywords:    firstNonEmptyList(req.SearchKeywords),
		AlternativeTitles: firstNonEmptyList(req.AlternativeTitles),
		Cause:             query.Cause,
		Stage:             query.Stage,
		Status:            models.KBStatusPublished,
		Version:           1,
		Workflow: models.KnowledgeBaseWorkflow{
			SourceQueryID:      &query.ID,
			SolutionProviderID: &providerID,
			OriginalSolution:   query.AdminReview.OriginalSolution,
			OriginalAnswers:    query.AdminReview.OriginalAnswers,
			ApprovedByID:       &reviewerID,
			ApprovalDate:       &now,
			AdminEdits:         req.AdminNotes,
			WasEdited:          query.AdminReview.WasEdited,
			PublishedAt:        &now,
		},
		CreatedByID: reviewerID,
	}

	if err := s.kbRepo.Create(entry); err != nil {
		return nil, err
	}

	s.cache.InvalidateEntryLists()

	return entry, nil
}

func (s *knowledgeBaseService) GetByID(id uint) (*models.KnowledgeBaseEntry, error) {
	entry, err := s.kbRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Knowledge base entry not found")
	}

	if err := s.kbRepo.TouchViews(id); err != nil {
		return nil, err
	}

	now := time.Now()
	entry.Metrics.Views++
	entry.Metrics.LastAccessed = &now

	return entry, nil
}

func (s *knowledgeBaseService) GetList(params models.KnowledgeBaseListParams) ([]models.KnowledgeBaseEntry, int64, error) {
	return s.kbRepo.GetList(params)
}

func (s *knowledgeBaseService) Update(id uint, req models.UpdateKnowledgeBaseRequest, userID uint, role models.UserRole) (*models.KnowledgeBaseEntry, error) {
	if !role.Privileged() {
		return nil, models.ErrorForbidden{Message: "Insufficient permissions to update knowledge base"}
	}

	entry, err := s.kbRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Knowledge base entry not found")
	}

	if req.Title != "" {
		entry.Title = req.Title
	}
	if req.Content != nil {
		entry.Content = models.ContentBlocks(req.Content)
	}
	if req.Summary != "" {
		entry.Summary = req.Summary
	}
	if req.Organization != "" {
		entry.Organization = req.Organization
	}
	if req.Tags != nil {
		entry.Tags = models.StringArray(req.Tags)
	}
	if req.SearchKeywords != nil {
		entry.SearchKeywords = models.StringArray(req.SearchKeywords)
	}
	if req.AlternativeTitles != nil {
		entry.AlternativeTitles = models.StringArray(req.AlternativeTitles)
	}
	if req.Status != "" {
		entry.Status = req.Status
	}
	if req.Featured != nil {
		entry.Featured = *req.Featured
	}
	if req.Cause != "" {
		entry.Cause = req.Cause
	}
	if req.Stage != "" {
		entry.Stage = req.Stage
	}

	entry.Version++
	entry.LastUpdatedByID = &userID

	if err := s.kbRepo.Update(entry); err != nil {
		return nil, err
	}

	s.cache.InvalidateEntryLists()

	return s.kbRepo.GetByID(id)
}

func (s *knowledgeBaseService) Delete(id uint, role models.UserRole) error {
	if role != models.RoleAdmin {
		return models.ErrorForbidden{Message: "Only admins can delete knowledge base entries"}
	}

	if _, err := s.kbRepo.GetByID(id); err != nil {
		return notFoundOr(err, "Knowledge base entry not found")
	}

	if err := s.kbRepo.Delete(id); err != nil {
		return err
	}

	s.cache.InvalidateEntryLists()

	return nil
}

func (s *knowledgeBaseService) Search(params models.KnowledgeBaseSearchParams) (*SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = 20
	}

	entries, err := s.kbRepo.Search(params)
	if err != nil {
		return nil, err
	}

	// Every returned entry counts as one search hit.
	ids := make([]uint, 0, len(entries))
	for i := range entries {
		ids = append(ids, entries[i].ID)
	}
	if err := s.kbRepo.IncrementSearchCounts(ids); err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Metrics.Searches++
	}

	return &SearchResult{
		Results: entries,
		Query:   params.Query,
		Count:   len(entries),
	}, nil
}

func (s *knowledgeBaseService) Rate(id uint, req models.RateKnowledgeBaseRequest, userID uint) (*models.KnowledgeBaseEntry, error) {
	if req.Rating != nil && (*req.Rating < 1 || *req.Rating > 5) {
		return nil, models.ErrorValidation{Message: "Rating must be between 1 and 5"}
	}

	entry, err := s.kbRepo.GetByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Knowledge base entry not found")
	}

	if req.Rating == nil {
		return entry, nil
	}

	// At most one rating per user: re-rating replaces the prior row,
	// timestamp included.
	rating := models.KnowledgeBaseRating{
		EntryID:   entry.ID,
		UserID:    userID,
		Rating:    *req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	for _, existing := range entry.Ratings {
		if existing.UserID == userID {
			rating.ID = existing.ID
			break
		}
	}

	if err := s.kbRepo.SaveRating(&rating); err != nil {
		return nil, err
	}

	return s.kbRepo.GetByID(id)
}

func (s *knowledgeBaseService) MarkHelpful(id uint, helpful bool) (*models.KnowledgeBaseMetrics, error) {
	if _, err := s.kbRepo.GetByID(id); err != nil {
		return nil, notFoundOr(err, "Knowledge base entry not found")
	}

	if err := s.kbRepo.IncrementHelpful(id, helpful); err != nil {
		return nil, err
	}

	entry, err := s.kbRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	return &entry.Metrics, nil
}

func (s *knowledgeBaseService) GetFeatured(organization string, limit int) ([]models.KnowledgeBaseEntry, error) {
	if limit <= 0 {
		limit = 5
	}

	key := cache.FeaturedKey(organization, limit)
	var cached []models.KnowledgeBaseEntry
	err := s.cache.Get(key, &cached)
	if err == nil {
		return cached, nil
	}
	if !cache.IsMiss(err) {
		helper.GetLogger().WithError(err).Warn("Failed to read cached featured entries")
	}

	entries, err := s.kbRepo.GetFeatured(organization, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, entries, listCacheTTL); err != nil {
		helper.GetLogger().WithError(err).Warn("Failed to cache featured entries")
	}

	return entries, nil
}

func (s *knowledgeBaseService) GetPopular(organization string, days, limit int) ([]models.KnowledgeBaseEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	key := cache.PopularKey(organization, days, limit)
	var cached []models.KnowledgeBaseEntry
	err := s.cache.Get(key, &cached)
	if err == nil {
		return cached, nil
	}
	if !cache.IsMiss(err) {
		helper.GetLogger().WithError(err).Warn("Failed to read cached popular entries")
	}

	entries, err := s.kbRepo.GetPopular(organization, days, limit)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, entries, listCacheTTL); err != nil {
		helper.GetLogger().WithError(err).Warn("Failed to cache popular entries")
	}

	return entries, nil
}

func (s *knowledgeBaseService) Stats() (*KnowledgeBaseStats, error) {
	statusCounts, err := s.kbRepo.StatusCounts()
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

	totals, err := s.kbRepo.Totals()
	if err != nil {
		return nil, err
	}
	overall["featured"] = totals.Featured
	overall["total_views"] = totals.TotalViews
	overall["total_ratings"] = totals.TotalRatings

	byOrganization, err := s.kbRepo.CountByOrganization()
	if err != nil {
		return nil, err
	}

	return &KnowledgeBaseStats{
		Overall:        overall,
		ByOrganization: byOrganization,
	}, nil
}

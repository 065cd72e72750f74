package repositories

import (
	"fmt"
	"strings"
	"time"

	"srs-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type KnowledgeBaseRepository interface {
	Create(entry *models.KnowledgeBaseEntry) error
	GetByID(id uint) (*models.KnowledgeBaseEntry, error)
	GetList(params models.KnowledgeBaseListParams) ([]models.KnowledgeBaseEntry, int64, error)
	Update(entry *models.KnowledgeBaseEntry) error
	Delete(id uint) error
	Search(params models.KnowledgeBaseSearchParams) ([]models.KnowledgeBaseEntry, error)
	IncrementSearchCounts(ids []uint) error
	IncrementHelpful(id uint, helpful bool) error
	TouchViews(id uint) error
	SaveRating(rating *models.KnowledgeBaseRating) error
	GetFeatured(organization string, limit int) ([]models.KnowledgeBaseEntry, error)
	GetPopular(organization string, days, limit int) ([]models.KnowledgeBaseEntry, error)
	StatusCounts() ([]models.StatusCount, error)
	Totals() (models.KnowledgeBaseTotals, error)
	CountByOrganization() ([]models.OrganizationCount, error)
}

type knowledgeBaseRepository struct {
	db *gorm.DB
}

func NewKnowledgeBaseRepository(db *gorm.DB) KnowledgeBaseRepository {
	return &knowledgeBaseRepository{db: db}
}

func (r *knowledgeBaseRepository) Create(entry *models.KnowledgeBaseEntry) error {
	return r.db.Create(entry).Error
}

func (r *knowledgeBaseRepository) GetByID(id uint) (*models.KnowledgeBaseEntry, error) {
	var entry models.KnowledgeBaseEntry
	err := r.db.Preload("CreatedBy").
		Preload("Ratings").
		First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// searchVector is the expression the full-text index and queries share.
const searchVector = "to_tsvector('english', coalesce(title, '') || ' ' || coalesce(summary, '') || ' ' || " +
	"coalesce(content::text, '') || ' ' || array_to_string(tags, ' ') || ' ' || " +
	"array_to_string(search_keywords, ' ') || ' ' || array_to_string(alternative_titles, ' '))"

func applyOrganizationFilter(query *gorm.DB, organization string) *gorm.DB {
	if organization != "" && organization != models.OrganizationAll {
		query = query.Where("organization IN ?", []string{organization, models.OrganizationAll})
	}
	return query
}

func (r *knowledgeBaseRepository) GetList(params models.KnowledgeBaseListParams) ([]models.KnowledgeBaseEntry, int64, error) {
	var entries []models.KnowledgeBaseEntry
	var total int64

	query := r.db.Model(&models.KnowledgeBaseEntry{}).Preload("CreatedBy")

	query = applyOrganizationFilter(query, params.Organization)
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Featured != nil {
		query = query.Where("featured = ?", *params.Featured)
	}
	if params.Tags != "" {
		tagArray := models.StringArray(strings.Split(params.Tags, ","))
		query = query.Where("tags && ?::text[]", tagArray)
	}
	if params.Search != "" {
		query = query.Where(searchVector+" @@ plainto_tsquery('english', ?)", params.Search)
	}

	query.Count(&total)

	if params.Search != "" {
		query = query.Clauses(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(" + searchVector + ", plainto_tsquery('english', ?)) DESC",
			Vars:               []interface{}{params.Search},
			WithoutParentheses: true,
		}})
	} else {
		sortBy := params.SortBy
		if sortBy == "" {
			sortBy = "created_at"
		}
		sortOrder := params.SortOrder
		if sortOrder != "asc" {
			sortOrder = "desc"
		}
		query = query.Order(fmt.Sprintf("knowledge_base_entries.%s %s", sortBy, sortOrder))
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Offset(offset).Limit(params.Limit).Find(&entries).Error

	return entries, total, err
}

func (r *knowledgeBaseRepository) Update(entry *models.KnowledgeBaseEntry) error {
	return r.db.Omit("Ratings", "CreatedBy").Save(entry).Error
}

func (r *knowledgeBaseRepository) Delete(id uint) error {
	return r.db.Delete(&models.KnowledgeBaseEntry{}, id).Error
}

func (r *knowledgeBaseRepository) Search(params models.KnowledgeBaseSearchParams) ([]models.KnowledgeBaseEntry, error) {
	var entries []models.KnowledgeBaseEntry

	query := r.db.Model(&models.KnowledgeBaseEntry{}).
		Preload("CreatedBy").
		Where("status = ?", models.KBStatusPublished)

	if q := strings.TrimSpace(params.Query); q != "" {
		pattern := "%" + q + "%"
		query = query.Where(
			"title ILIKE ? OR summary ILIKE ? OR array_to_string(tags, ',') ILIKE ? OR array_to_string(search_keywords, ',') ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	query = applyOrganizationFilter(query, params.Organization)
	if params.Tags != "" {
		tagArray := models.StringArray(strings.Split(params.Tags, ","))
		query = query.Where("tags && ?::text[]", tagArray)
	}

	err := query.Order("metrics_views DESC, created_at DESC").
		Limit(params.Limit).
		Find(&entries).Error

	return entries, err
}

func (r *knowledgeBaseRepository) IncrementSearchCounts(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.KnowledgeBaseEntry{}).
		Where("id IN ?", ids).
		Update("metrics_searches", gorm.Expr("metrics_searches + 1")).Error
}

func (r *knowledgeBaseRepository) IncrementHelpful(id uint, helpful bool) error {
	column := "metrics_helpful"
	if !helpful {
		column = "metrics_not_helpful"
	}
	return r.db.Model(&models.KnowledgeBaseEntry{}).
		Where("id = ?", id).
		Update(column, gorm.Expr(column+" + 1")).Error
}

func (r *knowledgeBaseRepository) TouchViews(id uint) error {
	return r.db.Model(&models.KnowledgeBaseEntry{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"metrics_views":         gorm.Expr("metrics_views + 1"),
			"metrics_last_accessed": time.Now(),
		}).Error
}

func (r *knowledgeBaseRepository) SaveRating(rating *models.KnowledgeBaseRating) error {
	return r.db.Save(rating).Error
}

func (r *knowledgeBaseRepository) GetFeatured(organization string, limit int) ([]models.KnowledgeBaseEntry, error) {
	var entries []models.KnowledgeBaseEntry

	query := r.db.Model(&models.KnowledgeBaseEntry{}).
		Preload("CreatedBy").
		Where("status = ? AND featured = ?", models.KBStatusPublished, true)

	query = applyOrganizationFilter(query, organization)

	err := query.Order("metrics_views DESC, created_at DESC").
		Limit(limit).
		Find(&entries).Error

	return entries, err
}

func (r *knowledgeBaseRepository) GetPopular(organization string, days, limit int) ([]models.KnowledgeBaseEntry, error) {
	var entries []models.KnowledgeBaseEntry

	query := r.db.Model(&models.KnowledgeBaseEntry{}).
		Preload("CreatedBy").
		Where("status = ?", models.KBStatusPublished)

	query = applyOrganizationFilter(query, organization)
	if days > 0 {
		query = query.Where("created_at >= ?", time.Now().AddDate(0, 0, -days))
	}

	err := query.Order("metrics_views DESC, metrics_helpful DESC").
		Limit(limit).
		Find(&entries).Error

	return entries, err
}

func (r *knowledgeBaseRepository) StatusCounts() ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := r.db.Model(&models.KnowledgeBaseEntry{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *knowledgeBaseRepository) Totals() (models.KnowledgeBaseTotals, error) {
	var totals models.KnowledgeBaseTotals
	err := r.db.Model(&models.KnowledgeBaseEntry{}).
		Select("COUNT(*) FILTER (WHERE featured) as featured, COALESCE(SUM(metrics_views), 0) as total_views").
		Scan(&totals).Error
	if err != nil {
		return totals, err
	}

	err = r.db.Model(&models.KnowledgeBaseRating{}).Count(&totals.TotalRatings).Error
	return totals, err
}

func (r *knowledgeBaseRepository) CountByOrganization() ([]models.OrganizationCount, error) {
	var counts []models.OrganizationCount
	err := r.db.Model(&models.KnowledgeBaseEntry{}).
		Select("organization, COUNT(*) as count, COALESCE(SUM(metrics_views), 0) as views").
		Group("organization").
		Scan(&counts).Error
	return counts, err
}

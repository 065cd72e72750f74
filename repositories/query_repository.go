package repositories

import (
	"fmt"

	"srs-backend/models"

	"gorm.io/gorm"
)

type QueryRepository interface {
	Create(query *models.Query) error
	GetByID(id uint) (*models.Query, error)
	GetList(params models.QueryListParams) ([]models.Query, int64, error)
	Update(query *models.Query) error
	Delete(id uint) error
	AddAnswer(answer *models.QueryAnswer) error
	AddComment(comment *models.QueryComment) error
	IncrementViews(id uint) error
	StatusCounts() ([]models.StatusCount, error)
	CountByOrganization() ([]models.OrganizationCount, error)
}

type queryRepository struct {
	db *gorm.DB
}

func NewQueryRepository(db *gorm.DB) QueryRepository {
	return &queryRepository{db: db}
}

func (r *queryRepository) Create(query *models.Query) error {
	return r.db.Create(query).Error
}

func (r *queryRepository) GetByID(id uint) (*models.Query, error) {
	var query models.Query
	err := r.db.Preload("SubmittedBy").
		Preload("Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("query_answers.id asc")
		}).
		Preload("Answers.ProvidedBy").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("query_comments.id asc")
		}).
		Preload("Comments.User").
		Preload("KnowledgeBaseEntry").
		First(&query, id).Error
	if err != nil {
		return nil, err
	}
	return &query, nil
}

func (r *queryRepository) GetList(params models.QueryListParams) ([]models.Query, int64, error) {
	var queries []models.Query
	var total int64

	query := r.db.Model(&models.Query{}).Preload("SubmittedBy")

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Organization != "" {
		query = query.Where("organization = ?", params.Organization)
	}
	if params.SubmittedBy > 0 {
		query = query.Where("submitted_by_id = ?", params.SubmittedBy)
	}
	if params.Search != "" {
		pattern := "%" + params.Search + "%"
		query = query.Where(
			"title ILIKE ? OR cause ILIKE ? OR stage ILIKE ? OR array_to_string(tags, ',') ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	query.Count(&total)

	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	sortOrder := params.SortOrder
	if sortOrder != "asc" {
		sortOrder = "desc"
	}

	offset := (params.Page - 1) * params.Limit
	err := query.Order(fmt.Sprintf("queries.%s %s", sortBy, sortOrder)).
		Offset(offset).
		Limit(params.Limit).
		Find(&queries).Error

	return queries, total, err
}

func (r *queryRepository) Update(query *models.Query) error {
	return r.db.Omit("Answers", "Comments", "SubmittedBy", "KnowledgeBaseEntry").
		Save(query).Error
}

func (r *queryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Query{}, id).Error
}

func (r *queryRepository) AddAnswer(answer *models.QueryAnswer) error {
	return r.db.Create(answer).Error
}

func (r *queryRepository) AddComment(comment *models.QueryComment) error {
	return r.db.Create(comment).Error
}

func (r *queryRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Query{}).
		Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *queryRepository) StatusCounts() ([]models.StatusCount, error) {
	var counts []models.StatusCount
	err := r.db.Model(&models.Query{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&counts).Error
	return counts, err
}

func (r *queryRepository) CountByOrganization() ([]models.OrganizationCount, error) {
	var counts []models.OrganizationCount
	err := r.db.Model(&models.Query{}).
		Select("organization, COUNT(*) as count, COALESCE(SUM(views), 0) as views").
		Group("organization").
		Scan(&counts).Error
	return counts, err
}

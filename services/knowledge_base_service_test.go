package services

import (
	"strings"
	"testing"
	"time"

	"srs-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeKBRepo is an in-memory KnowledgeBaseRepository. Ratings live in a
// separate log keyed by entry, mirroring the child table.
type fakeKBRepo struct {
	entries      map[uint]models.KnowledgeBaseEntry
	ratings      map[uint][]models.KnowledgeBaseRating
	nextID       uint
	nextRatingID uint
}

func newFakeKBRepo() *fakeKBRepo {
	return &fakeKBRepo{
		entries: map[uint]models.KnowledgeBaseEntry{},
		ratings: map[uint][]models.KnowledgeBaseRating{},
	}
}

func (r *fakeKBRepo) Create(entry *models.KnowledgeBaseEntry) error {
	r.nextID++
	entry.ID = r.nextID
	stored := *entry
	stored.Ratings = nil
	r.entries[entry.ID] = stored
	return nil
}

func (r *fakeKBRepo) GetByID(id uint) (*models.KnowledgeBaseEntry, error) {
	stored, ok := r.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	stored.Ratings = append([]models.KnowledgeBaseRating(nil), r.ratings[id]...)
	return &stored, nil
}

func (r *fakeKBRepo) GetList(params models.KnowledgeBaseListParams) ([]models.KnowledgeBaseEntry, int64, error) {
	var out []models.KnowledgeBaseEntry
	for _, e := range r.entries {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *fakeKBRepo) Update(entry *models.KnowledgeBaseEntry) error {
	if _, ok := r.entries[entry.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	stored := *entry
	stored.Ratings = nil
	r.entries[entry.ID] = stored
	return nil
}

func (r *fakeKBRepo) Delete(id uint) error {
	delete(r.entries, id)
	return nil
}

func (r *fakeKBRepo) Search(params models.KnowledgeBaseSearchParams) ([]models.KnowledgeBaseEntry, error) {
	var out []models.KnowledgeBaseEntry
	for _, e := range r.entries {
		if e.Status != models.KBStatusPublished {
			continue
		}
		if params.Query != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(params.Query)) {
			continue
		}
		out = append(out, e)
		if len(out) >= params.Limit {
			break
		}
	}
	return out, nil
}

func (r *fakeKBRepo) IncrementSearchCounts(ids []uint) error {
	for _, id := range ids {
		e := r.entries[id]
		e.Metrics.Searches++
		r.entries[id] = e
	}
	return nil
}

func (r *fakeKBRepo) IncrementHelpful(id uint, helpful bool) error {
	e, ok := r.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if helpful {
		e.Metrics.Helpful++
	} else {
		e.Metrics.NotHelpful++
	}
	r.entries[id] = e
	return nil
}

func (r *fakeKBRepo) TouchViews(id uint) error {
	e, ok := r.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	now := time.Now()
	e.Metrics.Views++
	e.Metrics.LastAccessed = &now
	r.entries[id] = e
	return nil
}

func (r *fakeKBRepo) SaveRating(rating *models.KnowledgeBaseRating) error {
	existing := r.ratings[rating.EntryID]
	if rating.ID != 0 {
		for i := range existing {
			if existing[i].ID == rating.ID {
				existing[i] = *rating
				return nil
			}
		}
	}
	r.nextRatingID++
	rating.ID = r.nextRatingID
	r.ratings[rating.EntryID] = append(existing, *rating)
	return nil
}

func (r *fakeKBRepo) GetFeatured(organization string, limit int) ([]models.KnowledgeBaseEntry, error) {
	var out []models.KnowledgeBaseEntry
	for _, e := range r.entries {
		if e.Featured && e.Status == models.KBStatusPublished {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeKBRepo) GetPopular(organization string, days, limit int) ([]models.KnowledgeBaseEntry, error) {
	var out []models.KnowledgeBaseEntry
	for _, e := range r.entries {
		if e.Status == models.KBStatusPublished {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeKBRepo) StatusCounts() ([]models.StatusCount, error) {
	counts := map[string]int64{}
	for _, e := range r.entries {
		counts[string(e.Status)]++
	}
	var out []models.StatusCount
	for status, count := range counts {
		out = append(out, models.StatusCount{Status: status, Count: count})
	}
	return out, nil
}

func (r *fakeKBRepo) Totals() (models.KnowledgeBaseTotals, error) {
	var totals models.KnowledgeBaseTotals
	for _, e := range r.entries {
		if e.Featured {
			totals.Featured++
		}
		totals.TotalViews += int64(e.Metrics.Views)
	}
	for _, rs := range r.ratings {
		totals.TotalRatings += int64(len(rs))
	}
	return totals, nil
}

func (r *fakeKBRepo) CountByOrganization() ([]models.OrganizationCount, error) {
	counts := map[string]int64{}
	for _, e := range r.entries {
		counts[e.Organization]++
	}
	var out []models.OrganizationCount
	for org, count := range counts {
		out = append(out, models.OrganizationCount{Organization: org, Count: count})
	}
	return out, nil
}

func newTestKBService() (KnowledgeBaseService, *fakeKBRepo) {
	repo := newFakeKBRepo()
	return NewKnowledgeBaseService(repo, nil), repo
}

func createEntry(t *testing.T, svc KnowledgeBaseService) *models.KnowledgeBaseEntry {
	t.Helper()
	entry, err := svc.Create(models.CreateKnowledgeBaseRequest{
		Title:        "Resetting two factor auth",
		Content:      []string{"Open settings", "Disable and re-enable 2FA"},
		Organization: "ACME",
		Tags:         []string{"auth", "2fa"},
	}, 7)
	require.NoError(t, err)
	return entry
}

func TestCreateDirectEntryHasEmptyWorkflow(t *testing.T) {
	svc, _ := newTestKBService()

	entry := createEntry(t, svc)

	assert.Equal(t, models.KBStatusPublished, entry.Status)
	assert.Equal(t, 1, entry.Version)
	assert.Equal(t, uint(7), entry.CreatedByID)
	assert.False(t, entry.FromWorkflow())
	assert.Nil(t, entry.Workflow.ApprovedByID)
}

func TestGetByIDBumpsViewMetrics(t *testing.T) {
	svc, repo := newTestKBService()
	entry := createEntry(t, svc)

	fetched, err := svc.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, fetched.Metrics.Views)
	assert.NotNil(t, fetched.Metrics.LastAccessed)

	fetched, err = svc.GetByID(entry.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, fetched.Metrics.Views)
	assert.Equal(t, 2, repo.entries[entry.ID].Metrics.Views)
}

func TestUpdateBumpsVersionAndRequiresPrivilege(t *testing.T) {
	svc, _ := newTestKBService()
	entry := createEntry(t, svc)

	_, err := svc.Update(entry.ID, models.UpdateKnowledgeBaseRequest{Title: "New title here"}, 3, models.RoleSalesExecutive)
	assert.IsType(t, models.ErrorForbidden{}, err)

	updated, err := svc.Update(entry.ID, models.UpdateKnowledgeBaseRequest{Title: "New title here"}, 3, models.RoleManager)
	require.NoError(t, err)

	assert.Equal(t, "New title here", updated.Title)
	assert.Equal(t, 2, updated.Version)
	assert.Equal(t, uint(3), *updated.LastUpdatedByID)
}

func TestDeleteIsAdminOnly(t *testing.T) {
	svc, repo := newTestKBService()
	entry := createEntry(t, svc)

	err := svc.Delete(entry.ID, models.RoleManager)
	assert.IsType(t, models.ErrorForbidden{}, err)

	err = svc.Delete(entry.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Empty(t, repo.entries)
}

func TestSearchIncrementsSearchCounters(t *testing.T) {
	svc, repo := newTestKBService()
	entry := createEntry(t, svc)

	result, err := svc.Search(models.KnowledgeBaseSearchParams{Query: "two factor", Limit: 10})
	require.NoError(t, err)

	require.Equal(t, 1, result.Count)
	assert.Equal(t, "two factor", result.Query)
	assert.Equal(t, 1, result.Results[0].Metrics.Searches)
	assert.Equal(t, 1, repo.entries[entry.ID].Metrics.Searches)

	miss, err := svc.Search(models.KnowledgeBaseSearchParams{Query: "unrelated", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 0, miss.Count)
	assert.Equal(t, 1, repo.entries[entry.ID].Metrics.Searches)
}

func TestRateUpsertsPerUser(t *testing.T) {
	svc, repo := newTestKBService()
	entry := createEntry(t, svc)

	four := 4
	rated, err := svc.Rate(entry.ID, models.RateKnowledgeBaseRequest{Rating: &four}, 11)
	require.NoError(t, err)
	require.Len(t, rated.Ratings, 1)
	assert.Equal(t, 4, rated.Ratings[0].Rating)

	// Re-rating by the same user replaces the prior row.
	two := 2
	rated, err = svc.Rate(entry.ID, models.RateKnowledgeBaseRequest{Rating: &two, Comment: "outdated"}, 11)
	require.NoError(t, err)
	require.Len(t, rated.Ratings, 1)
	assert.Equal(t, 2, rated.Ratings[0].Rating)
	assert.Equal(t, "outdated", rated.Ratings[0].Comment)

	// A different user adds a second row.
	five := 5
	rated, err = svc.Rate(entry.ID, models.RateKnowledgeBaseRequest{Rating: &five}, 12)
	require.NoError(t, err)
	assert.Len(t, rated.Ratings, 2)
	assert.Len(t, repo.ratings[entry.ID], 2)
}

func TestRateValidatesRange(t *testing.T) {
	svc, _ := newTestKBService()
	entry := createEntry(t, svc)

	zero := 0
	_, err := svc.Rate(entry.ID, models.RateKnowledgeBaseRequest{Rating: &zero}, 11)
	assert.IsType(t, models.ErrorValidation{}, err)

	six := 6
	_, err = svc.Rate(entry.ID, models.RateKnowledgeBaseRequest{Rating: &six}, 11)
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestRateWithoutRatingIsNoOp(t *testing.T) {
	svc, repo := newTestKBService()
	entry := createEntry(t, svc)

	rated, err := svc.Rate(entry.ID, models.RateKnowledgeBaseRequest{Comment: "just a note"}, 11)
	require.NoError(t, err)

	assert.Empty(t, rated.Ratings)
	assert.Empty(t, repo.ratings[entry.ID])
}

func TestMarkHelpfulCountsEveryCall(t *testing.T) {
	svc, _ := newTestKBService()
	entry := createEntry(t, svc)

	metrics, err := svc.MarkHelpful(entry.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.Helpful)

	// No dedup: repeated feedback keeps counting.
	metrics, err = svc.MarkHelpful(entry.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.Helpful)

	metrics, err = svc.MarkHelpful(entry.ID, false)
	require.NoError(t, err)
	assert.Equal(t, 2, metrics.Helpful)
	assert.Equal(t, 1, metrics.NotHelpful)
}

func TestMarkHelpfulUnknownEntry(t *testing.T) {
	svc, _ := newTestKBService()

	_, err := svc.MarkHelpful(42, true)

	assert.IsType(t, models.ErrorNotFound{}, err)
}

func TestGetFeaturedFiltersFeaturedEntries(t *testing.T) {
	svc, _ := newTestKBService()
	createEntry(t, svc)

	featured, err := svc.Create(models.CreateKnowledgeBaseRequest{
		Title:        "Top onboarding checklist",
		Content:      []string{"Step one"},
		Organization: "ACME",
		Featured:     true,
	}, 7)
	require.NoError(t, err)

	entries, err := svc.GetFeatured("ACME", 5)
	require.NoError(t, err)

	require.Len(t, entries, 1)
	assert.Equal(t, featured.ID, entries[0].ID)
}

func TestStatsAggregatesByStatus(t *testing.T) {
	svc, _ := newTestKBService()
	createEntry(t, svc)
	entry := createEntry(t, svc)

	featured := true
	_, err := svc.Update(entry.ID, models.UpdateKnowledgeBaseRequest{Featured: &featured}, 7, models.RoleAdmin)
	require.NoError(t, err)

	// Two reads and one rating feed the aggregate totals.
	_, err = svc.GetByID(entry.ID)
	require.NoError(t, err)
	_, err = svc.GetByID(entry.ID)
	require.NoError(t, err)

	five := 5
	_, err = svc.Rate(entry.ID, models.RateKnowledgeBaseRequest{Rating: &five}, 11)
	require.NoError(t, err)

	stats, err := svc.Stats()
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.Overall["total"])
	assert.Equal(t, int64(2), stats.Overall["published"])
	assert.Equal(t, int64(1), stats.Overall["featured"])
	assert.Equal(t, int64(2), stats.Overall["total_views"])
	assert.Equal(t, int64(1), stats.Overall["total_ratings"])
	require.Len(t, stats.ByOrganization, 1)
	assert.Equal(t, "ACME", stats.ByOrganization[0].Organization)
}

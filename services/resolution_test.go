package services

import (
	"testing"

	"srs-backend/models"

	"github.com/stretchr/testify/assert"
)

func TestResolveSolutionPrefersEditedContent(t *testing.T) {
	providerID := uint(2)
	query := &models.Query{
		Solution: models.Solution{Content: "manager solution", ProvidedByID: &providerID},
		Answers:  []models.QueryAnswer{{Content: "first answer", ProvidedByID: 3}},
	}

	resolved, err := resolveSolution(query, "admin rewrite", 9)

	assert.NoError(t, err)
	assert.Equal(t, "admin rewrite", resolved.Content)
	assert.Equal(t, uint(9), resolved.ProviderID)
	assert.Equal(t, sourceEdited, resolved.Source)
}

func TestResolveSolutionWhitespaceEditIsNotAnOverride(t *testing.T) {
	providerID := uint(2)
	query := &models.Query{
		Solution: models.Solution{Content: "manager solution", ProvidedByID: &providerID},
	}

	resolved, err := resolveSolution(query, "   \n\t ", 9)

	assert.NoError(t, err)
	assert.Equal(t, "manager solution", resolved.Content)
	assert.Equal(t, uint(2), resolved.ProviderID)
	assert.Equal(t, sourceSolution, resolved.Source)
}

func TestResolveSolutionFallsBackToFirstAnswer(t *testing.T) {
	query := &models.Query{
		Answers: []models.QueryAnswer{
			{Content: "first answer", ProvidedByID: 3},
			{Content: "second answer", ProvidedByID: 4},
		},
	}

	resolved, err := resolveSolution(query, "", 9)

	assert.NoError(t, err)
	assert.Equal(t, "first answer", resolved.Content)
	assert.Equal(t, uint(3), resolved.ProviderID)
	assert.Equal(t, sourceAnswer, resolved.Source)
}

func TestResolveSolutionNoContentIsValidationError(t *testing.T) {
	query := &models.Query{}

	_, err := resolveSolution(query, "", 9)

	assert.Error(t, err)
	assert.IsType(t, models.ErrorValidation{}, err)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "override", firstNonEmpty("override", "fallback"))
	assert.Equal(t, "fallback", firstNonEmpty("", "fallback"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestFirstNonEmptyList(t *testing.T) {
	assert.Equal(t, models.StringArray{"a"}, firstNonEmptyList([]string{"a"}, []string{"b"}))
	assert.Equal(t, models.StringArray{"b"}, firstNonEmptyList(nil, []string{"b"}))
	assert.Equal(t, models.StringArray{}, firstNonEmptyList(nil, nil))
}

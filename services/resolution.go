package services

import (
	"strings"

	"srs-backend/models"
)

// solutionSource identifies which content won the resolution.
type solutionSource int

const (
	sourceEdited solutionSource = iota
	sourceSolution
	sourceAnswer
)

// resolvedSolution is the canonical content chosen at approval time.
type resolvedSolution struct {
	Content    string
	ProviderID uint
	Source     solutionSource
}

// resolveSolution picks the content that becomes canonical when a query
// is approved, by strict priority: a non-blank edited solution from the
// reviewer, then the query's current solution, then the first answer in
// the log. A whitespace-only edit does not count as an override.
func resolveSolution(query *models.Query, editedSolution string, reviewerID uint) (resolvedSolution, error) {
	if strings.TrimSpace(editedSolution) != "" {
		return resolvedSolution{
			Content:    editedSolution,
			ProviderID: reviewerID,
			Source:     sourceEdited,
		}, nil
	}

	if query.Solution.Content != "" {
		providerID := uint(0)
		if query.Solution.ProvidedByID != nil {
			providerID = *query.Solution.ProvidedByID
		}
		return resolvedSolution{
			Content:    query.Solution.Content,
			ProviderID: providerID,
			Source:     sourceSolution,
		}, nil
	}

	if len(query.Answers) > 0 {
		first := query.Answers[0]
		return resolvedSolution{
			Content:    first.Content,
			ProviderID: first.ProvidedByID,
			Source:     sourceAnswer,
		}, nil
	}

	// Unreachable when the review precondition held.
	return resolvedSolution{}, models.ErrorValidation{Message: "No solution or answers provided for this query"}
}

// firstNonEmpty evaluates (override, fallback, ...) pairs top to bottom
// and returns the first non-empty value.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstNonEmptyList does the same for list-valued fields, defaulting to
// an empty list.
func firstNonEmptyList(lists ...[]string) models.StringArray {
	for _, l := range lists {
		if len(l) > 0 {
			return models.StringArray(l)
		}
	}
	return models.StringArray{}
}

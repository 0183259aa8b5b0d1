package dto

import (
	"fmt"
	"time"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// AnalyzeIssueRequest payload.
type AnalyzeIssueRequest struct {
	CustomerID  string         `json:"customer_id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	ProductArea string         `json:"product_area"`
	Tags        map[string]any `json:"tags"`
}

// UpdateIssueStatusRequest payload.
type UpdateIssueStatusRequest struct {
	Status             domain.IssueStatus `json:"status"`
	SatisfactionRating *int               `json:"satisfaction_rating"`
}

// IssueSummary response.
type IssueSummary struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer_id"`
	Title       string             `json:"title"`
	Category    string             `json:"category"`
	ProductArea string             `json:"product_area"`
	Severity    domain.Severity    `json:"severity"`
	Status      domain.IssueStatus `json:"status"`
	Priority    int                `json:"priority"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// IssueDetail response.
type IssueDetail struct {
	IssueSummary
	Description        string         `json:"description"`
	Tags               map[string]any `json:"tags"`
	ResolvedAt         *time.Time     `json:"resolved_at"`
	ResolutionHours    *float64       `json:"resolution_hours"`
	SatisfactionRating *int           `json:"satisfaction_rating"`
}

// SimilarIssueResponse response.
type SimilarIssueResponse struct {
	IssueID         string          `json:"issue_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Severity        domain.Severity `json:"severity"`
	SimilarityScore float64         `json:"similarity_score"`
	ResolutionHours float64         `json:"resolution_hours"`
}

// NewIssueSummary maps a domain issue.
func NewIssueSummary(issue *domain.Issue) IssueSummary {
	return IssueSummary{
		ID:          issue.ID,
		CustomerID:  issue.CustomerID,
		Title:       issue.Title,
		Category:    issue.Category,
		ProductArea: issue.ProductArea,
		Severity:    issue.Severity,
		Status:      issue.Status,
		Priority:    issue.Priority,
		CreatedAt:   issue.CreatedAt,
		UpdatedAt:   issue.UpdatedAt,
	}
}

// NewIssueDetail maps a domain issue with full fields.
func NewIssueDetail(issue *domain.Issue) IssueDetail {
	return IssueDetail{
		IssueSummary:       NewIssueSummary(issue),
		Description:        issue.Description,
		Tags:               TagsToJSON(issue.Tags),
		ResolvedAt:         issue.ResolvedAt,
		ResolutionHours:    issue.ResolutionHours,
		SatisfactionRating: issue.SatisfactionRating,
	}
}

// NewSimilarIssueResponse maps a similarity result.
func NewSimilarIssueResponse(match domain.SimilarIssue) SimilarIssueResponse {
	return SimilarIssueResponse{
		IssueID:         match.IssueID,
		Title:           match.Title,
		Description:     match.Description,
		Severity:        match.Severity,
		SimilarityScore: match.SimilarityScore,
		ResolutionHours: match.ResolutionHours,
	}
}

// TagsFromJSON converts a JSON object into typed tags. Unsupported value
// types are rejected rather than coerced.
func TagsFromJSON(raw map[string]any) (domain.Tags, error) {
	if len(raw) == 0 {
		return domain.Tags{}, nil
	}
	tags := make(domain.Tags, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case string:
			tags[key] = domain.StringTag(v)
		case bool:
			tags[key] = domain.BoolTag(v)
		case float64:
			// JSON numbers arrive as float64; keep integral values as ints.
			if v == float64(int64(v)) {
				tags[key] = domain.IntTag(int64(v))
			} else {
				tags[key] = domain.FloatTag(v)
			}
		default:
			return nil, fmt.Errorf("tag %q: unsupported value type %T", key, value)
		}
	}
	return tags, nil
}

// TagsToJSON flattens typed tags for responses.
func TagsToJSON(tags domain.Tags) map[string]any {
	out := make(map[string]any, len(tags))
	for key, tag := range tags {
		switch tag.Kind {
		case domain.TagKindString:
			out[key] = tag.String
		case domain.TagKindInt:
			out[key] = tag.Int
		case domain.TagKindFloat:
			out[key] = tag.Float
		case domain.TagKindBool:
			out[key] = tag.Bool
		}
	}
	return out
}

package dto

import (
	"time"

	"github.com/spec-kit/support-copilot/internal/domain"
)

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Company string              `json:"company"`
	Tier    domain.CustomerTier `json:"tier"`
}

// CustomerResponse response.
type CustomerResponse struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Email   string              `json:"email"`
	Company string              `json:"company"`
	Tier    domain.CustomerTier `json:"tier"`
}

// NewCustomerResponse maps a customer.
func NewCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:      customer.ID,
		Name:    customer.Name,
		Email:   customer.Email,
		Company: customer.Company,
		Tier:    customer.Tier,
	}
}

// IssueRefResponse is a compact issue reference.
type IssueRefResponse struct {
	ID        string             `json:"id"`
	Title     string             `json:"title"`
	Severity  domain.Severity    `json:"severity"`
	Status    domain.IssueStatus `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
}

// IssueStatsResponse response.
type IssueStatsResponse struct {
	TotalIssues      int        `json:"total_issues"`
	ResolvedIssues   int        `json:"resolved_issues"`
	OpenIssues       int        `json:"open_issues"`
	CriticalIssues   int        `json:"critical_issues"`
	HighIssues       int        `json:"high_issues"`
	RecentIssues     int        `json:"recent_issues"`
	AvgResolutionHrs float64    `json:"avg_resolution_hours"`
	AvgSatisfaction  *float64   `json:"avg_satisfaction,omitempty"`
	LastIssueAt      *time.Time `json:"last_issue_at,omitempty"`
}

// CustomerHistoryResponse response.
type CustomerHistoryResponse struct {
	Customer     CustomerResponse   `json:"customer"`
	Stats        IssueStatsResponse `json:"stats"`
	RecentIssues []IssueRefResponse `json:"recent_issues"`
	RiskLevel    domain.RiskLevel   `json:"risk_level"`
}

// NewCustomerHistoryResponse maps the derived history view.
func NewCustomerHistoryResponse(history *domain.CustomerHistory) CustomerHistoryResponse {
	recent := make([]IssueRefResponse, 0, len(history.RecentIssues))
	for _, ref := range history.RecentIssues {
		recent = append(recent, IssueRefResponse{
			ID:        ref.ID,
			Title:     ref.Title,
			Severity:  ref.Severity,
			Status:    ref.Status,
			CreatedAt: ref.CreatedAt,
		})
	}
	return CustomerHistoryResponse{
		Customer: CustomerResponse{
			ID:      history.Customer.ID,
			Name:    history.Customer.Name,
			Email:   history.Customer.Email,
			Company: history.Customer.Company,
			Tier:    history.Customer.Tier,
		},
		Stats: IssueStatsResponse{
			TotalIssues:      history.Stats.TotalIssues,
			ResolvedIssues:   history.Stats.ResolvedIssues,
			OpenIssues:       history.Stats.OpenIssues,
			CriticalIssues:   history.Stats.CriticalIssues,
			HighIssues:       history.Stats.HighIssues,
			RecentIssues:     history.Stats.RecentIssues,
			AvgResolutionHrs: history.Stats.AvgResolutionHrs,
			AvgSatisfaction:  history.Stats.AvgSatisfaction,
			LastIssueAt:      history.Stats.LastIssueAt,
		},
		RecentIssues: recent,
		RiskLevel:    history.RiskLevel,
	}
}

package domain

import "time"

// RiskLevel buckets a customer's issue history.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// IssueStats aggregates a customer's issue counts. Computed fresh from the
// store or served from cache; never stored as its own record.
type IssueStats struct {
	TotalIssues      int        `json:"total_issues"`
	ResolvedIssues   int        `json:"resolved_issues"`
	OpenIssues       int        `json:"open_issues"`
	CriticalIssues   int        `json:"critical_issues"`
	HighIssues       int        `json:"high_issues"`
	RecentIssues     int        `json:"recent_issues"` // rolling 30-day window
	AvgResolutionHrs float64    `json:"avg_resolution_hours"`
	AvgSatisfaction  *float64   `json:"avg_satisfaction,omitempty"`
	LastIssueAt      *time.Time `json:"last_issue_at,omitempty"`
}

// IssueRef is a compact issue reference for recent-issue listings.
type IssueRef struct {
	ID        string
	Title     string
	Severity  Severity
	Status    IssueStatus
	CreatedAt time.Time
}

// CustomerHistory is the derived view over a customer's issues used by the
// triage pipeline and the customer-history endpoint.
type CustomerHistory struct {
	Customer     Customer
	Stats        IssueStats
	RecentIssues []IssueRef
	RiskLevel    RiskLevel
}

// CustomerRiskRow is one entry of the dashboard risk-analysis report.
type CustomerRiskRow struct {
	CustomerID   string       `json:"customer_id"`
	CustomerName string       `json:"customer_name"`
	Company      string       `json:"company"`
	Tier         CustomerTier `json:"tier"`
	Stats        IssueStats   `json:"stats"`
	RiskScore    float64      `json:"risk_score"`
	RiskLevel    RiskLevel    `json:"risk_level"`
}

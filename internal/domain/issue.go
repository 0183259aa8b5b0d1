package domain

import "time"

// Severity classifies issue impact, ordered Low < Normal < High < Critical.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityNormal   Severity = "Normal"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// severityRank orders severities for comparisons.
var severityRank = map[Severity]int{
	SeverityLow:      0,
	SeverityNormal:   1,
	SeverityHigh:     2,
	SeverityCritical: 3,
}

// Valid reports whether the severity is one of the fixed levels.
func (s Severity) Valid() bool {
	_, ok := severityRank[s]
	return ok
}

// AtLeast reports whether s is at or above the given level.
func (s Severity) AtLeast(other Severity) bool {
	return severityRank[s] >= severityRank[other]
}

// Severities lists all levels in ascending order.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityNormal, SeverityHigh, SeverityCritical}
}

// IssueStatus enumerates lifecycle states for issues.
type IssueStatus string

const (
	IssueStatusOpen       IssueStatus = "Open"
	IssueStatusInProgress IssueStatus = "In Progress"
	IssueStatusResolved   IssueStatus = "Resolved"
	IssueStatusClosed     IssueStatus = "Closed"
	IssueStatusEscalated  IssueStatus = "Escalated"
)

// Valid reports whether the status is a known state.
func (s IssueStatus) Valid() bool {
	switch s {
	case IssueStatusOpen, IssueStatusInProgress, IssueStatusResolved, IssueStatusClosed, IssueStatusEscalated:
		return true
	}
	return false
}

// Active reports whether the issue still needs attention.
func (s IssueStatus) Active() bool {
	return s == IssueStatusOpen || s == IssueStatusInProgress
}

// TagValueKind restricts the value types an issue tag may carry.
type TagValueKind string

const (
	TagKindString TagValueKind = "string"
	TagKindInt    TagValueKind = "int"
	TagKindFloat  TagValueKind = "float"
	TagKindBool   TagValueKind = "bool"
)

// TagValue is a single tag value with an explicit kind.
type TagValue struct {
	Kind   TagValueKind `json:"kind"`
	String string       `json:"string,omitempty"`
	Int    int64        `json:"int,omitempty"`
	Float  float64      `json:"float,omitempty"`
	Bool   bool         `json:"bool,omitempty"`
}

// StringTag builds a string-valued tag.
func StringTag(v string) TagValue { return TagValue{Kind: TagKindString, String: v} }

// IntTag builds an integer-valued tag.
func IntTag(v int64) TagValue { return TagValue{Kind: TagKindInt, Int: v} }

// FloatTag builds a float-valued tag.
func FloatTag(v float64) TagValue { return TagValue{Kind: TagKindFloat, Float: v} }

// BoolTag builds a boolean-valued tag.
func BoolTag(v bool) TagValue { return TagValue{Kind: TagKindBool, Bool: v} }

// Tags is the open-ended tag set attached to an issue.
type Tags map[string]TagValue

// Issue is the aggregate for customer support issues.
// ResolutionHours is set only while the issue is Resolved or Closed.
type Issue struct {
	ID              string
	CustomerID      string
	Title           string
	Description     string
	Category        string
	ProductArea     string
	Severity        Severity
	Status          IssueStatus
	Priority        int
	Tags            Tags
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ResolvedAt      *time.Time
	ResolutionHours *float64
	// SatisfactionRating is the 1-5 score collected after resolution.
	SatisfactionRating *int
}

// Age returns the time elapsed since the issue was created.
func (i *Issue) Age(now time.Time) time.Duration {
	return now.Sub(i.CreatedAt)
}

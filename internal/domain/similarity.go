package domain

// SimilarIssue is an ephemeral similarity-ranking result. It is returned to
// callers and may be mirrored best-effort into the similar_issues
// cross-reference table, but reads never depend on that table.
type SimilarIssue struct {
	IssueID         string
	Title           string
	Description     string // truncated for display
	Severity        Severity
	SimilarityScore float64
	ResolutionHours float64
}

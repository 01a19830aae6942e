package models

// ClaimType classifies an extracted factual claim.
type ClaimType string

const (
	// ClaimStatistical covers percentages, currency amounts, and multiples.
	ClaimStatistical ClaimType = "statistical"
	// ClaimQuote covers attributed statements.
	ClaimQuote ClaimType = "quote"
	// ClaimComparative covers rankings and comparisons.
	ClaimComparative ClaimType = "comparative"
)

// Claim is a factual assertion extracted from the article text.
// Claims exist only for the duration of a single fact-check pass.
type Claim struct {
	// Text is the claim itself.
	Text string `json:"text"`
	// Type is the claim classification.
	Type ClaimType `json:"type"`
	// Context is the full sentence the claim appeared in.
	Context string `json:"context"`
	// Citations indexes into the run's source list, if the judge matched any.
	Citations []int `json:"citations,omitempty"`
	// Verified records the judge's verdict.
	Verified bool `json:"verified"`
	// Note is the judge's one-line justification, if any.
	Note string `json:"note,omitempty"`
}

// ValidationIssue is a single problem found by a validator.
type ValidationIssue struct {
	// Check names the validator that raised the issue.
	Check string `json:"check"`
	// Detail describes what failed.
	Detail string `json:"detail"`
	// Severity is "error" (blocks approval) or "warning".
	Severity string `json:"severity"`
}

// Verdict is the combined output of the validation gate.
type Verdict struct {
	// Approved is true when the article may be published.
	Approved bool `json:"approved"`
	// Issues lists everything that must be fixed before approval.
	Issues []ValidationIssue `json:"issues,omitempty"`
	// ClaimsTotal is the number of claims checked.
	ClaimsTotal int `json:"claims_total"`
	// ClaimsVerified is the number of claims the judge confirmed.
	ClaimsVerified int `json:"claims_verified"`
}

// VerifiedRatio returns the share of verified claims, 1.0 when none exist.
func (v Verdict) VerifiedRatio() float64 {
	if v.ClaimsTotal == 0 {
		return 1.0
	}
	return float64(v.ClaimsVerified) / float64(v.ClaimsTotal)
}

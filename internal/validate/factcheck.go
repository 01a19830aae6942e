package validate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"

	"github.com/inksmith-ai/inksmith/internal/llm"
	"github.com/inksmith-ai/inksmith/internal/synthesis"
	"github.com/inksmith-ai/inksmith/pkg/models"
)

// VerdictCache stores per-claim judgments so revision rounds do not re-pay
// for claims the article kept.
type VerdictCache interface {
	// Get returns the cached verdict and whether the key was present.
	Get(ctx context.Context, key string) (verified bool, ok bool)
	// Set stores a verdict.
	Set(ctx context.Context, key string, verified bool)
}

// FactChecker combines claim extraction, an LLM judgment call, and the
// approval threshold into a single verdict.
type FactChecker struct {
	client *llm.Client
	cache  VerdictCache
	// minVerifiedRatio is the required share of verified claims.
	minVerifiedRatio float64
}

// NewFactChecker creates a fact checker. cache may be nil.
func NewFactChecker(client *llm.Client, cache VerdictCache, minVerifiedRatio float64) *FactChecker {
	if minVerifiedRatio <= 0 || minVerifiedRatio > 1 {
		minVerifiedRatio = 0.90
	}
	return &FactChecker{client: client, cache: cache, minVerifiedRatio: minVerifiedRatio}
}

const judgeSystemPrompt = `You are a rigorous fact checker for investment content.
You judge whether claims are supported by the supplied sources.
You respond with JSON only, no other text.`

const judgePromptTemplate = `Judge each claim against the sources.

Sources (numbered):
%s

Claims (numbered):
%s

For each claim decide whether the sources support it. A claim citing a
source is verified only if that source's excerpt is consistent with it.
A claim with no matching source content is unverified.

Respond with a JSON object:
{"verdicts": [{"claim": 1, "verified": true, "note": "one line"}, ...]}
Every claim number must appear exactly once.`

// judgeResponse is the JSON structure the judge returns.
type judgeResponse struct {
	Verdicts []struct {
		Claim    int    `json:"claim"`
		Verified bool   `json:"verified"`
		Note     string `json:"note"`
	} `json:"verdicts"`
}

// Check extracts claims from the article and produces an approval verdict.
// Approval requires the verified ratio to meet the configured threshold and
// every statistical claim to be supported.
func (fc *FactChecker) Check(ctx context.Context, article string, sources []models.Source) (*models.Verdict, error) {
	claims := ExtractClaims(article)
	if len(claims) == 0 {
		// Nothing checkable. An investment article without a single figure
		// is suspicious, so flag it rather than waving it through silently.
		return &models.Verdict{
			Approved: true,
			Issues: []models.ValidationIssue{{
				Check:    "factcheck",
				Detail:   "no checkable claims found in article",
				Severity: "warning",
			}},
		}, nil
	}

	// Resolve cached verdicts first.
	var pending []int
	for i := range claims {
		key := claimKey(claims[i])
		if fc.cache != nil {
			if verified, ok := fc.cache.Get(ctx, key); ok {
				claims[i].Verified = verified
				claims[i].Note = "cached"
				continue
			}
		}
		pending = append(pending, i)
	}
	log.Printf("[factcheck] %d claims, %d cached, %d to judge",
		len(claims), len(claims)-len(pending), len(pending))

	if len(pending) > 0 {
		if err := fc.judge(ctx, claims, pending, sources); err != nil {
			return nil, err
		}
	}

	return fc.verdict(claims), nil
}

// judge sends the pending claims to the LLM in one batch call and writes
// the results back into the claim slice and the cache.
func (fc *FactChecker) judge(ctx context.Context, claims []models.Claim, pending []int, sources []models.Source) error {
	var claimBlock strings.Builder
	for n, idx := range pending {
		fmt.Fprintf(&claimBlock, "%d. [%s] %s\n   Context: %s\n",
			n+1, claims[idx].Type, claims[idx].Text, claims[idx].Context)
	}

	prompt := fmt.Sprintf(judgePromptTemplate, synthesis.FormatSources(sources), claimBlock.String())

	resp, err := fc.client.Complete(ctx, llm.Request{
		System:    judgeSystemPrompt,
		Prompt:    prompt,
		MaxTokens: 4096,
		// The judge call benefits from deliberation on reasoning models.
		ReasoningEffort: llm.EffortMedium,
	})
	if err != nil {
		return fmt.Errorf("fact-check judgment: %w", err)
	}

	var parsed judgeResponse
	if err := llm.UnmarshalResponse(resp.Text, &parsed); err != nil {
		return fmt.Errorf("parse judge response: %w", err)
	}

	for _, v := range parsed.Verdicts {
		if v.Claim < 1 || v.Claim > len(pending) {
			continue
		}
		idx := pending[v.Claim-1]
		claims[idx].Verified = v.Verified
		claims[idx].Note = v.Note

		if fc.cache != nil {
			fc.cache.Set(ctx, claimKey(claims[idx]), v.Verified)
		}
	}

	return nil
}

// verdict folds per-claim results into the approval decision.
func (fc *FactChecker) verdict(claims []models.Claim) *models.Verdict {
	v := &models.Verdict{ClaimsTotal: len(claims)}

	for _, c := range claims {
		if c.Verified {
			v.ClaimsVerified++
			continue
		}

		severity := "warning"
		// Unsupported figures block publication outright.
		if c.Type == models.ClaimStatistical {
			severity = "error"
		}
		detail := fmt.Sprintf("unverified %s claim: %s", c.Type, c.Text)
		if c.Note != "" {
			detail += " (" + c.Note + ")"
		}
		v.Issues = append(v.Issues, models.ValidationIssue{
			Check:    "factcheck",
			Detail:   detail,
			Severity: severity,
		})
	}

	ratio := v.VerifiedRatio()
	if ratio < fc.minVerifiedRatio {
		v.Issues = append(v.Issues, models.ValidationIssue{
			Check:    "factcheck",
			Detail:   fmt.Sprintf("only %.0f%% of claims verified, need %.0f%%", ratio*100, fc.minVerifiedRatio*100),
			Severity: "error",
		})
	}

	v.Approved = !hasErrors(v.Issues)
	return v
}

// claimKey hashes a claim's text and context into a stable cache key.
func claimKey(c models.Claim) string {
	sum := sha256.Sum256([]byte(string(c.Type) + "|" + c.Text + "|" + c.Context))
	return "claim:" + hex.EncodeToString(sum[:16])
}

package validate

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

// URLChecker probes cited URLs for liveness.
type URLChecker struct {
	client  *http.Client
	timeout time.Duration
}

// NewURLChecker creates a checker with a per-request timeout.
func NewURLChecker(timeout time.Duration) *URLChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &URLChecker{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// Check probes each URL with HEAD, falling back to GET for servers that
// reject HEAD. Internal kb:// references are skipped. Status >= 400 or a
// transport error produces a warning issue; dead links do not block
// publication on their own.
func (u *URLChecker) Check(ctx context.Context, urls []string) []models.ValidationIssue {
	var issues []models.ValidationIssue

	for _, rawURL := range urls {
		if strings.HasPrefix(rawURL, "kb://") {
			continue
		}

		status, err := u.probe(ctx, rawURL)
		if err != nil {
			issues = append(issues, models.ValidationIssue{
				Check:    "urlcheck",
				Detail:   fmt.Sprintf("unreachable URL %s: %v", rawURL, err),
				Severity: "warning",
			})
			continue
		}
		if status >= 400 {
			issues = append(issues, models.ValidationIssue{
				Check:    "urlcheck",
				Detail:   fmt.Sprintf("URL %s returned status %d", rawURL, status),
				Severity: "warning",
			})
		}
	}

	log.Printf("[urlcheck] probed %d URLs, %d problems", len(urls), len(issues))
	return issues
}

func (u *URLChecker) probe(ctx context.Context, rawURL string) (int, error) {
	reqCtx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodHead, rawURL, nil)
	if err != nil {
		return 0, err
	}

	resp, err := u.client.Do(req)
	if err == nil {
		resp.Body.Close()
		// Some servers refuse HEAD outright; retry those with GET.
		if resp.StatusCode != http.StatusMethodNotAllowed && resp.StatusCode != http.StatusNotImplemented {
			return resp.StatusCode, nil
		}
	}

	getCtx, cancelGet := context.WithTimeout(ctx, u.timeout)
	defer cancelGet()

	req, err = http.NewRequestWithContext(getCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Range", "bytes=0-1023")

	resp, err = u.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}

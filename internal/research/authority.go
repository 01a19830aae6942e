package research

import (
	"net/url"
	"strings"

	"github.com/inksmith-ai/inksmith/pkg/models"
)

// Domain allow-lists for authority scoring. Matching is by suffix so
// subdomains inherit their parent's tier.
var (
	tier1Domains = []string{
		"sec.gov",
		"federalreserve.gov",
		"treasury.gov",
		"bls.gov",
		"imf.org",
		"worldbank.org",
		"bis.org",
		"ecb.europa.eu",
	}
	tier2Domains = []string{
		"bloomberg.com",
		"reuters.com",
		"ft.com",
		"wsj.com",
		"economist.com",
		"morningstar.com",
		"spglobal.com",
	}
	tier3Domains = []string{
		"forbes.com",
		"cnbc.com",
		"businessinsider.com",
		"techcrunch.com",
		"fortune.com",
		"barrons.com",
		"marketwatch.com",
	}
)

// AuthorityForURL returns the authority tier for a URL's domain.
// Unparseable URLs land in the unranked tier.
func AuthorityForURL(rawURL string) int {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return models.AuthorityUnranked
	}

	host := strings.ToLower(u.Host)
	host = strings.TrimPrefix(host, "www.")

	matches := func(domains []string) bool {
		for _, d := range domains {
			if host == d || strings.HasSuffix(host, "."+d) {
				return true
			}
		}
		return false
	}

	switch {
	case matches(tier1Domains):
		return models.AuthorityPrimary
	case matches(tier2Domains):
		return models.AuthorityFinancialPress
	case matches(tier3Domains):
		return models.AuthorityBusinessMedia
	default:
		return models.AuthorityUnranked
	}
}

package dispute

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"gorm.io/datatypes"

	"github.com/provaloop/studyloop-backend/internal/domain"
	"github.com/provaloop/studyloop-backend/internal/platform/apierr"
)

const (
	queryStatementLimit = 200
	queryArgumentLimit  = 100
)

var queryCleaner = regexp.MustCompile(`[^\p{L}\p{N}\s-]`)

// buildSearchQuery concatenates a sanitized, truncated statement and
// argument into one search query.
func buildSearchQuery(statement, argument string) string {
	s := queryCleaner.ReplaceAllString(statement, "")
	a := queryCleaner.ReplaceAllString(argument, "")
	s = truncateRunes(strings.TrimSpace(s), queryStatementLimit)
	a = truncateRunes(strings.TrimSpace(a), queryArgumentLimit)
	return strings.TrimSpace(s + " " + a)
}

// gatherEvidence queries the search collaborator and normalizes the hits
// into the snapshot stored on the dispute.
func (u Usecases) gatherEvidence(ctx context.Context, statement, argument string) (domain.EvidenceSnapshot, error) {
	query := buildSearchQuery(statement, argument)

	resp, err := u.deps.Search.Search(ctx, query, u.deps.Cfg.SearchDepth, u.deps.Cfg.SearchMaxResults)
	if err != nil {
		return domain.EvidenceSnapshot{}, apierr.External("evidence_search_unavailable", err)
	}

	snap := domain.EvidenceSnapshot{AnswerSummary: resp.Answer}
	for _, r := range resp.Results {
		snap.Sources = append(snap.Sources, domain.EvidenceSource{
			Title:   r.Title,
			URL:     r.URL,
			Excerpt: r.Content,
			Score:   r.Score,
		})
	}
	return snap, nil
}

func marshalEvidence(snap domain.EvidenceSnapshot) (datatypes.JSON, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

package retrieval

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/junlennon0516/DongSeo-WebProject/internal/domain"
	"github.com/junlennon0516/DongSeo-WebProject/internal/ports"
)

const (
	DefaultLimit = 50

	// NoCandidatesText is injected into the prompt when nothing matched or the
	// catalog could not be read.
	NoCandidatesText = "(no matching catalog entries)"
)

// Candidates is the retriever's answer for one request.
type Candidates struct {
	Entries []domain.CatalogEntry
	Text    string
	// Degraded is set when the store failed and the answer came from the
	// sentinel or the built-in catalog.
	Degraded bool
}

// IDs returns the product ids surfaced to the extractor.
func (c Candidates) IDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(c.Entries))
	for _, e := range c.Entries {
		ids[e.ID] = struct{}{}
	}
	return ids
}

type Options struct {
	Limit int
	// Fallback is searched in memory when the store is unreachable. Nil keeps
	// the sentinel behaviour.
	Fallback  []domain.CatalogEntry
	OnDegrade func()
}

type Service struct {
	repo     ports.CatalogRepository
	log      *zap.Logger
	limit    int
	fallback []domain.CatalogEntry
	degrade  func()
}

func New(repo ports.CatalogRepository, log *zap.Logger, opts Options) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	degrade := opts.OnDegrade
	if degrade == nil {
		degrade = func() {}
	}
	return &Service{repo: repo, log: log, limit: limit, fallback: opts.Fallback, degrade: degrade}
}

// Tokenize splits on whitespace and drops single-character noise tokens.
func Tokenize(text string) []string {
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if utf8.RuneCountInString(f) <= 1 {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Matches reports whether every token is a case-insensitive substring of at
// least one searchable field of e.
func Matches(e domain.CatalogEntry, tokens []string) bool {
	fields := []string{
		strings.ToLower(e.Name),
		strings.ToLower(e.Company),
		strings.ToLower(e.Category),
		strings.ToLower(e.Size),
		strings.ToLower(e.Description),
	}
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		hit := false
		for _, f := range fields {
			if f != "" && strings.Contains(f, tok) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// Entries returns matching catalog rows. With no usable tokens it browses the
// first rows by id. Store errors fall back to the built-in catalog when one is
// configured and are returned otherwise.
func (s *Service) Entries(ctx context.Context, text string, limit int) ([]domain.CatalogEntry, error) {
	if limit <= 0 || limit > s.limit {
		limit = s.limit
	}
	tokens := Tokenize(text)
	entries, err := s.lookup(ctx, tokens, limit)
	if err == nil {
		return entries, nil
	}
	if s.fallback == nil {
		return nil, eris.Wrap(err, "catalog lookup")
	}
	s.log.Warn("catalog unavailable, using built-in catalog", zap.Error(err))
	return filter(s.fallback, tokens, limit), nil
}

// Candidates produces the prompt-ready candidate list. It never fails.
func (s *Service) Candidates(ctx context.Context, text string) Candidates {
	tokens := Tokenize(text)
	entries, err := s.lookup(ctx, tokens, s.limit)
	if err != nil {
		s.degrade()
		s.log.Warn("catalog retrieval unavailable", zap.Error(err), zap.Int("tokens", len(tokens)))
		if s.fallback == nil {
			return Candidates{Text: NoCandidatesText, Degraded: true}
		}
		entries = filter(s.fallback, tokens, s.limit)
		return Candidates{Entries: entries, Text: Format(entries), Degraded: true}
	}
	s.log.Debug("catalog candidates", zap.Int("tokens", len(tokens)), zap.Int("matches", len(entries)))
	return Candidates{Entries: entries, Text: Format(entries)}
}

func (s *Service) lookup(ctx context.Context, tokens []string, limit int) ([]domain.CatalogEntry, error) {
	if len(tokens) == 0 {
		return s.repo.Browse(ctx, limit)
	}
	return s.repo.Search(ctx, tokens, limit)
}

// Format renders entries one per line for the extraction prompt.
func Format(entries []domain.CatalogEntry) string {
	if len(entries) == 0 {
		return NoCandidatesText
	}
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- ID:%d | company_id:%d | name:%s | base_price:%d | category:%s | company:%s",
			e.ID, e.CompanyID, e.Name, e.BasePrice, e.Category, e.Company)
		if size := strings.TrimSpace(e.Size); size != "" {
			fmt.Fprintf(&b, " | size:%s", size)
		}
		b.WriteByte('\n')
	}
	return strings.TrimRight(b.String(), "\n")
}

func filter(entries []domain.CatalogEntry, tokens []string, limit int) []domain.CatalogEntry {
	out := make([]domain.CatalogEntry, 0, limit)
	for _, e := range entries {
		if len(out) >= limit {
			break
		}
		if Matches(e, tokens) {
			out = append(out, e)
		}
	}
	return out
}

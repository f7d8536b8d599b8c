package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"librarian/internal/adapter/catalog"
	"librarian/internal/domain"
	"librarian/internal/port"
)

// ResolveOptions controls the fallback chain.
type ResolveOptions struct {
	TopK  int
	Fuzzy bool
}

// ResolveUseCase answers a free-text request with one catalog summary: exact
// title, then fuzzy title, then semantic search narrowed by the selector.
type ResolveUseCase struct {
	catalog   port.Catalog
	titles    port.TitleResolver
	retriever port.Retriever
	selector  port.Selector
	opts      ResolveOptions
	logger    *slog.Logger
}

// NewResolveUseCase creates a new resolve use case.
func NewResolveUseCase(
	catalog port.Catalog,
	titles port.TitleResolver,
	retriever port.Retriever,
	selector port.Selector,
	opts ResolveOptions,
) *ResolveUseCase {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	return &ResolveUseCase{
		catalog:   catalog,
		titles:    titles,
		retriever: retriever,
		selector:  selector,
		opts:      opts,
		logger:    slog.Default().With("component", "resolve"),
	}
}

// Resolve runs the full chain. Outcomes other than OutcomeResolved are not
// errors; an error means the query was invalid or a dependency failed.
func (u *ResolveUseCase) Resolve(ctx context.Context, query string) (domain.Resolution, error) {
	query = strings.TrimSpace(query)
	res := domain.Resolution{Query: query}
	if query == "" {
		return res, domain.InvalidArgument("non-empty query required")
	}

	title, path, err := u.resolveTitle(query)
	if err != nil {
		return res, err
	}
	if path != domain.PathNone {
		res.Path = path
		res.Title = title
		u.logger.Debug("title match", "path", path, "title", title)
		return u.attachSummary(res)
	}

	res.Path = domain.PathSemantic
	candidates, err := u.retriever.Search(ctx, query, u.opts.TopK)
	if err != nil {
		return res, err
	}
	res.Candidates = candidates
	if len(candidates) == 0 {
		res.Outcome = domain.OutcomeNoResults
		return res, nil
	}

	titles := make([]string, len(candidates))
	for i, c := range candidates {
		titles[i] = c.Title
	}

	sel, err := u.selector.Select(ctx, query, titles)
	switch {
	case err != nil:
		u.logger.Warn("selection failed, using top candidate", "error", err)
		res.SelectionErr = err
		res.Title = titles[0]
	case sel.ChosenTitle == "":
		res.SelectionErr = domain.ErrNoSelection
		res.Title = titles[0]
	default:
		res.Title = sel.ChosenTitle
		res.Rationale = sel.Rationale
	}

	return u.attachSummary(res)
}

// resolveTitle returns PathNone when neither the exact nor the fuzzy pass
// found a title.
func (u *ResolveUseCase) resolveTitle(query string) (string, domain.ResolutionPath, error) {
	title, err := u.titles.ResolveTitle(query, false)
	if err == nil {
		return title, domain.PathTitle, nil
	}
	if !errors.Is(err, domain.ErrTitleNotFound) {
		return "", domain.PathNone, err
	}
	if !u.opts.Fuzzy {
		return "", domain.PathNone, nil
	}

	title, err = u.titles.ResolveTitle(query, true)
	if err == nil {
		return title, domain.PathFuzzyTitle, nil
	}
	if !errors.Is(err, domain.ErrTitleNotFound) {
		return "", domain.PathNone, err
	}
	return "", domain.PathNone, nil
}

func (u *ResolveUseCase) attachSummary(res domain.Resolution) (domain.Resolution, error) {
	records, err := u.catalog.Load()
	if err != nil {
		return res, err
	}
	rec, ok := catalog.Lookup(records, res.Title)
	if !ok {
		res.Outcome = domain.OutcomeNoSummary
		return res, nil
	}
	res.Summary = rec.Summary
	res.Outcome = domain.OutcomeResolved
	return res, nil
}

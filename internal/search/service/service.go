package service

import (
	"context"
	"strings"

	"cardshare_backend/internal/search/repository"
	"cardshare_backend/internal/search/transport"
	"cardshare_backend/platform/apperr"
	"cardshare_backend/platform/phone"
)

const defaultLimit = 10

type Service struct {
	repo    *repository.Repository
	baseURL string
}

func New(repo *repository.Repository, baseURL string) *Service {
	return &Service{repo: repo, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *Service) GlobalSearch(ctx context.Context, req transport.SearchRequest) (*transport.SearchResponse, error) {
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return &transport.SearchResponse{Items: []transport.SearchResultItem{}, Total: 0}, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	results, err := s.repo.GlobalSearch(ctx, q, phone.Digits(q), limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "search failed", err).WithOp("search.GlobalSearch")
	}

	total := 0
	if len(results) > 0 {
		// COUNT(*) OVER() returns bigint
		total = int(results[0].Total)
	}

	items := make([]transport.SearchResultItem, len(results))
	for i, r := range results {
		items[i] = transport.SearchResultItem{
			ID:        r.ID.String(),
			Type:      r.Type,
			Title:     r.Title,
			Subtitle:  r.Subtitle,
			Link:      s.link(r.Type, r.LinkID),
			Score:     float64(r.Score),
			CreatedAt: r.CreatedAt,
		}
	}

	return &transport.SearchResponse{Items: items, Total: total}, nil
}

func (s *Service) link(entityType, linkID string) string {
	switch entityType {
	case "vcard":
		return s.baseURL + "/vcard/" + linkID
	case "catalogue", "product":
		return s.baseURL + "/catalogue/" + linkID
	default:
		return s.baseURL + "/"
	}
}

package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cardshare_backend/platform/db"
)

type Repository struct {
	pool db.Querier
}

func New(pool db.Querier) *Repository {
	return &Repository{pool: pool}
}

type SearchResult struct {
	ID        uuid.UUID
	Type      string
	Title     string
	Subtitle  string
	LinkID    string
	Score     float32
	CreatedAt time.Time
	Total     int64
}

// minPhoneDigits is the shortest digit run matched against stored numbers.
const minPhoneDigits = 3

// GlobalSearch ranks vCards, catalogues and products against query.
// Full-text matches rank first; substring matches are kept with a zero rank.
func (r *Repository) GlobalSearch(ctx context.Context, query, phoneDigits string, limit int) ([]SearchResult, error) {
	if len(phoneDigits) < minPhoneDigits {
		phoneDigits = ""
	}

	querySQL := `
		WITH search_query AS (
			SELECT websearch_to_tsquery('simple', $1) AS q, $2::text AS pattern, $3::text AS digits
		),
		results AS (
			SELECT
				v.id,
				'vcard' AS type,
				v.first_name || ' ' || v.last_name AS title,
				coalesce(v.company, '') AS subtitle,
				v.id::text AS link_id,
				ts_rank(
					setweight(to_tsvector('simple', v.first_name || ' ' || v.last_name), 'A') ||
					setweight(to_tsvector('simple', coalesce(v.company, '') || ' ' || coalesce(v.title, '')), 'B') ||
					setweight(to_tsvector('simple', coalesce(v.email, '')), 'C'),
					sq.q
				) AS score,
				v.created_at
			FROM vcards v
			CROSS JOIN search_query sq
			WHERE to_tsvector('simple', v.first_name || ' ' || v.last_name || ' ' || coalesce(v.company, '') || ' ' || coalesce(v.title, '') || ' ' || coalesce(v.email, '')) @@ sq.q
				OR (v.first_name || ' ' || v.last_name) ILIKE sq.pattern
				OR coalesce(v.company, '') ILIKE sq.pattern
				OR coalesce(v.email, '') ILIKE sq.pattern
				OR (sq.digits <> '' AND EXISTS (
					SELECT 1 FROM vcard_phone_numbers p
					WHERE p.vcard_id = v.id AND p.number LIKE '%' || sq.digits || '%'
				))

			UNION ALL

			SELECT
				c.id,
				'catalogue' AS type,
				c.title,
				left(c.description, 120) AS subtitle,
				c.id::text AS link_id,
				ts_rank(
					setweight(to_tsvector('simple', c.title), 'A') ||
					setweight(to_tsvector('simple', c.description), 'C'),
					sq.q
				) AS score,
				c.created_at
			FROM catalogues c
			CROSS JOIN search_query sq
			WHERE to_tsvector('simple', c.title || ' ' || c.description) @@ sq.q
				OR c.title ILIKE sq.pattern

			UNION ALL

			SELECT
				p.id,
				'product' AS type,
				p.name AS title,
				c.title AS subtitle,
				c.id::text || '?product=' || p.id::text AS link_id,
				ts_rank(
					setweight(to_tsvector('simple', p.name), 'A') ||
					setweight(to_tsvector('simple', coalesce(p.description, '')), 'C'),
					sq.q
				) AS score,
				p.created_at
			FROM catalogue_products p
			JOIN catalogues c ON c.id = p.catalogue_id
			CROSS JOIN search_query sq
			WHERE to_tsvector('simple', p.name || ' ' || coalesce(p.description, '')) @@ sq.q
				OR p.name ILIKE sq.pattern
		)
		SELECT id, type, title, subtitle, link_id, score, created_at, COUNT(*) OVER() AS total
		FROM results
		ORDER BY score DESC, created_at DESC
		LIMIT $4`

	rows, err := r.pool.Query(ctx, querySQL, query, likePattern(query), phoneDigits, limit)
	if err != nil {
		return nil, fmt.Errorf("global search: %w", err)
	}
	defer rows.Close()

	results := make([]SearchResult, 0, limit)
	for rows.Next() {
		var res SearchResult
		if err := rows.Scan(&res.ID, &res.Type, &res.Title, &res.Subtitle, &res.LinkID, &res.Score, &res.CreatedAt, &res.Total); err != nil {
			return nil, fmt.Errorf("scan search result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search results: %w", err)
	}
	return results, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(query) + "%"
}

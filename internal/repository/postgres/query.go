package postgres

import (
	"fmt"

	"github.com/andrewpark0408/SuperFastServer/internal/domain"
)

// orderClause returns the ORDER BY column list for a sort order, with each
// column qualified by prefix. The helpful and relevant orders use the same
// two columns with opposite precedence; anything unrecognized degrades to the
// newest ordering.
func orderClause(sort domain.Sort, prefix string) string {
	switch sort {
	case domain.SortHelpful:
		return fmt.Sprintf("%shelpfulness DESC, %screated_at DESC", prefix, prefix)
	case domain.SortRelevant:
		return fmt.Sprintf("%screated_at DESC, %shelpfulness DESC", prefix, prefix)
	default:
		return fmt.Sprintf("%screated_at DESC", prefix)
	}
}

// listingQuery builds the paginated listing statement. Pagination runs in the
// subquery so LIMIT and OFFSET count reviews, not the joined photo rows; the
// outer ORDER BY restates the sort because the planner is free to reorder
// join output.
func listingQuery(sort domain.Sort) string {
	return fmt.Sprintf(`
		SELECT r.id, r.rating, r.summary, r.body, r.recommend, r.response,
		       r.reviewer_name, r.helpfulness, r.created_at, p.id, p.url
		FROM (
			SELECT id, rating, summary, body, recommend, response,
			       reviewer_name, helpfulness, created_at
			FROM reviews
			WHERE product_id = $1 AND NOT reported
			ORDER BY %s
			LIMIT $2 OFFSET $3
		) r
		LEFT JOIN review_photos p ON p.review_id = r.id
		ORDER BY %s, p.sort_order, p.id`,
		orderClause(sort, ""), orderClause(sort, "r."))
}

// Aggregation statements for product metadata. The histogram and recommend
// counts include reported reviews; only listings hide them. The averages
// query inner-joins so characteristics without any values drop out instead of
// surfacing as NULL.
const (
	characteristicAveragesQuery = `
		SELECT c.id, c.name, AVG(cr.value)::float8
		FROM characteristics c
		JOIN characteristic_reviews cr ON cr.characteristic_id = c.id
		WHERE c.product_id = $1
		GROUP BY c.id, c.name
		ORDER BY c.id`

	ratingHistogramQuery = `
		SELECT rating, COUNT(*)::int
		FROM reviews
		WHERE product_id = $1
		GROUP BY rating`

	recommendCountsQuery = `
		SELECT recommend, COUNT(*)::int
		FROM reviews
		WHERE product_id = $1
		GROUP BY recommend`
)

package cache

import "fmt"

// Key layout. Listing keys embed every request parameter that changes the
// result set, so distinct parameter combinations never collide. All keys for
// one product share the product id segment, which is what the invalidation
// patterns match on.
const (
	listKeyFormat    = "reviews:list:%d:%d:%d:%s"
	metaKeyFormat    = "reviews:meta:%d"
	listPatternIndex = "reviews:list:%d:*"
)

// ListKey returns the cache key for one page of a product's review listing.
func ListKey(productID int64, page, count int, sort string) string {
	return fmt.Sprintf(listKeyFormat, productID, page, count, sort)
}

// MetaKey returns the cache key for a product's aggregated metadata.
func MetaKey(productID int64) string {
	return fmt.Sprintf(metaKeyFormat, productID)
}

// ListPattern returns the glob matching every cached listing page for a
// product, across all page, count and sort combinations.
func ListPattern(productID int64) string {
	return fmt.Sprintf(listPatternIndex, productID)
}

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesListAllFirst(t *testing.T) {
	cats := Default().Categories()
	require.NotEmpty(t, cats)
	assert.Equal(t, "All", cats[0])
	assert.Contains(t, cats, "Electronics")
	assert.Contains(t, cats, "Home")
}

func TestFind(t *testing.T) {
	c := Default()
	p, ok := c.Find("3")
	require.True(t, ok)
	assert.Equal(t, "Smart Fitness Watch", p.Name)

	_, ok = c.Find("does-not-exist")
	assert.False(t, ok)
}

func TestQuerySearchMatchesNameDescriptionCategory(t *testing.T) {
	c := Default()

	res := c.Query(Query{Search: "wireless"})
	require.NotEmpty(t, res.Products)
	for _, p := range res.Products {
		assert.Contains(t, []string{"1", "7"}, p.ID)
	}

	res = c.Query(Query{Search: "FITNESS"})
	ids := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		ids = append(ids, p.ID)
	}
	// Matches both the fitness watch and the Fitness category.
	assert.Contains(t, ids, "3")
	assert.Contains(t, ids, "6")
}

func TestQueryCategoryFilter(t *testing.T) {
	c := Default()

	res := c.Query(Query{Category: "Electronics"})
	assert.Equal(t, 3, res.Total)

	all := c.Query(Query{Category: "All"})
	assert.Equal(t, len(c.products), all.Total)
}

func TestQuerySortOrders(t *testing.T) {
	c := Default()

	res := c.Query(Query{Sort: SortPriceAsc})
	for i := 1; i < len(res.Products); i++ {
		assert.LessOrEqual(t, res.Products[i-1].Price, res.Products[i].Price)
	}

	res = c.Query(Query{Sort: SortPriceDesc})
	for i := 1; i < len(res.Products); i++ {
		assert.GreaterOrEqual(t, res.Products[i-1].Price, res.Products[i].Price)
	}

	res = c.Query(Query{Sort: SortRatingDesc})
	assert.Equal(t, "8", res.Products[0].ID)

	res = c.Query(Query{Sort: SortReviewsDesc})
	assert.Equal(t, "3", res.Products[0].ID)
}

func TestQueryPagination(t *testing.T) {
	c := Default()

	page1 := c.Query(Query{Page: 1, PageSize: 3})
	assert.Len(t, page1.Products, 3)
	assert.Equal(t, 8, page1.Total)
	assert.Equal(t, 3, page1.Pages)

	page3 := c.Query(Query{Page: 3, PageSize: 3})
	assert.Len(t, page3.Products, 2)

	// Out-of-range pages clamp to the last page.
	clamped := c.Query(Query{Page: 99, PageSize: 3})
	assert.Equal(t, 3, clamped.Page)
	assert.Equal(t, page3.Products, clamped.Products)
}

func TestQueryNoMatches(t *testing.T) {
	res := Default().Query(Query{Search: "zzz-no-such-product"})
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Products)
	assert.Equal(t, 1, res.Pages)
}

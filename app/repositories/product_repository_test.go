package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestListQueryNormalize(t *testing.T) {
	cases := []struct {
		name      string
		in        ListQuery
		wantPage  int
		wantLimit int
	}{
		{"defaults", ListQuery{}, 1, 20},
		{"negative page", ListQuery{Page: -3, Limit: 10}, 1, 10},
		{"zero limit", ListQuery{Page: 2}, 2, 20},
		{"limit above cap", ListQuery{Page: 1, Limit: 500}, 1, 50},
		{"limit at cap", ListQuery{Page: 1, Limit: 50}, 1, 50},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := tc.in.Normalize()
			assert.Equal(t, tc.wantPage, q.Page)
			assert.Equal(t, tc.wantLimit, q.Limit)
		})
	}
}

func TestListQuerySkip(t *testing.T) {
	assert.Equal(t, 0, ListQuery{Page: 1, Limit: 20}.Skip())
	assert.Equal(t, 40, ListQuery{Page: 3, Limit: 20}.Skip())
	assert.Equal(t, 98, ListQuery{Page: 50, Limit: 2}.Skip())
}

func TestBuildListFilterAlwaysPublic(t *testing.T) {
	f := BuildListFilter(ListQuery{}.Normalize())
	assert.Equal(t, true, f["isPublic"])
	assert.NotContains(t, f, "$or")
	assert.NotContains(t, f, "category")
}

func TestBuildListFilterSearch(t *testing.T) {
	f := BuildListFilter(ListQuery{Search: "silk"}.Normalize())

	or, ok := f["$or"].(bson.A)
	assert.True(t, ok, "$or clause missing")
	assert.Len(t, or, 2)

	name := or[0].(bson.M)["name"].(primitive.Regex)
	desc := or[1].(bson.M)["description"].(primitive.Regex)
	assert.Equal(t, "silk", name.Pattern)
	assert.Equal(t, "i", name.Options)
	assert.Equal(t, "silk", desc.Pattern)
}

func TestBuildListFilterEscapesRegexMeta(t *testing.T) {
	f := BuildListFilter(ListQuery{Search: "a+b (sale)"}.Normalize())

	or := f["$or"].(bson.A)
	name := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `a\+b \(sale\)`, name.Pattern)
}

func TestBuildListFilterCategory(t *testing.T) {
	f := BuildListFilter(ListQuery{Category: "Suits"}.Normalize())
	assert.Equal(t, "Suits", f["category"])

	// "All" is a sentinel meaning no category filter.
	f = BuildListFilter(ListQuery{Category: CategoryAll}.Normalize())
	assert.NotContains(t, f, "category")

	f = BuildListFilter(ListQuery{Category: ""}.Normalize())
	assert.NotContains(t, f, "category")
}

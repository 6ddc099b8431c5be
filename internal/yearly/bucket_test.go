package yearly

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

func titles(items []interfaces.Document) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.String(interfaces.AttrTitle))
	}
	return out
}

func TestBucketByYearGroupsNewestFirst(t *testing.T) {
	items := []interfaces.Document{
		{"title": "a", "date": "2014-03-01"},
		{"title": "b", "date": time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC)},
		{"title": "c", "date": "2014-12-31"},
		{"title": "d"},
		{"title": "e", "date": "2016-01-01T10:00:00Z"},
		{"title": "f", "date": "not a date"},
		nil,
		{"title": "g", "date": "2015-05-05"},
	}

	buckets := BucketByYear(items)

	require.Len(t, buckets, 3)
	assert.Equal(t, []int{2016, 2015, 2014}, Years(buckets))

	got := map[int][]string{}
	for _, bucket := range buckets {
		got[bucket.Year] = titles(bucket.Items)
	}
	want := map[int][]string{
		2016: {"b", "e"},
		2015: {"g"},
		2014: {"a", "c"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected buckets (-want +got):\n%s", diff)
	}
}

func TestBucketByYearWithoutDatesIsEmpty(t *testing.T) {
	items := []interfaces.Document{
		{"title": "a"},
		{"title": "b", "date": ""},
		{"title": "c", "date": nil},
		{"title": "d", "date": time.Time{}},
	}

	assert.Empty(t, BucketByYear(items))
	assert.Empty(t, BucketByYear(nil))
}

func TestBucketByYearSingleYear(t *testing.T) {
	items := []interfaces.Document{
		{"title": "a", "date": "2016-02-01"},
		{"title": "b", "date": "2016-03-01"},
	}

	buckets := BucketByYear(items)
	require.Len(t, buckets, 1)
	assert.Equal(t, 2016, buckets[0].Year)
	assert.Equal(t, []string{"a", "b"}, titles(buckets[0].Items))
}

func TestBucketByYearOptions(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	items := []interfaces.Document{
		{"title": "a", "published": "2015-12-31 20:00:00"},
		{"title": "b", "date": "2019-01-01"},
	}

	buckets := BucketByYear(items, WithDateKey("published"), WithLocation(tokyo))
	require.Len(t, buckets, 1)
	assert.Equal(t, 2015, buckets[0].Year)

	// epoch milliseconds for 2015-12-31T20:00:00Z land in 2016 in Tokyo
	epoch := time.Date(2015, time.December, 31, 20, 0, 0, 0, time.UTC).UnixMilli()
	buckets = BucketByYear([]interfaces.Document{{"date": epoch}}, WithLocation(tokyo))
	require.Len(t, buckets, 1)
	assert.Equal(t, 2016, buckets[0].Year)
}

func TestBucketByYearDoesNotMutateItems(t *testing.T) {
	item := interfaces.Document{"title": "a", "date": "2016-01-01"}
	BucketByYear([]interfaces.Document{item})
	assert.Equal(t, interfaces.Document{"title": "a", "date": "2016-01-01"}, item)
}

func TestPageName(t *testing.T) {
	cases := []struct {
		anchor string
		base   string
		year   int
		want   string
	}{
		{"blog.md", "", 2015, "blog-2015.md"},
		{"blog.md", "posts/page", 2015, "posts/page-2015.md"},
		{"archive/index.html", "", 2014, "archive/index-2014.html"},
		{"README", "", 2013, "README-2013"},
		{"blog.md", "  ", 2012, "blog-2012.md"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, PageName(tc.anchor, tc.base, tc.year), "%s/%s", tc.anchor, tc.base)
	}
}

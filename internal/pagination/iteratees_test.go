package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

func TestLookupIteratee(t *testing.T) {
	post := interfaces.Document{"title": "a"}

	identity, err := LookupIteratee("", IterateeOptions{})
	require.NoError(t, err)
	assert.Equal(t, post, identity(post, 0))

	indexed, err := LookupIteratee("Indexed", IterateeOptions{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"idx": 3, "post": post}, indexed(post, 3))

	_, err = LookupIteratee("nope", IterateeOptions{})
	assert.ErrorIs(t, err, ErrUnknownIteratee)
}

func TestSummaryIteratee(t *testing.T) {
	post := interfaces.Document{"title": "a"}

	summary, err := LookupIteratee(IterateeSummary, IterateeOptions{SummaryLimit: 2})
	require.NoError(t, err)

	assert.Equal(t, SummaryItem{Post: post, DisplayAsSummary: true}, summary(post, 1))
	assert.Equal(t, SummaryItem{Post: post, DisplayAsSummary: false}, summary(post, 2))

	defaults := Summary(0)
	assert.True(t, defaults(post, DefaultSummaryLimit-1).(SummaryItem).DisplayAsSummary)
	assert.False(t, defaults(post, DefaultSummaryLimit).(SummaryItem).DisplayAsSummary)
}

func TestRegisterIteratee(t *testing.T) {
	err := RegisterIteratee("title-only", func(IterateeOptions) interfaces.Iteratee {
		return func(item interfaces.Document, _ int) any { return item["title"] }
	})
	require.NoError(t, err)
	assert.Contains(t, IterateeNames(), "title-only")

	fn, err := LookupIteratee("title-only", IterateeOptions{})
	require.NoError(t, err)
	assert.Equal(t, "x", fn(interfaces.Document{"title": "x"}, 0))

	assert.Error(t, RegisterIteratee(" ", nil))
}

func TestPostDocument(t *testing.T) {
	post := interfaces.Document{"title": "a"}

	for _, value := range []any{
		post,
		SummaryItem{Post: post},
		&SummaryItem{Post: post},
		map[string]any{"idx": 0, "post": post},
	} {
		doc, ok := PostDocument(value)
		require.True(t, ok, "%T", value)
		assert.Equal(t, "a", doc["title"])
	}

	_, ok := PostDocument(42)
	assert.False(t, ok)
}

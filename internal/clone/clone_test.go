package clone

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	gclone "github.com/huandu/go-clone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-pagination/pkg/interfaces"
)

func TestDocumentCopiesBuffersIntoIndependentStorage(t *testing.T) {
	sidebar := []byte("I'm a sidebar content")
	doc := interfaces.Document{
		"paginate": "posts",
		"sidebar":  sidebar,
		"nested": map[string]any{
			"payload": []byte("nested payload"),
		},
	}

	copied, err := Document(doc, nil)
	require.NoError(t, err)

	out, ok := copied["sidebar"].([]byte)
	require.True(t, ok, "sidebar should stay a byte slice")
	assert.Equal(t, sidebar, out)

	out[0] = 'X'
	assert.Equal(t, byte('I'), sidebar[0], "mutating the clone must not touch the source")

	nested := copied["nested"].(map[string]any)["payload"].([]byte)
	nested[0] = 'Y'
	assert.Equal(t, "nested payload", string(doc["nested"].(map[string]any)["payload"].([]byte)))
}

func TestDocumentSkipsKeys(t *testing.T) {
	doc := interfaces.Document{
		"title":      "Blog",
		"pagination": &interfaces.PageInfo{Year: 2016},
	}

	copied, err := Document(doc, []string{"pagination"})
	require.NoError(t, err)

	assert.Equal(t, "Blog", copied["title"])
	_, exists := copied["pagination"]
	assert.False(t, exists)
}

func TestValueCopiesCompositeValues(t *testing.T) {
	type meta struct {
		Tags    []string
		Created time.Time
		hidden  string
	}

	created := time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC)
	src := map[string]any{
		"list":   []any{"a", map[string]any{"b": 1}, nil},
		"array":  [2]int{1, 2},
		"meta":   &meta{Tags: []string{"go"}, Created: created, hidden: "h"},
		"number": 42,
		"fn":     strings.ToUpper,
	}

	out, err := Value(src)
	require.NoError(t, err)

	copied := out.(map[string]any)
	assert.Equal(t, src["list"], copied["list"])
	assert.Equal(t, [2]int{1, 2}, copied["array"])
	assert.Equal(t, 42, copied["number"])

	m := copied["meta"].(*meta)
	assert.NotSame(t, src["meta"], m)
	assert.Equal(t, "h", m.hidden)
	assert.True(t, created.Equal(m.Created))

	m.Tags[0] = "changed"
	assert.Equal(t, "go", src["meta"].(*meta).Tags[0])

	copied["list"].([]any)[1].(map[string]any)["b"] = 2
	assert.Equal(t, 1, src["list"].([]any)[1].(map[string]any)["b"])

	assert.Equal(t, "X", copied["fn"].(func(string) string)("x"))
}

func TestValuePreservesNilValues(t *testing.T) {
	var nilMap map[string]any
	var nilSlice []byte

	out, err := Value(map[string]any{"map": nilMap, "bytes": nilSlice, "nil": nil})
	require.NoError(t, err)

	copied := out.(map[string]any)
	assert.Nil(t, copied["map"])
	assert.Nil(t, copied["bytes"])
	assert.Contains(t, copied, "nil")
}

func TestValueRejectsCycles(t *testing.T) {
	doc := interfaces.Document{"title": "loop"}
	doc["self"] = doc

	_, err := Document(doc, nil)
	require.ErrorIs(t, err, ErrCycle)

	list := []any{nil}
	list[0] = list
	_, err = Value(list)
	require.ErrorIs(t, err, ErrCycle)
}

func TestValueAllowsSharedButAcyclicReferences(t *testing.T) {
	shared := map[string]any{"name": "shared"}
	src := map[string]any{"a": shared, "b": shared}

	out, err := Value(src)
	require.NoError(t, err)

	copied := out.(map[string]any)
	assert.Equal(t, shared, copied["a"])
	assert.Equal(t, shared, copied["b"])
}

func TestValueRejectsChannels(t *testing.T) {
	_, err := Value(map[string]any{"ch": make(chan int)})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestValueCopiesBuffersHeldInUnexportedFields(t *testing.T) {
	type payload struct {
		raw []byte
	}
	src := &payload{raw: []byte("sidebar")}

	out, err := Value(src)
	require.NoError(t, err)

	copied := out.(*payload)
	copied.raw[0] = 'X'
	assert.Equal(t, "sidebar", string(src.raw))
}

func TestDocumentCopiesByteBuffers(t *testing.T) {
	doc := interfaces.Document{"sidebar": bytes.NewBufferString("sidebar")}

	copied, err := Document(doc, nil)
	require.NoError(t, err)

	buf, ok := copied["sidebar"].(*bytes.Buffer)
	require.True(t, ok)
	assert.NotSame(t, doc["sidebar"], buf)

	buf.Bytes()[0] = 'X'
	assert.Equal(t, "sidebar", doc["sidebar"].(*bytes.Buffer).String())
	assert.Equal(t, "Xidebar", buf.String())
}

func TestValueRejectsChannelsInUnexportedFields(t *testing.T) {
	type worker struct {
		events chan int
	}
	_, err := Value(&worker{events: make(chan int)})
	require.ErrorIs(t, err, ErrUnsupported)
}

func TestWithCustomFuncOverridesCopy(t *testing.T) {
	type credentials struct {
		User  string
		Token string
	}
	calls := 0
	redact := func(_ *gclone.Allocator, old, new reflect.Value) {
		calls++
		new.FieldByName("User").SetString(old.FieldByName("User").String())
		new.FieldByName("Token").SetString("redacted")
	}

	src := map[string]any{"auth": credentials{User: "ada", Token: "secret"}}
	out, err := Value(src, WithCustomFunc(reflect.TypeOf(credentials{}), redact))
	require.NoError(t, err)

	got := out.(map[string]any)["auth"].(credentials)
	assert.Equal(t, credentials{User: "ada", Token: "redacted"}, got)
	assert.Equal(t, "secret", src["auth"].(credentials).Token)
	assert.Equal(t, 1, calls)
}

package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refract/reactive"
)

type person struct {
	First string
	Last  string
}

var family = []person{
	{First: "Bob", Last: "Belcher"},
	{First: "Linda", Last: "Belcher"},
	{First: "Teddy", Last: "Francisco"},
	{First: "Jimmy", Last: "Pesto"},
	{First: "Phillip", Last: "Frond"},
}

func newPeopleFilter(opts Options) (*reactive.Ref[[]person], *Filter[person]) {
	list := reactive.NewRef(family)
	return list, New(list, Fields[person]("First", "Last"), opts)
}

func TestFilterByQuery(t *testing.T) {
	_, f := newPeopleFilter(DefaultOptions())

	f.Query().Set("Bob")
	got := f.Result().Get()
	require.Len(t, got, 1)
	assert.Equal(t, "Bob", got[0].First)
}

func TestEmptyQueryReturnsFullList(t *testing.T) {
	list, f := newPeopleFilter(DefaultOptions())

	assert.Equal(t, list.Get(), f.Result().Get())

	f.Query().Set("Bob")
	require.Len(t, f.Result().Get(), 1)

	// Clearing the query restores the original backing slice.
	f.Query().Set("")
	got := f.Result().Get()
	require.Len(t, got, len(family))
	assert.Same(t, &list.Get()[0], &got[0])
}

func TestQueryMatchesAnyTerm(t *testing.T) {
	_, f := newPeopleFilter(DefaultOptions())

	f.Query().Set("belcher")
	assert.Len(t, f.Result().Get(), 2)

	f.Query().Set("pest")
	got := f.Result().Get()
	require.Len(t, got, 1)
	assert.Equal(t, "Jimmy", got[0].First)
}

func TestStrictMatching(t *testing.T) {
	_, f := newPeopleFilter(Options{Strict: true, Trim: true})

	f.Query().Set("lch")
	assert.Empty(t, f.Result().Get(), "substring must not match in strict mode")

	f.Query().Set("Belcher")
	assert.Len(t, f.Result().Get(), 2)

	f.Query().Set("belcher")
	assert.Empty(t, f.Result().Get(), "strict matching is case-sensitive")
}

func TestCaseSensitiveMatching(t *testing.T) {
	_, f := newPeopleFilter(Options{CaseSensitive: true, Trim: true})

	f.Query().Set("BOB")
	assert.Empty(t, f.Result().Get())

	f.Query().Set("Bob")
	assert.Len(t, f.Result().Get(), 1)
}

func TestTrimNormalization(t *testing.T) {
	_, f := newPeopleFilter(DefaultOptions())

	f.Query().Set("  bob  ")
	assert.Len(t, f.Result().Get(), 1)

	_, noTrim := newPeopleFilter(Options{})
	noTrim.Query().Set("  bob  ")
	assert.Empty(t, noTrim.Result().Get())
}

func TestResultTracksListChanges(t *testing.T) {
	list, f := newPeopleFilter(DefaultOptions())

	f.Query().Set("belcher")
	require.Len(t, f.Result().Get(), 2)

	list.Set(append(list.Get(), person{First: "Tina", Last: "Belcher"}))
	assert.Len(t, f.Result().Get(), 3, "cache must not survive a list change")

	list.Set(nil)
	assert.Empty(t, f.Result().Get())
}

func TestRepeatedQueryHitsCache(t *testing.T) {
	extractions := 0
	list := reactive.NewRef([]string{"alpha", "beta", "gamma"})
	f := New(list, Single(func(s string) string {
		extractions++
		return s
	}), DefaultOptions())

	f.Query().Set("a")
	first := extractions
	f.Query().Set("b")
	f.Query().Set("a")
	assert.Equal(t, first*2, extractions, "second identical query should be served from cache")
}

func TestMatches(t *testing.T) {
	_, f := newPeopleFilter(DefaultOptions())

	f.Query().Set("bob")
	assert.True(t, f.Matches(person{First: "Bob", Last: "Belcher"}))
	assert.False(t, f.Matches(person{First: "Gene", Last: "Belcher"}))

	f.Query().Set("")
	assert.True(t, f.Matches(person{First: "Gene", Last: "Belcher"}))
}

func TestFieldsOverMap(t *testing.T) {
	items := []map[string]any{
		{"name": "fetch", "tags": []string{"net", "sync"}},
		{"name": "build", "tags": []string{"compile"}},
	}
	list := reactive.NewRef(items)
	f := New(list, Fields[map[string]any]("name", "tags"), DefaultOptions())

	f.Query().Set("sync")
	got := f.Result().Get()
	require.Len(t, got, 1)
	assert.Equal(t, "fetch", got[0]["name"])
}

func TestFieldsContractViolationPanics(t *testing.T) {
	type bad struct {
		Count int
	}
	extract := Fields[bad]("Count")
	assert.Panics(t, func() { extract(bad{Count: 3}) })

	missing := Fields[person]("Nope")
	assert.Panics(t, func() { missing(person{}) })
}

func TestFieldsThroughPointer(t *testing.T) {
	list := reactive.NewRef([]*person{{First: "Bob", Last: "Belcher"}})
	f := New(list, Fields[*person]("First"), DefaultOptions())

	f.Query().Set("bob")
	assert.Len(t, f.Result().Get(), 1)
}

func TestSingle(t *testing.T) {
	extract := Single(func(s string) string { return s })
	assert.Equal(t, []string{"x"}, extract("x"))
}

package pagecache

import (
	"errors"
	"testing"

	"github.com/Sternrassler/artic-selector/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func result(page int, ids ...int) catalog.PageResult {
	items := make([]catalog.Item, len(ids))
	for i, id := range ids {
		items[i] = catalog.Item{ID: id}
	}
	return catalog.PageResult{Page: catalog.Page{Number: page, Items: items}, Total: 100}
}

func TestCache_Empty(t *testing.T) {
	c := New()

	assert.Equal(t, 0, c.Current().Len())
	assert.Equal(t, 0, c.Total())
	assert.False(t, c.IsLoading())
	assert.NoError(t, c.Err())
}

func TestCache_BeginLoad(t *testing.T) {
	c := New()

	ticket := c.Begin(1)
	assert.True(t, c.IsLoading())
	assert.Equal(t, 1, ticket.Page)

	require.True(t, c.Load(ticket, result(1, 1, 2, 3)))
	assert.False(t, c.IsLoading())
	assert.Equal(t, []int{1, 2, 3}, c.Current().IDs())
	assert.Equal(t, 100, c.Total())
}

func TestCache_TicketsIncrease(t *testing.T) {
	c := New()

	a := c.Begin(1)
	b := c.Begin(1)
	assert.Greater(t, b.Seq, a.Seq)
	assert.False(t, c.Latest(a))
	assert.True(t, c.Latest(b))
}

func TestCache_StaleResultRejected(t *testing.T) {
	c := New()

	page2 := c.Begin(2)
	page3 := c.Begin(3)

	require.True(t, c.Load(page3, result(3, 25, 26)))
	assert.False(t, c.Load(page2, result(2, 13, 14)))

	assert.Equal(t, 3, c.Current().Number)
	assert.Equal(t, []int{25, 26}, c.Current().IDs())
	assert.False(t, c.IsLoading())
}

func TestCache_StaleResultBeforeLatestKeepsLoading(t *testing.T) {
	c := New()

	page2 := c.Begin(2)
	page3 := c.Begin(3)

	assert.False(t, c.Load(page2, result(2, 13)))
	assert.True(t, c.IsLoading(), "latest load is still in flight")
	assert.Equal(t, 0, c.Current().Len())

	require.True(t, c.Load(page3, result(3, 25)))
	assert.Equal(t, []int{25}, c.Current().IDs())
}

func TestCache_FailKeepsLastPage(t *testing.T) {
	c := New()
	require.True(t, c.Load(c.Begin(1), result(1, 1, 2)))

	boom := errors.New("boom")
	ticket := c.Begin(2)
	require.True(t, c.Fail(ticket, boom))

	assert.ErrorIs(t, c.Err(), boom)
	assert.False(t, c.IsLoading())
	assert.Equal(t, 1, c.Current().Number)
	assert.Equal(t, []int{1, 2}, c.Current().IDs())
}

func TestCache_StaleFailureIgnored(t *testing.T) {
	c := New()

	old := c.Begin(2)
	latest := c.Begin(3)

	assert.False(t, c.Fail(old, errors.New("late failure")))
	assert.NoError(t, c.Err())
	assert.True(t, c.IsLoading())

	require.True(t, c.Load(latest, result(3, 30)))
	assert.NoError(t, c.Err())
}

func TestCache_SuccessClearsError(t *testing.T) {
	c := New()
	require.True(t, c.Fail(c.Begin(1), errors.New("down")))
	require.True(t, c.Load(c.Begin(1), result(1, 1)))

	assert.NoError(t, c.Err())
}

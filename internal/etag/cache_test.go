package etag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeETagStore 内存版ETagStore
type fakeETagStore struct {
	tokens  map[string]string
	upserts int
}

func newFakeETagStore() *fakeETagStore {
	return &fakeETagStore{tokens: map[string]string{}}
}

func (f *fakeETagStore) GetAll(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(f.tokens))
	for k, v := range f.tokens {
		out[k] = v
	}
	return out, nil
}

func (f *fakeETagStore) Upsert(_ context.Context, endpoint, etag string) error {
	f.tokens[endpoint] = etag
	f.upserts++
	return nil
}

func TestCacheLoadExposesPriorToken(t *testing.T) {
	store := newFakeETagStore()
	store.tokens["/events/2024"] = `W/"abc"`

	c := NewCache(store)
	require.NoError(t, c.Load(context.Background()))

	needed, prior := c.ShouldFetch("/events/2024")
	assert.True(t, needed)
	assert.Equal(t, `W/"abc"`, prior)

	// 没见过的端点也要拉，prior为空
	needed, prior = c.ShouldFetch("/events/2025")
	assert.True(t, needed)
	assert.Empty(t, prior)
}

func TestCacheSkipsEndpointAlreadySyncedThisPass(t *testing.T) {
	c := NewCache(newFakeETagStore())
	require.NoError(t, c.Load(context.Background()))

	c.RecordFreshness("/event/2024casj/matches", `W/"v1"`)

	needed, _ := c.ShouldFetch("/event/2024casj/matches")
	assert.False(t, needed, "本pass已同步过的端点不应重复拉取")
}

func TestCacheIgnoresEmptyToken(t *testing.T) {
	store := newFakeETagStore()
	c := NewCache(store)
	require.NoError(t, c.Load(context.Background()))

	c.RecordFreshness("/teams/0", "")
	require.NoError(t, c.Persist(context.Background()))
	assert.Zero(t, store.upserts)
}

func TestCachePersistPromotesPending(t *testing.T) {
	store := newFakeETagStore()
	c := NewCache(store)
	require.NoError(t, c.Load(context.Background()))

	c.RecordFreshness("/events/2024", `W/"v1"`)
	c.RecordFreshness("/events/2024", `W/"v2"`) // 同端点后写覆盖先写
	require.NoError(t, c.Persist(context.Background()))

	assert.Equal(t, map[string]string{"/events/2024": `W/"v2"`}, store.tokens)

	// 落库后pending清空，下一个pass该端点重新可拉，prior为新token
	needed, prior := c.ShouldFetch("/events/2024")
	assert.True(t, needed)
	assert.Equal(t, `W/"v2"`, prior)
}

func TestCacheUnrecordedTokenNeverPersisted(t *testing.T) {
	// 单元失败时调用方不Record，pass结束落库不得包含该端点
	store := newFakeETagStore()
	c := NewCache(store)
	require.NoError(t, c.Load(context.Background()))

	c.RecordFreshness("/event/2024casj/teams", `W/"ok"`)
	require.NoError(t, c.Persist(context.Background()))

	_, has := store.tokens["/event/2024casj/matches"]
	assert.False(t, has)
	assert.Equal(t, 1, store.upserts)
}

// Package etag 条件拉取缓存：按上游端点缓存新鲜度标记（HTTP ETag）
// 缓存只存token不看payload；生命周期为一次同步pass——pass开始时Load，
// 单元提交成功后Record，pass结束（或单元结束）时Persist落库
package etag

import (
	"context"
	"sync"

	"FRCSync/internal/interfaces"
)

type Cache struct {
	store interfaces.ETagStore

	mu      sync.Mutex
	tokens  map[string]string // endpoint -> 最近一次已提交的etag
	pending map[string]string // 本次pass新记录、待落库的etag
}

func NewCache(store interfaces.ETagStore) *Cache {
	return &Cache{
		store:   store,
		tokens:  make(map[string]string),
		pending: make(map[string]string),
	}
}

// Load pass开始时加载全部已持久化token
func (c *Cache) Load(ctx context.Context) error {
	tokens, err := c.store.GetAll(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.tokens = tokens
	c.pending = make(map[string]string)
	c.mu.Unlock()
	return nil
}

// ShouldFetch 是否需要重新拉取该端点，并返回上次的token（作If-None-Match用）
// 本pass已成功同步过的端点返回needed=false；其余返回true——
// 数据是否真有变化由上游以not-modified信号回答，缓存不看payload
func (c *Cache) ShouldFetch(endpoint string) (needed bool, priorToken string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.pending[endpoint]; ok {
		return false, t
	}
	return true, c.tokens[endpoint]
}

// RecordFreshness 记录端点新token，仅在对应单元提交成功后调用
// 校验失败/事务失败的单元不advance token，下个pass会重新拉取同样的数据
func (c *Cache) RecordFreshness(endpoint, newToken string) {
	if newToken == "" {
		return
	}
	c.mu.Lock()
	c.pending[endpoint] = newToken
	c.mu.Unlock()
}

// Persist 把本次pass记录的token写回存储（逐端点last-write-wins）
func (c *Cache) Persist(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.pending = make(map[string]string)
	c.mu.Unlock()

	for endpoint, token := range pending {
		if err := c.store.Upsert(ctx, endpoint, token); err != nil {
			return err
		}
		c.mu.Lock()
		c.tokens[endpoint] = token
		c.mu.Unlock()
	}
	return nil
}

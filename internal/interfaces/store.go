package interfaces

import (
	"context"

	"FRCSync/internal/graph"
)

// StoreTx 一个逻辑单元的事务边界：commit全有或全无，
// commit前崩溃或rollback后，存储保持事务开始前的状态
type StoreTx interface {
	Upsert(record any) error // 按自然键整行upsert（冲突即更新）
	Commit() error
	Rollback() error
}

// EntityStore 持久层薄契约，规划器与编排器共用
type EntityStore interface {
	Begin(ctx context.Context) (StoreTx, error)
	// LoadSnapshot 加载已提交实体图的键快照
	// 赛事/队伍/赛区键始终全量（父引用可跨赛事）；junction表的键只在
	// 传入eventKeys时按这些赛事加载——不引用junction行的批无需付全表扫描
	LoadSnapshot(ctx context.Context, eventKeys ...string) (*graph.Snapshot, error)
}

// ETagStore 端点新鲜度标记的读写，仅etag缓存使用
type ETagStore interface {
	GetAll(ctx context.Context) (map[string]string, error)
	Upsert(ctx context.Context, endpoint, etag string) error
}

package repository

import (
	"context"
	"fmt"

	"FRCSync/internal/interfaces"
	"FRCSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ETagRepository etags表的读写，单表endpoint->etag，last-write-wins
type ETagRepository struct {
	db *gorm.DB
}

func NewETagRepository(db *gorm.DB) interfaces.ETagStore {
	return &ETagRepository{db: db}
}

func (r *ETagRepository) GetAll(ctx context.Context) (map[string]string, error) {
	var rows []*model.ETag
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("加载etag失败: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Endpoint] = row.ETag
	}
	return out, nil
}

func (r *ETagRepository) Upsert(ctx context.Context, endpoint, etag string) error {
	row := &model.ETag{Endpoint: endpoint, ETag: etag}
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"etag", "updated_at"}),
	}).Create(row).Error; err != nil {
		return fmt.Errorf("upsert etag失败 %s: %w", endpoint, err)
	}
	return nil
}

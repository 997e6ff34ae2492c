package model

import "time"

// ETag 上游端点的新鲜度标记（HTTP ETag），每端点一行，last-write-wins
// 仅由etag缓存读写，不承载任何实体数据
type ETag struct {
	Endpoint  string    `gorm:"column:endpoint;type:varchar(128);primaryKey;comment:上游端点标识"`
	ETag      string    `gorm:"column:etag;type:varchar(256);not null;comment:该端点最近一次响应的ETag"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (ETag) TableName() string { return "etags" }

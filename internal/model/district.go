package model

import "time"

// EventDistrict 赛区（如2016ne），叶子实体，无外键依赖
type EventDistrict struct {
	Key          string    `gorm:"column:key;type:varchar(16);primaryKey;comment:赛区Key，格式yyyy[DISTRICT_CODE]"`
	Abbreviation string    `gorm:"column:abbreviation;type:varchar(16);not null;comment:赛区短标识（ne/pnw等）"`
	DisplayName  string    `gorm:"column:display_name;type:varchar(128);not null;comment:赛区全称"`
	Year         int       `gorm:"column:year;type:int;not null;index;comment:赛季年份"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (EventDistrict) TableName() string { return "event_districts" }

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Ranking 队伍在某赛事资格赛阶段的排名（复合主键event_key+team_key，引用EventTeam）
type Ranking struct {
	EventKey      string          `gorm:"column:event_key;type:varchar(16);primaryKey;index;comment:赛事Key"`
	TeamKey       string          `gorm:"column:team_key;type:varchar(16);primaryKey;index;comment:队伍Key"`
	Rank          int             `gorm:"column:rank;type:int;not null;comment:排名（从1起）"`
	MatchesPlayed int             `gorm:"column:matches_played;type:int;not null;comment:已打资格赛场数"`
	Wins          *int            `gorm:"column:wins;type:int;comment:资格赛胜场"`
	Losses        *int            `gorm:"column:losses;type:int;comment:资格赛负场"`
	Ties          *int            `gorm:"column:ties;type:int;comment:资格赛平场"`
	DQ            int             `gorm:"column:dq;type:int;default:0;comment:取消资格次数"`
	QualAverage   *float64        `gorm:"column:qual_average;type:numeric(10,4);comment:资格赛场均得分（逐年规则）"`
	ExtraStats    *datatypes.JSON `gorm:"column:extra_stats;type:jsonb;comment:TBA附加统计数组（结构见RankingEventInfo）"`
	SortOrders    *datatypes.JSON `gorm:"column:sort_orders;type:jsonb;comment:逐年排序指标数组（结构见RankingEventInfo）"`
	CreatedAt     time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Ranking) TableName() string { return "rankings" }

// RankingEventInfo 描述某赛事Ranking行extra_stats/sort_orders数组各字段的名称与精度
type RankingEventInfo struct {
	EventKey       string          `gorm:"column:event_key;type:varchar(16);primaryKey;comment:赛事Key"`
	ExtraStatsInfo *datatypes.JSON `gorm:"column:extra_stats_info;type:jsonb;comment:extra_stats各字段元信息（name+precision列表）"`
	SortOrderInfo  *datatypes.JSON `gorm:"column:sort_order_info;type:jsonb;comment:sort_orders各字段元信息（name+precision列表）"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (RankingEventInfo) TableName() string { return "ranking_event_infos" }

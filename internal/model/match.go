package model

import (
	"time"

	"gorm.io/datatypes"
)

// Match 比赛（key格式yyyy[EVENT_CODE]_[COMP_LEVEL]m[MATCH_NUMBER]）
type Match struct {
	Key             string     `gorm:"column:key;type:varchar(32);primaryKey;comment:比赛Key"`
	EventKey        string     `gorm:"column:event_key;type:varchar(16);not null;index;comment:所属赛事Key"`
	CompLevel       string     `gorm:"column:comp_level;type:varchar(4);not null;comment:比赛级别：qm/ef/qf/sf/f"`
	SetNumber       int        `gorm:"column:set_number;type:int;not null;comment:系列赛轮次号（从1起）"`
	MatchNumber     int        `gorm:"column:match_number;type:int;not null;comment:该级别内的比赛序号（从1起）"`
	WinningAlliance string     `gorm:"column:winning_alliance;type:varchar(8);default:'';comment:获胜方颜色red/blue，平局或未打为空串"`
	Time            *time.Time `gorm:"column:time;type:timestamp;comment:官方日程排定时间"`
	ActualTime      *time.Time `gorm:"column:actual_time;type:timestamp;comment:实际开打时间"`
	PredictedTime   *time.Time `gorm:"column:predicted_time;type:timestamp;comment:预测开打时间"`
	PostResultTime  *time.Time `gorm:"column:post_result_time;type:timestamp;comment:结果发布时间"`
	CreatedAt       time.Time  `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Match) TableName() string { return "matches" }

// MatchAlliance 单场比赛中的一方联盟（复合主键match_key+alliance_color）
type MatchAlliance struct {
	MatchKey       string          `gorm:"column:match_key;type:varchar(32);primaryKey;index;comment:所属比赛Key"`
	AllianceColor  string          `gorm:"column:alliance_color;type:varchar(8);primaryKey;comment:联盟颜色red/blue"`
	Score          int             `gorm:"column:score;type:int;not null;comment:得分，未打为-1"`
	ScoreBreakdown *datatypes.JSON `gorm:"column:score_breakdown;type:jsonb;comment:得分明细（逐年变化的不透明结构）"`
	CreatedAt      time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt      time.Time       `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (MatchAlliance) TableName() string { return "match_alliances" }

// MatchAllianceTeam 比赛联盟中的队伍（复合主键match_key+alliance_color+team_key）
// (event_key, team_key)必须已存在于event_teams——参赛关系先于上场关系
type MatchAllianceTeam struct {
	MatchKey      string    `gorm:"column:match_key;type:varchar(32);primaryKey;index;comment:所属比赛Key"`
	AllianceColor string    `gorm:"column:alliance_color;type:varchar(8);primaryKey;comment:联盟颜色red/blue"`
	TeamKey       string    `gorm:"column:team_key;type:varchar(16);primaryKey;index;comment:队伍Key"`
	EventKey      string    `gorm:"column:event_key;type:varchar(16);not null;index;comment:所属赛事Key"`
	IsSurrogate   bool      `gorm:"column:is_surrogate;type:boolean;default:false;comment:是否替补出场（surrogate）"`
	IsDQ          bool      `gorm:"column:is_dq;type:boolean;default:false;comment:该场是否被取消资格"`
	CreatedAt     time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt     time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (MatchAllianceTeam) TableName() string { return "match_alliance_teams" }

package model

import "time"

// Alliance 淘汰赛联盟（复合主键event_key+name）
type Alliance struct {
	EventKey          string     `gorm:"column:event_key;type:varchar(16);primaryKey;index;comment:所属赛事Key"`
	Name              string     `gorm:"column:name;type:varchar(64);primaryKey;comment:联盟名（如Alliance 1）"`
	Order             *int       `gorm:"column:alliance_order;type:int;index;comment:Alliance N中的序号，分区命名时为空"`
	BackupIn          *string    `gorm:"column:backup_in;type:varchar(16);index;comment:顶替上场的替补队伍Key"`
	BackupOut         *string    `gorm:"column:backup_out;type:varchar(16);index;comment:被替补顶替的队伍Key"`
	Status            *string    `gorm:"column:status;type:varchar(16);comment:淘汰赛状态：eliminated/playing/won"`
	Level             *string    `gorm:"column:level;type:varchar(4);comment:当前淘汰赛级别：qm/ef/qf/sf/f"`
	Wins              *int       `gorm:"column:wins;type:int;comment:淘汰赛总胜场"`
	Losses            *int       `gorm:"column:losses;type:int;comment:淘汰赛总负场"`
	Ties              *int       `gorm:"column:ties;type:int;comment:淘汰赛总平场"`
	CurrentLevelWins  *int       `gorm:"column:current_level_wins;type:int;comment:当前级别胜场"`
	CurrentLevelLoss  *int       `gorm:"column:current_level_losses;type:int;comment:当前级别负场"`
	CurrentLevelTies  *int       `gorm:"column:current_level_ties;type:int;comment:当前级别平场"`
	PlayoffType       *int       `gorm:"column:playoff_type;type:int;comment:淘汰赛类型枚举"`
	PlayoffAverage    *float64   `gorm:"column:playoff_average;type:numeric(10,4);comment:淘汰赛场均得分"`
	DoubleElimRound   *string    `gorm:"column:double_elim_round;type:varchar(16);comment:当前双败淘汰轮次"`
	RoundRobinRank    *int       `gorm:"column:round_robin_rank;type:int;comment:循环赛排名"`
	AdvancedToRRFinal *bool      `gorm:"column:advanced_to_round_robin_finals;type:boolean;comment:是否晋级循环赛决赛"`
	CreatedAt         time.Time  `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Alliance) TableName() string { return "alliances" }

// AllianceTeam 淘汰赛联盟中的队伍（复合主键event_key+alliance_name+team_key）
// 必须同时引用已存在的Alliance(event+name)与EventTeam(event+team)
type AllianceTeam struct {
	EventKey     string    `gorm:"column:event_key;type:varchar(16);primaryKey;index;comment:所属赛事Key"`
	AllianceName string    `gorm:"column:alliance_name;type:varchar(64);primaryKey;comment:所属联盟名"`
	TeamKey      string    `gorm:"column:team_key;type:varchar(16);primaryKey;index;comment:队伍Key"`
	PickOrder    int       `gorm:"column:pick_order;type:int;not null;comment:选人顺位（1=队长，2=首选）"`
	CreatedAt    time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt    time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (AllianceTeam) TableName() string { return "alliance_teams" }

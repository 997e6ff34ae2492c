package model

import "time"

// Team 参赛队伍（如frc254）
type Team struct {
	Key        string    `gorm:"column:key;type:varchar(16);primaryKey;comment:队伍Key，格式frc[TEAM_NUMBER]"`
	TeamNumber int       `gorm:"column:team_number;type:int;not null;index;comment:FIRST官方队号"`
	Nickname   string    `gorm:"column:nickname;type:varchar(256);not null;comment:队伍昵称"`
	Name       string    `gorm:"column:name;type:text;not null;comment:官方注册全名"`
	SchoolName *string   `gorm:"column:school_name;type:varchar(256);comment:学校/组织名称"`
	City       *string   `gorm:"column:city;type:varchar(128);comment:城市"`
	StateProv  *string   `gorm:"column:state_prov;type:varchar(128);comment:州/省"`
	Country    *string   `gorm:"column:country;type:varchar(128);comment:国家"`
	PostalCode *string   `gorm:"column:postal_code;type:varchar(32);comment:邮编"`
	Website    *string   `gorm:"column:website;type:varchar(256);comment:队伍官网"`
	RookieYear *int      `gorm:"column:rookie_year;type:int;index;comment:首次参赛年份"`
	CreatedAt  time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt  time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Team) TableName() string { return "teams" }

package model

import (
	"time"

	"gorm.io/datatypes"
)

// Event 赛事（可能带分区子赛事，parent_event_key自引用构成森林）
type Event struct {
	Key              string          `gorm:"column:key;type:varchar(16);primaryKey;comment:赛事Key，格式yyyy[EVENT_CODE]"`
	Name             string          `gorm:"column:name;type:varchar(256);not null;comment:官方赛事名称"`
	EventCode        string          `gorm:"column:event_code;type:varchar(16);not null;index;comment:FIRST赛事短码"`
	EventType        int             `gorm:"column:event_type;type:int;not null;comment:赛事类型枚举（Regional=0/District=1等）"`
	EventTypeString  string          `gorm:"column:event_type_string;type:varchar(64);not null;comment:赛事类型可读名"`
	Year             int             `gorm:"column:year;type:int;not null;index;comment:赛季年份"`
	Week             *int            `gorm:"column:week;type:int;comment:相对赛季首周的周次（0起），休赛期为空"`
	StartDate        time.Time       `gorm:"column:start_date;type:date;not null;comment:开始日期"`
	EndDate          time.Time       `gorm:"column:end_date;type:date;not null;comment:结束日期"`
	City             *string         `gorm:"column:city;type:varchar(128);comment:城市"`
	StateProv        *string         `gorm:"column:state_prov;type:varchar(128);comment:州/省"`
	Country          *string         `gorm:"column:country;type:varchar(128);comment:国家"`
	PostalCode       *string         `gorm:"column:postal_code;type:varchar(32);comment:邮编"`
	Address          *string         `gorm:"column:address;type:text;comment:场馆完整地址"`
	LocationName     *string         `gorm:"column:location_name;type:varchar(256);comment:场馆名称"`
	Lat              *float64        `gorm:"column:lat;type:numeric(9,6);comment:纬度"`
	Lng              *float64        `gorm:"column:lng;type:numeric(9,6);comment:经度"`
	Timezone         *string         `gorm:"column:timezone;type:varchar(64);comment:时区名"`
	ShortName        *string         `gorm:"column:short_name;type:varchar(128);comment:不含Regional/District后缀的短名"`
	Website          *string         `gorm:"column:website;type:varchar(256);comment:赛事官网"`
	GmapsPlaceID     *string         `gorm:"column:gmaps_place_id;type:varchar(128);comment:Google Maps Place ID"`
	GmapsURL         *string         `gorm:"column:gmaps_url;type:varchar(256);comment:Google Maps链接"`
	FirstEventID     *string         `gorm:"column:first_event_id;type:varchar(64);comment:FIRST内部赛事ID"`
	FirstEventCode   *string         `gorm:"column:first_event_code;type:varchar(32);comment:FIRST对外赛事码"`
	PlayoffType      *int            `gorm:"column:playoff_type;type:int;comment:淘汰赛类型枚举"`
	PlayoffTypeStr   *string         `gorm:"column:playoff_type_string;type:varchar(64);comment:淘汰赛类型可读名"`
	DistrictKey      *string         `gorm:"column:district_key;type:varchar(16);index;comment:所属赛区Key（赛区赛事才有）"`
	ParentEventKey   *string         `gorm:"column:parent_event_key;type:varchar(16);index;comment:父赛事Key（分区赛事指向总决赛）"`
	DivisionKeys     *datatypes.JSON `gorm:"column:division_keys;type:jsonb;comment:分区赛事Key数组（总决赛才有）"`
	CreatedAt        time.Time       `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (Event) TableName() string { return "events" }

// EventTeam 队伍参赛关系（复合主键event_key+team_key）
// 队伍必须先出现在此表，才能出现在比赛联盟/淘汰赛联盟/排名中
type EventTeam struct {
	EventKey  string    `gorm:"column:event_key;type:varchar(16);primaryKey;index;comment:赛事Key"`
	TeamKey   string    `gorm:"column:team_key;type:varchar(16);primaryKey;index;comment:队伍Key"`
	CreatedAt time.Time `gorm:"column:created_at;type:timestamp;default:now();comment:创建时间"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;default:now();comment:更新时间"`
}

func (EventTeam) TableName() string { return "event_teams" }

package model

// SyncType 同步类型枚举
type SyncType string

const (
	SyncFull SyncType = "full" // 全部赛事、全部年份
	SyncYear SyncType = "year" // 当前年份的非进行中赛事
	SyncLive SyncType = "live" // 当前正在进行的赛事
)

// 联盟颜色常量
const (
	AllianceRed  = "red"
	AllianceBlue = "blue"
)

// 比赛级别常量（qm=资格赛 ef/qf/sf=八强/四强/半决赛 f=决赛）
const (
	CompLevelQual      = "qm"
	CompLevelEighth    = "ef"
	CompLevelQuarter   = "qf"
	CompLevelSemi      = "sf"
	CompLevelFinal     = "f"
	UnplayedMatchScore = -1 // 未打比赛的约定得分
)

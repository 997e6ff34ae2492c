package graph

import (
	"fmt"
	"regexp"

	"FRCSync/internal/model"
)

var (
	eventKeyRe   = regexp.MustCompile(`^\d{4}[a-z0-9]+$`)
	teamKeyRe    = regexp.MustCompile(`^frc\d+$`)
	matchKeyRe   = regexp.MustCompile(`^\d{4}[a-z0-9]+_(qm|ef|qf|sf|f)\d*m\d+$`)
	compLevelRe  = regexp.MustCompile(`^(qm|ef|qf|sf|f)$`)
	colorRe      = regexp.MustCompile(`^(red|blue)$`)
	winningRe    = regexp.MustCompile(`^(red|blue|)$`)
	statusRe     = regexp.MustCompile(`^(eliminated|playing|won)$`)
	doubleElimRe = regexp.MustCompile(`^(Finals|Round [1-5])$`)
)

// Validate 校验单条实体记录：字段级约束 + 引用级约束（引用目标须存在于快照）
// 无副作用，返回找到的全部违规而非第一条
func Validate(record any, snap *Snapshot) ViolationSet {
	switch r := record.(type) {
	case *model.EventDistrict:
		return validateDistrict(r)
	case *model.Event:
		return validateEvent(r, snap)
	case *model.Team:
		return validateTeam(r)
	case *model.EventTeam:
		return validateEventTeam(r, snap)
	case *model.Match:
		return validateMatch(r, snap)
	case *model.MatchAlliance:
		return validateMatchAlliance(r, snap)
	case *model.MatchAllianceTeam:
		return validateMatchAllianceTeam(r, snap)
	case *model.Alliance:
		return validateAlliance(r, snap)
	case *model.AllianceTeam:
		return validateAllianceTeam(r, snap)
	case *model.Ranking:
		return validateRanking(r, snap)
	case *model.RankingEventInfo:
		return validateRankingEventInfo(r, snap)
	default:
		return ViolationSet{{Rule: "kind", Message: fmt.Sprintf("未知的实体类型: %T", record)}}
	}
}

func violate(kind Kind, key Key, rule, format string, args ...any) Violation {
	return Violation{Kind: kind, Key: key, Rule: rule, Message: fmt.Sprintf(format, args...)}
}

func validateDistrict(r *model.EventDistrict) ViolationSet {
	var vs ViolationSet
	k := DistrictKey(r.Key)
	if !eventKeyRe.MatchString(r.Key) {
		vs = append(vs, violate(KindDistrict, k, "format", "赛区key格式非法: %q", r.Key))
	}
	if r.Abbreviation == "" {
		vs = append(vs, violate(KindDistrict, k, "required", "abbreviation不能为空"))
	}
	if r.DisplayName == "" {
		vs = append(vs, violate(KindDistrict, k, "required", "display_name不能为空"))
	}
	if r.Year < 1992 {
		vs = append(vs, violate(KindDistrict, k, "range", "year必须>=1992: %d", r.Year))
	}
	return vs
}

func validateEvent(r *model.Event, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := EventKey(r.Key)
	if !eventKeyRe.MatchString(r.Key) {
		vs = append(vs, violate(KindEvent, k, "format", "赛事key格式非法: %q", r.Key))
	}
	if r.Name == "" {
		vs = append(vs, violate(KindEvent, k, "required", "name不能为空"))
	}
	if r.EventCode == "" {
		vs = append(vs, violate(KindEvent, k, "required", "event_code不能为空"))
	}
	if r.EventType < 0 {
		vs = append(vs, violate(KindEvent, k, "range", "event_type必须>=0: %d", r.EventType))
	}
	if r.Year < 1992 {
		vs = append(vs, violate(KindEvent, k, "range", "year必须>=1992: %d", r.Year))
	}
	if r.Week != nil && *r.Week < 0 {
		vs = append(vs, violate(KindEvent, k, "range", "week必须>=0: %d", *r.Week))
	}
	if r.StartDate.IsZero() || r.EndDate.IsZero() {
		vs = append(vs, violate(KindEvent, k, "required", "start_date/end_date不能为空"))
	}
	if r.Lat != nil && (*r.Lat < -90 || *r.Lat > 90) {
		vs = append(vs, violate(KindEvent, k, "range", "lat超出[-90,90]: %f", *r.Lat))
	}
	if r.Lng != nil && (*r.Lng < -180 || *r.Lng > 180) {
		vs = append(vs, violate(KindEvent, k, "range", "lng超出[-180,180]: %f", *r.Lng))
	}
	if r.PlayoffType != nil && *r.PlayoffType < 0 {
		vs = append(vs, violate(KindEvent, k, "range", "playoff_type必须>=0: %d", *r.PlayoffType))
	}
	if r.DistrictKey != nil {
		if !eventKeyRe.MatchString(*r.DistrictKey) {
			vs = append(vs, violate(KindEvent, k, "format", "district_key格式非法: %q", *r.DistrictKey))
		} else if !snap.Has(DistrictKey(*r.DistrictKey)) {
			vs = append(vs, violate(KindEvent, k, "reference", "引用的赛区不存在: %s", *r.DistrictKey))
		}
	}
	if r.ParentEventKey != nil {
		switch {
		case !eventKeyRe.MatchString(*r.ParentEventKey):
			vs = append(vs, violate(KindEvent, k, "format", "parent_event_key格式非法: %q", *r.ParentEventKey))
		case *r.ParentEventKey == r.Key:
			vs = append(vs, violate(KindEvent, k, "reference", "赛事不能是自己的父赛事"))
		case !snap.Has(EventKey(*r.ParentEventKey)):
			vs = append(vs, violate(KindEvent, k, "reference", "引用的父赛事不存在: %s", *r.ParentEventKey))
		}
	}
	return vs
}

func validateTeam(r *model.Team) ViolationSet {
	var vs ViolationSet
	k := TeamKey(r.Key)
	if !teamKeyRe.MatchString(r.Key) {
		vs = append(vs, violate(KindTeam, k, "format", "队伍key格式非法: %q", r.Key))
	}
	if r.TeamNumber <= 0 {
		vs = append(vs, violate(KindTeam, k, "range", "team_number必须>0: %d", r.TeamNumber))
	}
	if r.RookieYear != nil && *r.RookieYear < 1992 {
		vs = append(vs, violate(KindTeam, k, "range", "rookie_year必须>=1992: %d", *r.RookieYear))
	}
	return vs
}

func validateEventTeam(r *model.EventTeam, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := EventTeamKey(r.EventKey, r.TeamKey)
	if !snap.Has(EventKey(r.EventKey)) {
		vs = append(vs, violate(KindEventTeam, k, "reference", "引用的赛事不存在: %s", r.EventKey))
	}
	if !snap.Has(TeamKey(r.TeamKey)) {
		vs = append(vs, violate(KindEventTeam, k, "reference", "引用的队伍不存在: %s", r.TeamKey))
	}
	return vs
}

func validateMatch(r *model.Match, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := MatchKey(r.Key)
	if !matchKeyRe.MatchString(r.Key) {
		vs = append(vs, violate(KindMatch, k, "format", "比赛key格式非法: %q", r.Key))
	}
	if !compLevelRe.MatchString(r.CompLevel) {
		vs = append(vs, violate(KindMatch, k, "format", "comp_level非法: %q", r.CompLevel))
	}
	if r.SetNumber < 1 {
		vs = append(vs, violate(KindMatch, k, "range", "set_number必须>=1: %d", r.SetNumber))
	}
	if r.MatchNumber < 1 {
		vs = append(vs, violate(KindMatch, k, "range", "match_number必须>=1: %d", r.MatchNumber))
	}
	if !winningRe.MatchString(r.WinningAlliance) {
		vs = append(vs, violate(KindMatch, k, "format", "winning_alliance非法: %q", r.WinningAlliance))
	}
	if !snap.Has(EventKey(r.EventKey)) {
		vs = append(vs, violate(KindMatch, k, "reference", "引用的赛事不存在: %s", r.EventKey))
	}
	return vs
}

func validateMatchAlliance(r *model.MatchAlliance, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := MatchAllianceKey(r.MatchKey, r.AllianceColor)
	if !colorRe.MatchString(r.AllianceColor) {
		vs = append(vs, violate(KindMatchAlliance, k, "format", "alliance_color非法: %q", r.AllianceColor))
	}
	if r.Score < -1 {
		vs = append(vs, violate(KindMatchAlliance, k, "range", "score必须>=-1（-1表示未打）: %d", r.Score))
	}
	if !snap.Has(MatchKey(r.MatchKey)) {
		vs = append(vs, violate(KindMatchAlliance, k, "reference", "引用的比赛不存在: %s", r.MatchKey))
	}
	return vs
}

// validateMatchAllianceTeam 语义上match+color唯一确定一个MatchAlliance，
// 按此配对校验引用（不照搬上游可能写反的列配对）
func validateMatchAllianceTeam(r *model.MatchAllianceTeam, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := MatchAllianceTeamKey(r.MatchKey, r.AllianceColor, r.TeamKey)
	if !teamKeyRe.MatchString(r.TeamKey) {
		vs = append(vs, violate(KindMatchAllianceTeam, k, "format", "队伍key格式非法: %q", r.TeamKey))
	}
	if !snap.Has(MatchAllianceKey(r.MatchKey, r.AllianceColor)) {
		vs = append(vs, violate(KindMatchAllianceTeam, k, "reference",
			"引用的比赛联盟不存在: %s/%s", r.MatchKey, r.AllianceColor))
	}
	if !snap.Has(EventTeamKey(r.EventKey, r.TeamKey)) {
		vs = append(vs, violate(KindMatchAllianceTeam, k, "reference",
			"队伍%s未登记参加赛事%s（缺少event_team）", r.TeamKey, r.EventKey))
	}
	// 比赛key以赛事key为前缀，二者必须一致
	if len(r.MatchKey) <= len(r.EventKey) || r.MatchKey[:len(r.EventKey)+1] != r.EventKey+"_" {
		vs = append(vs, violate(KindMatchAllianceTeam, k, "reference",
			"match_key %q不属于赛事%q", r.MatchKey, r.EventKey))
	}
	return vs
}

func validateAlliance(r *model.Alliance, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := AllianceKey(r.EventKey, r.Name)
	if r.Name == "" {
		vs = append(vs, violate(KindAlliance, k, "required", "联盟name不能为空"))
	}
	if !snap.Has(EventKey(r.EventKey)) {
		vs = append(vs, violate(KindAlliance, k, "reference", "引用的赛事不存在: %s", r.EventKey))
	}
	if r.Order != nil && *r.Order < 1 {
		vs = append(vs, violate(KindAlliance, k, "range", "order必须>=1: %d", *r.Order))
	}
	for name, ref := range map[string]*string{"backup_in": r.BackupIn, "backup_out": r.BackupOut} {
		if ref == nil {
			continue
		}
		if !teamKeyRe.MatchString(*ref) {
			vs = append(vs, violate(KindAlliance, k, "format", "%s格式非法: %q", name, *ref))
		} else if !snap.Has(TeamKey(*ref)) {
			vs = append(vs, violate(KindAlliance, k, "reference", "%s引用的队伍不存在: %s", name, *ref))
		}
	}
	if r.Status != nil && !statusRe.MatchString(*r.Status) {
		vs = append(vs, violate(KindAlliance, k, "format", "status非法: %q", *r.Status))
	}
	if r.Level != nil && !compLevelRe.MatchString(*r.Level) {
		vs = append(vs, violate(KindAlliance, k, "format", "level非法: %q", *r.Level))
	}
	if r.DoubleElimRound != nil && !doubleElimRe.MatchString(*r.DoubleElimRound) {
		vs = append(vs, violate(KindAlliance, k, "format", "double_elim_round非法: %q", *r.DoubleElimRound))
	}
	if r.RoundRobinRank != nil && *r.RoundRobinRank < 1 {
		vs = append(vs, violate(KindAlliance, k, "range", "round_robin_rank必须>=1: %d", *r.RoundRobinRank))
	}
	if r.PlayoffType != nil && *r.PlayoffType < 0 {
		vs = append(vs, violate(KindAlliance, k, "range", "playoff_type必须>=0: %d", *r.PlayoffType))
	}
	for name, c := range map[string]*int{
		"wins": r.Wins, "losses": r.Losses, "ties": r.Ties,
		"current_level_wins": r.CurrentLevelWins, "current_level_losses": r.CurrentLevelLoss,
		"current_level_ties": r.CurrentLevelTies,
	} {
		if c != nil && *c < 0 {
			vs = append(vs, violate(KindAlliance, k, "range", "%s必须>=0: %d", name, *c))
		}
	}
	return vs
}

func validateAllianceTeam(r *model.AllianceTeam, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := AllianceTeamKey(r.EventKey, r.AllianceName, r.TeamKey)
	if r.PickOrder < 1 {
		vs = append(vs, violate(KindAllianceTeam, k, "range", "pick_order必须>=1: %d", r.PickOrder))
	}
	if !snap.Has(AllianceKey(r.EventKey, r.AllianceName)) {
		vs = append(vs, violate(KindAllianceTeam, k, "reference",
			"引用的联盟不存在: %s/%s", r.EventKey, r.AllianceName))
	}
	if !snap.Has(EventTeamKey(r.EventKey, r.TeamKey)) {
		vs = append(vs, violate(KindAllianceTeam, k, "reference",
			"队伍%s未登记参加赛事%s（缺少event_team）", r.TeamKey, r.EventKey))
	}
	return vs
}

func validateRanking(r *model.Ranking, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := RankingKey(r.EventKey, r.TeamKey)
	if r.Rank < 1 {
		vs = append(vs, violate(KindRanking, k, "range", "rank必须>=1: %d", r.Rank))
	}
	if r.MatchesPlayed < 0 {
		vs = append(vs, violate(KindRanking, k, "range", "matches_played必须>=0: %d", r.MatchesPlayed))
	}
	if r.DQ < 0 {
		vs = append(vs, violate(KindRanking, k, "range", "dq必须>=0: %d", r.DQ))
	}
	for name, c := range map[string]*int{"wins": r.Wins, "losses": r.Losses, "ties": r.Ties} {
		if c != nil && *c < 0 {
			vs = append(vs, violate(KindRanking, k, "range", "%s必须>=0: %d", name, *c))
		}
	}
	if !snap.Has(EventTeamKey(r.EventKey, r.TeamKey)) {
		vs = append(vs, violate(KindRanking, k, "reference",
			"队伍%s未登记参加赛事%s（缺少event_team）", r.TeamKey, r.EventKey))
	}
	return vs
}

func validateRankingEventInfo(r *model.RankingEventInfo, snap *Snapshot) ViolationSet {
	var vs ViolationSet
	k := RankingEventInfoKey(r.EventKey)
	if !snap.Has(EventKey(r.EventKey)) {
		vs = append(vs, violate(KindRankingEventInfo, k, "reference", "引用的赛事不存在: %s", r.EventKey))
	}
	return vs
}

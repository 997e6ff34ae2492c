package graph

import (
	"fmt"

	"FRCSync/internal/model"
)

// Kind 实体种类
type Kind string

const (
	KindDistrict          Kind = "event_district"
	KindEvent             Kind = "event"
	KindTeam              Kind = "team"
	KindEventTeam         Kind = "event_team"
	KindMatch             Kind = "match"
	KindMatchAlliance     Kind = "match_alliance"
	KindMatchAllianceTeam Kind = "match_alliance_team"
	KindAlliance          Kind = "alliance"
	KindAllianceTeam      Kind = "alliance_team"
	KindRanking           Kind = "ranking"
	KindRankingEventInfo  Kind = "ranking_event_info"
)

// Key 实体的自然键元组，值类型、可比较，集合成员判定直接用==
// 复合键按固定位次填入Parts，未用位置留空串
type Key struct {
	Kind  Kind
	Parts [3]string
}

func (k Key) String() string {
	s := string(k.Kind) + ":" + k.Parts[0]
	for _, p := range k.Parts[1:] {
		if p != "" {
			s += "/" + p
		}
	}
	return s
}

func DistrictKey(key string) Key { return Key{Kind: KindDistrict, Parts: [3]string{key}} }
func EventKey(key string) Key    { return Key{Kind: KindEvent, Parts: [3]string{key}} }
func TeamKey(key string) Key     { return Key{Kind: KindTeam, Parts: [3]string{key}} }
func MatchKey(key string) Key    { return Key{Kind: KindMatch, Parts: [3]string{key}} }

func EventTeamKey(eventKey, teamKey string) Key {
	return Key{Kind: KindEventTeam, Parts: [3]string{eventKey, teamKey}}
}

func MatchAllianceKey(matchKey, color string) Key {
	return Key{Kind: KindMatchAlliance, Parts: [3]string{matchKey, color}}
}

func MatchAllianceTeamKey(matchKey, color, teamKey string) Key {
	return Key{Kind: KindMatchAllianceTeam, Parts: [3]string{matchKey, color, teamKey}}
}

func AllianceKey(eventKey, name string) Key {
	return Key{Kind: KindAlliance, Parts: [3]string{eventKey, name}}
}

func AllianceTeamKey(eventKey, name, teamKey string) Key {
	return Key{Kind: KindAllianceTeam, Parts: [3]string{eventKey, name, teamKey}}
}

func RankingKey(eventKey, teamKey string) Key {
	return Key{Kind: KindRanking, Parts: [3]string{eventKey, teamKey}}
}

func RankingEventInfoKey(eventKey string) Key {
	return Key{Kind: KindRankingEventInfo, Parts: [3]string{eventKey}}
}

// KeyOf 从实体记录提取自然键
func KeyOf(record any) (Key, error) {
	switch r := record.(type) {
	case *model.EventDistrict:
		return DistrictKey(r.Key), nil
	case *model.Event:
		return EventKey(r.Key), nil
	case *model.Team:
		return TeamKey(r.Key), nil
	case *model.EventTeam:
		return EventTeamKey(r.EventKey, r.TeamKey), nil
	case *model.Match:
		return MatchKey(r.Key), nil
	case *model.MatchAlliance:
		return MatchAllianceKey(r.MatchKey, r.AllianceColor), nil
	case *model.MatchAllianceTeam:
		return MatchAllianceTeamKey(r.MatchKey, r.AllianceColor, r.TeamKey), nil
	case *model.Alliance:
		return AllianceKey(r.EventKey, r.Name), nil
	case *model.AllianceTeam:
		return AllianceTeamKey(r.EventKey, r.AllianceName, r.TeamKey), nil
	case *model.Ranking:
		return RankingKey(r.EventKey, r.TeamKey), nil
	case *model.RankingEventInfo:
		return RankingEventInfoKey(r.EventKey), nil
	default:
		return Key{}, fmt.Errorf("未知的实体类型: %T", record)
	}
}

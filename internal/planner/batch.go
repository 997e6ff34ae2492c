package planner

import (
	"FRCSync/internal/graph"
	"FRCSync/internal/model"
)

// Batch 一个逻辑单元（通常是单个赛事）待写入的全部实体记录
type Batch struct {
	Districts          []*model.EventDistrict
	Events             []*model.Event
	Teams              []*model.Team
	EventTeams         []*model.EventTeam
	Matches            []*model.Match
	MatchAlliances     []*model.MatchAlliance
	MatchAllianceTeams []*model.MatchAllianceTeam
	Alliances          []*model.Alliance
	AllianceTeams      []*model.AllianceTeam
	Rankings           []*model.Ranking
	RankingInfos       []*model.RankingEventInfo
}

// Size 批内记录总数
func (b *Batch) Size() int {
	return len(b.Districts) + len(b.Events) + len(b.Teams) + len(b.EventTeams) +
		len(b.Matches) + len(b.MatchAlliances) + len(b.MatchAllianceTeams) +
		len(b.Alliances) + len(b.AllianceTeams) + len(b.Rankings) + len(b.RankingInfos)
}

func (b *Batch) Empty() bool {
	return b.Size() == 0
}

// dedupe 批内按自然键去重，后出现的记录覆盖先出现的（last-write-wins）
// 保证同一键在一个批内至多写一次，配合存储层upsert满足幂等
func dedupe[T any](records []T) []T {
	if len(records) == 0 {
		return records
	}
	seen := make(map[graph.Key]int, len(records))
	out := make([]T, 0, len(records))
	for _, r := range records {
		k, err := graph.KeyOf(r)
		if err != nil {
			out = append(out, r)
			continue
		}
		if idx, ok := seen[k]; ok {
			out[idx] = r
			continue
		}
		seen[k] = len(out)
		out = append(out, r)
	}
	return out
}

// Dedupe 对批内每类记录去重后返回自身（原地修改）
func (b *Batch) Dedupe() *Batch {
	b.Districts = dedupe(b.Districts)
	b.Events = dedupe(b.Events)
	b.Teams = dedupe(b.Teams)
	b.EventTeams = dedupe(b.EventTeams)
	b.Matches = dedupe(b.Matches)
	b.MatchAlliances = dedupe(b.MatchAlliances)
	b.MatchAllianceTeams = dedupe(b.MatchAllianceTeams)
	b.Alliances = dedupe(b.Alliances)
	b.AllianceTeams = dedupe(b.AllianceTeams)
	b.Rankings = dedupe(b.Rankings)
	b.RankingInfos = dedupe(b.RankingInfos)
	return b
}

package planner

import (
	"fmt"
	"strings"

	"FRCSync/internal/graph"
	"FRCSync/internal/model"
)

// UnresolvedParentError 批内与库内都找不到父赛事，迭代放置失败
type UnresolvedParentError struct {
	EventKeys []string // 未能放置的赛事key
}

func (e *UnresolvedParentError) Error() string {
	return fmt.Sprintf("父赛事无法解析（批内与库内均不存在或成环）: %s", strings.Join(e.EventKeys, ", "))
}

// Planner 依赖有序的upsert规划器
// 按外键图的固定拓扑分层排序，并在“已提交快照+批内先序记录”的模拟快照上逐条校验；
// 任一记录违规则整批失败，不提交任何记录
type Planner struct {
	maxRounds int // 父子赛事迭代放置的最大轮数，防御环状输入
}

func New(maxRounds int) *Planner {
	if maxRounds <= 0 {
		maxRounds = 10
	}
	return &Planner{maxRounds: maxRounds}
}

// Plan 计算安全写入顺序并整批校验
// 返回按依赖序排列的记录切片；校验失败返回graph.ViolationSet，
// 父赛事不可解析返回*UnresolvedParentError，两种情况都不产生任何可写结果
func (p *Planner) Plan(batch *Batch, committed *graph.Snapshot) ([]any, error) {
	batch.Dedupe()

	sim := committed.Clone()
	ordered := make([]any, 0, batch.Size())
	var violations graph.ViolationSet

	place := func(record any) {
		violations = append(violations, graph.Validate(record, sim)...)
		if k, err := graph.KeyOf(record); err == nil {
			// 违规记录的键也进入模拟快照：整批反正会被拒绝，
			// 但后续记录不必再为同一个缺失连锁报错
			sim.Add(k)
		}
		ordered = append(ordered, record)
	}

	// 第一层：赛区（叶子实体）
	for _, r := range batch.Districts {
		place(r)
	}

	// 第二层：赛事。自引用的父子边用多轮放置解决：
	// 先放无父或父已在快照中的赛事，再迭代剩余赛事直到收敛
	events, unresolved := p.placeEvents(batch.Events, sim)
	if len(unresolved) > 0 {
		return nil, &UnresolvedParentError{EventKeys: unresolved}
	}
	for _, r := range events {
		place(r)
	}

	// 第三层：队伍（与赛事无依赖关系，可放任意位置，保持固定层序）
	for _, r := range batch.Teams {
		place(r)
	}

	// 第四层：参赛关系（依赖赛事+队伍）
	for _, r := range batch.EventTeams {
		place(r)
	}

	// 第五层：比赛、淘汰赛联盟、排名元信息（依赖赛事）
	for _, r := range batch.Matches {
		place(r)
	}
	for _, r := range batch.Alliances {
		place(r)
	}
	for _, r := range batch.RankingInfos {
		place(r)
	}

	// 第六层：比赛联盟、联盟队伍、排名（依赖上一层+参赛关系）
	for _, r := range batch.MatchAlliances {
		place(r)
	}
	for _, r := range batch.AllianceTeams {
		place(r)
	}
	for _, r := range batch.Rankings {
		place(r)
	}

	// 第七层：比赛联盟队伍（依赖比赛联盟+参赛关系）
	for _, r := range batch.MatchAllianceTeams {
		place(r)
	}

	if !violations.Empty() {
		return nil, violations
	}
	return ordered, nil
}

// placeEvents 多轮拓扑放置赛事：每轮放入父已可见的赛事，轮数有上界
// 环状或悬空的父引用不会无限递归，而是作为未解析结果显式返回
func (p *Planner) placeEvents(events []*model.Event, sim *graph.Snapshot) ([]*model.Event, []string) {
	placed := make([]*model.Event, 0, len(events))
	pending := make([]*model.Event, len(events))
	copy(pending, events)

	// 放置视图：只记录本层已接受的赛事键，避免提前污染校验快照
	visible := sim.Clone()

	for round := 0; round < p.maxRounds && len(pending) > 0; round++ {
		next := pending[:0:0]
		progressed := false
		for _, ev := range pending {
			resolvable := ev.ParentEventKey == nil ||
				(*ev.ParentEventKey != ev.Key && visible.Has(graph.EventKey(*ev.ParentEventKey)))
			if resolvable {
				placed = append(placed, ev)
				visible.Add(graph.EventKey(ev.Key))
				progressed = true
			} else {
				next = append(next, ev)
			}
		}
		pending = next
		if !progressed {
			break
		}
	}

	if len(pending) == 0 {
		return placed, nil
	}
	keys := make([]string, len(pending))
	for i, ev := range pending {
		keys[i] = ev.Key
	}
	return nil, keys
}

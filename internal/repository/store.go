package repository

import (
	"context"
	"fmt"

	"FRCSync/internal/graph"
	"FRCSync/internal/interfaces"
	"FRCSync/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntityStore GORM实现的存储适配器
// 每类实体按自然键ON CONFLICT upsert，事务内逐条写入，commit全有或全无
type EntityStore struct {
	db *gorm.DB
}

func NewEntityStore(db *gorm.DB) interfaces.EntityStore {
	return &EntityStore{db: db}
}

func (s *EntityStore) Begin(ctx context.Context) (interfaces.StoreTx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("开启事务失败: %w", tx.Error)
	}
	return &storeTx{tx: tx}, nil
}

type storeTx struct {
	tx *gorm.DB
}

// upsertRule 每类实体的冲突键与可更新列
type upsertRule struct {
	conflict []clause.Column
	update   []string
}

func cols(names ...string) []clause.Column {
	out := make([]clause.Column, len(names))
	for i, n := range names {
		out[i] = clause.Column{Name: n}
	}
	return out
}

// ruleFor 实体的upsert规则：冲突列=完整主键元组，更新列=全部非键业务列+updated_at
// created_at不在更新列中，保留首次写入时间
func ruleFor(record any) (upsertRule, error) {
	switch record.(type) {
	case *model.EventDistrict:
		return upsertRule{cols("key"), []string{
			"abbreviation", "display_name", "year", "updated_at",
		}}, nil
	case *model.Event:
		return upsertRule{cols("key"), []string{
			"name", "event_code", "event_type", "event_type_string", "year", "week",
			"start_date", "end_date", "city", "state_prov", "country", "postal_code",
			"address", "location_name", "lat", "lng", "timezone", "short_name", "website",
			"gmaps_place_id", "gmaps_url", "first_event_id", "first_event_code",
			"playoff_type", "playoff_type_string", "district_key", "parent_event_key",
			"division_keys", "updated_at",
		}}, nil
	case *model.Team:
		return upsertRule{cols("key"), []string{
			"team_number", "nickname", "name", "school_name", "city", "state_prov",
			"country", "postal_code", "website", "rookie_year", "updated_at",
		}}, nil
	case *model.EventTeam:
		return upsertRule{cols("event_key", "team_key"), []string{"updated_at"}}, nil
	case *model.Match:
		return upsertRule{cols("key"), []string{
			"event_key", "comp_level", "set_number", "match_number", "winning_alliance",
			"time", "actual_time", "predicted_time", "post_result_time", "updated_at",
		}}, nil
	case *model.MatchAlliance:
		return upsertRule{cols("match_key", "alliance_color"), []string{
			"score", "score_breakdown", "updated_at",
		}}, nil
	case *model.MatchAllianceTeam:
		return upsertRule{cols("match_key", "alliance_color", "team_key"), []string{
			"event_key", "is_surrogate", "is_dq", "updated_at",
		}}, nil
	case *model.Alliance:
		return upsertRule{cols("event_key", "name"), []string{
			"alliance_order", "backup_in", "backup_out", "status", "level",
			"wins", "losses", "ties", "current_level_wins", "current_level_losses",
			"current_level_ties", "playoff_type", "playoff_average", "double_elim_round",
			"round_robin_rank", "advanced_to_round_robin_finals", "updated_at",
		}}, nil
	case *model.AllianceTeam:
		return upsertRule{cols("event_key", "alliance_name", "team_key"), []string{
			"pick_order", "updated_at",
		}}, nil
	case *model.Ranking:
		return upsertRule{cols("event_key", "team_key"), []string{
			"rank", "matches_played", "wins", "losses", "ties", "dq", "qual_average",
			"extra_stats", "sort_orders", "updated_at",
		}}, nil
	case *model.RankingEventInfo:
		return upsertRule{cols("event_key"), []string{
			"extra_stats_info", "sort_order_info", "updated_at",
		}}, nil
	default:
		return upsertRule{}, fmt.Errorf("未知的实体类型: %T", record)
	}
}

func (t *storeTx) Upsert(record any) error {
	rule, err := ruleFor(record)
	if err != nil {
		return err
	}
	if err := t.tx.Clauses(clause.OnConflict{
		Columns:   rule.conflict,
		DoUpdates: clause.AssignmentColumns(rule.update),
	}).Create(record).Error; err != nil {
		k, _ := graph.KeyOf(record)
		return fmt.Errorf("upsert失败 %s: %w", k, err)
	}
	return nil
}

func (t *storeTx) Commit() error {
	if err := t.tx.Commit().Error; err != nil {
		return fmt.Errorf("提交事务失败: %w", err)
	}
	return nil
}

func (t *storeTx) Rollback() error {
	return t.tx.Rollback().Error
}

// LoadSnapshot 只读取各表的键列构建实体图快照
// 赛事/队伍/赛区全量加载（父赛事与跨赛事引用需要全局可见）；
// junction类表只在传入eventKeys时按赛事过滤加载——
// 赛季批与队伍分页批不引用junction行，无范围调用直接跳过这些表
func (s *EntityStore) LoadSnapshot(ctx context.Context, eventKeys ...string) (*graph.Snapshot, error) {
	db := s.db.WithContext(ctx)
	snap := graph.NewSnapshot()

	var keys []string
	if err := db.Model(&model.EventDistrict{}).Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("加载赛区键失败: %w", err)
	}
	for _, k := range keys {
		snap.Add(graph.DistrictKey(k))
	}

	keys = keys[:0]
	if err := db.Model(&model.Event{}).Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("加载赛事键失败: %w", err)
	}
	for _, k := range keys {
		snap.Add(graph.EventKey(k))
	}

	keys = keys[:0]
	if err := db.Model(&model.Team{}).Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("加载队伍键失败: %w", err)
	}
	for _, k := range keys {
		snap.Add(graph.TeamKey(k))
	}

	if len(eventKeys) == 0 {
		return snap, nil
	}

	scoped := func(q *gorm.DB, col string) *gorm.DB {
		return q.Where(col+" IN ?", eventKeys)
	}

	var pairs []struct {
		EventKey string
		TeamKey  string
	}
	if err := scoped(db.Model(&model.EventTeam{}), "event_key").
		Select("event_key", "team_key").Find(&pairs).Error; err != nil {
		return nil, fmt.Errorf("加载参赛关系键失败: %w", err)
	}
	for _, p := range pairs {
		snap.Add(graph.EventTeamKey(p.EventKey, p.TeamKey))
	}

	keys = keys[:0]
	if err := scoped(db.Model(&model.Match{}), "event_key").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("加载比赛键失败: %w", err)
	}
	for _, k := range keys {
		snap.Add(graph.MatchKey(k))
	}

	var mas []struct {
		MatchKey      string
		AllianceColor string
	}
	q := db.Model(&model.MatchAlliance{}).Where("match_key IN (?)",
		db.Model(&model.Match{}).Select("key").Where("event_key IN ?", eventKeys))
	if err := q.Select("match_key", "alliance_color").Find(&mas).Error; err != nil {
		return nil, fmt.Errorf("加载比赛联盟键失败: %w", err)
	}
	for _, ma := range mas {
		snap.Add(graph.MatchAllianceKey(ma.MatchKey, ma.AllianceColor))
	}

	var als []struct {
		EventKey string
		Name     string
	}
	if err := scoped(db.Model(&model.Alliance{}), "event_key").
		Select("event_key", "name").Find(&als).Error; err != nil {
		return nil, fmt.Errorf("加载联盟键失败: %w", err)
	}
	for _, a := range als {
		snap.Add(graph.AllianceKey(a.EventKey, a.Name))
	}

	keys = keys[:0]
	if err := scoped(db.Model(&model.RankingEventInfo{}), "event_key").
		Pluck("event_key", &keys).Error; err != nil {
		return nil, fmt.Errorf("加载排名元信息键失败: %w", err)
	}
	for _, k := range keys {
		snap.Add(graph.RankingEventInfoKey(k))
	}

	pairs = pairs[:0]
	if err := scoped(db.Model(&model.Ranking{}), "event_key").
		Select("event_key", "team_key").Find(&pairs).Error; err != nil {
		return nil, fmt.Errorf("加载排名键失败: %w", err)
	}
	for _, p := range pairs {
		snap.Add(graph.RankingKey(p.EventKey, p.TeamKey))
	}

	return snap, nil
}

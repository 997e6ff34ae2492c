package repository

import (
	"context"
	"fmt"
	"time"

	"FRCSync/internal/model"

	"gorm.io/gorm"
)

// EventRepository 赛事维度的只读查询：同步范围选取、陈旧检测、API查询
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListEventKeys 按同步类型选取待处理的赛事key
// full=全部赛事；year=当年赛事；live=今天处于起止日期区间内的赛事
func (r *EventRepository) ListEventKeys(ctx context.Context, syncType model.SyncType, now time.Time) ([]string, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{})
	switch syncType {
	case model.SyncFull:
		// 不过滤
	case model.SyncYear:
		q = q.Where("year = ?", now.Year())
	case model.SyncLive:
		today := now.Format("2006-01-02")
		q = q.Where("start_date <= ? AND end_date >= ?", today, today)
	default:
		return nil, fmt.Errorf("未知的同步类型: %s", syncType)
	}

	var keys []string
	if err := q.Order("key ASC").Pluck("key", &keys).Error; err != nil {
		return nil, fmt.Errorf("查询赛事key失败: %w", err)
	}
	return keys, nil
}

// ListStaleEventKeys 陈旧检测：结束日期早于cutoff但仍有未打比赛（score=-1）的赛事
// 上游消失的记录保留最后已知状态，这里只标记上报，不删除
func (r *EventRepository) ListStaleEventKeys(ctx context.Context, cutoff time.Time) ([]string, error) {
	var keys []string
	err := r.db.WithContext(ctx).Model(&model.Event{}).
		Where("end_date < ?", cutoff.Format("2006-01-02")).
		Where("key IN (?)", r.db.Model(&model.Match{}).
			Select("DISTINCT event_key").
			Where("key IN (?)", r.db.Model(&model.MatchAlliance{}).
				Select("match_key").
				Where("score = ?", model.UnplayedMatchScore))).
		Order("key ASC").
		Pluck("key", &keys).Error
	if err != nil {
		return nil, fmt.Errorf("查询陈旧赛事失败: %w", err)
	}
	return keys, nil
}

// EventFilter 赛事列表筛选
type EventFilter struct {
	Year        int    // 赛季年份，0不过滤
	DistrictKey string // 赛区key，空不过滤
	EventType   *int   // 赛事类型，nil不过滤
}

// ListEvents 分页查询赛事列表（API查询接口用）
func (r *EventRepository) ListEvents(ctx context.Context, filter EventFilter, page, pageSize int) ([]*model.Event, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	q := r.db.WithContext(ctx).Model(&model.Event{})
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	if filter.DistrictKey != "" {
		q = q.Where("district_key = ?", filter.DistrictKey)
	}
	if filter.EventType != nil {
		q = q.Where("event_type = ?", *filter.EventType)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []*model.Event
	if err := q.Order("start_date ASC, key ASC").
		Offset((page - 1) * pageSize).Limit(pageSize).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// GetEvent 按key查询单个赛事
func (r *EventRepository) GetEvent(ctx context.Context, key string) (*model.Event, error) {
	var ev model.Event
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&ev).Error; err != nil {
		return nil, err
	}
	return &ev, nil
}

// ListEventRankings 查询某赛事全部排名（按rank升序）
func (r *EventRepository) ListEventRankings(ctx context.Context, eventKey string) ([]*model.Ranking, error) {
	var rankings []*model.Ranking
	if err := r.db.WithContext(ctx).
		Where("event_key = ?", eventKey).
		Order("rank ASC").Find(&rankings).Error; err != nil {
		return nil, err
	}
	return rankings, nil
}

// GetTeam 按key查询队伍
func (r *EventRepository) GetTeam(ctx context.Context, key string) (*model.Team, error) {
	var team model.Team
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&team).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

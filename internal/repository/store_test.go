package repository

import (
	"context"
	"testing"
	"time"

	"FRCSync/internal/graph"
	"FRCSync/internal/model"
	"FRCSync/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEvent(key string, year int, start, end time.Time) *model.Event {
	return &model.Event{
		Key:             key,
		Name:            "赛事" + key,
		EventCode:       key[4:],
		EventTypeString: "Regional",
		Year:            year,
		StartDate:       start,
		EndDate:         end,
	}
}

func mustCommit(t *testing.T, db *gorm.DB, records ...any) {
	t.Helper()
	store := NewEntityStore(db)
	tx, err := store.Begin(context.Background())
	require.NoError(t, err)
	for _, r := range records {
		require.NoError(t, tx.Upsert(r))
	}
	require.NoError(t, tx.Commit())
}

// 同一批数据重放两次：行数不变，新字段值生效（幂等upsert）
func TestUpsertIdempotentReingest(t *testing.T) {
	db := testutil.NewDB(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	mustCommit(t, db,
		newEvent("2024casj", 2024, start, end),
		&model.Team{Key: "frc254", TeamNumber: 254, Nickname: "旧昵称", Name: "NASA"},
		&model.EventTeam{EventKey: "2024casj", TeamKey: "frc254"},
	)

	// 重放：队伍昵称变了
	mustCommit(t, db,
		newEvent("2024casj", 2024, start, end),
		&model.Team{Key: "frc254", TeamNumber: 254, Nickname: "新昵称", Name: "NASA"},
		&model.EventTeam{EventKey: "2024casj", TeamKey: "frc254"},
	)

	var teamCount, etCount int64
	require.NoError(t, db.Model(&model.Team{}).Count(&teamCount).Error)
	require.NoError(t, db.Model(&model.EventTeam{}).Count(&etCount).Error)
	assert.EqualValues(t, 1, teamCount)
	assert.EqualValues(t, 1, etCount)

	var team model.Team
	require.NoError(t, db.First(&team, "key = ?", "frc254").Error)
	assert.Equal(t, "新昵称", team.Nickname)
}

// rollback后库内不留任何痕迹
func TestTxRollbackLeavesNothing(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewEntityStore(db)

	tx, err := store.Begin(context.Background())
	require.NoError(t, err)
	require.NoError(t, tx.Upsert(&model.Team{Key: "frc254", TeamNumber: 254, Nickname: "x", Name: "y"}))
	require.NoError(t, tx.Rollback())

	var count int64
	require.NoError(t, db.Model(&model.Team{}).Count(&count).Error)
	assert.Zero(t, count)
}

// 快照：赛事/队伍键全局可见，junction键按赛事裁剪
func TestLoadSnapshotScoped(t *testing.T) {
	db := testutil.NewDB(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	mustCommit(t, db,
		newEvent("2024casj", 2024, start, end),
		newEvent("2024cada", 2024, start, end),
		&model.Team{Key: "frc254", TeamNumber: 254, Nickname: "a", Name: "b"},
		&model.EventTeam{EventKey: "2024casj", TeamKey: "frc254"},
		&model.EventTeam{EventKey: "2024cada", TeamKey: "frc254"},
		&model.Match{Key: "2024casj_qm1", EventKey: "2024casj", CompLevel: "qm", SetNumber: 1, MatchNumber: 1},
		&model.Match{Key: "2024cada_qm1", EventKey: "2024cada", CompLevel: "qm", SetNumber: 1, MatchNumber: 1},
		&model.MatchAlliance{MatchKey: "2024casj_qm1", AllianceColor: "red", Score: 10},
		&model.MatchAlliance{MatchKey: "2024cada_qm1", AllianceColor: "red", Score: 20},
	)

	store := NewEntityStore(db)
	snap, err := store.LoadSnapshot(context.Background(), "2024casj")
	require.NoError(t, err)

	assert.True(t, snap.Has(graph.EventKey("2024casj")))
	assert.True(t, snap.Has(graph.EventKey("2024cada")), "赛事键不受裁剪")
	assert.True(t, snap.Has(graph.TeamKey("frc254")))
	assert.True(t, snap.Has(graph.EventTeamKey("2024casj", "frc254")))
	assert.False(t, snap.Has(graph.EventTeamKey("2024cada", "frc254")), "非本赛事的junction键应被裁掉")
	assert.True(t, snap.Has(graph.MatchKey("2024casj_qm1")))
	assert.False(t, snap.Has(graph.MatchKey("2024cada_qm1")))
	assert.True(t, snap.Has(graph.MatchAllianceKey("2024casj_qm1", "red")))
	assert.False(t, snap.Has(graph.MatchAllianceKey("2024cada_qm1", "red")))

	// 不传赛事：只加载全局实体键，junction表完全不扫
	global, err := store.LoadSnapshot(context.Background())
	require.NoError(t, err)
	assert.True(t, global.Has(graph.EventKey("2024cada")))
	assert.True(t, global.Has(graph.TeamKey("frc254")))
	assert.False(t, global.Has(graph.EventTeamKey("2024casj", "frc254")))
	assert.False(t, global.Has(graph.MatchKey("2024casj_qm1")))
	assert.False(t, global.Has(graph.MatchAllianceKey("2024cada_qm1", "red")))
}

// 两个事务交错写同一队伍行：提交后整行来自后提交的那条记录，不出现字段拼接
// （SQLite单写者，写阶段确定性串行，事务生命周期交叠）
func TestInterleavedUpsertsSameTeamWholeRowWins(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()

	website := "https://www.team254.com"
	first := &model.Team{Key: "frc254", TeamNumber: 254, Nickname: "一号写者", Name: "NASA", Website: &website}
	city := "San Jose"
	second := &model.Team{Key: "frc254", TeamNumber: 254, Nickname: "二号写者", Name: "NASA", City: &city}

	tx1, err := store.Begin(ctx)
	require.NoError(t, err)
	tx2, err := store.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, tx1.Upsert(first))
	require.NoError(t, tx1.Commit())
	require.NoError(t, tx2.Upsert(second))
	require.NoError(t, tx2.Commit())

	var row model.Team
	require.NoError(t, db.First(&row, "key = ?", "frc254").Error)
	assert.Equal(t, "二号写者", row.Nickname)
	require.NotNil(t, row.City)
	assert.Equal(t, "San Jose", *row.City)
	assert.Nil(t, row.Website, "后提交者整行覆盖，先提交者的website不得残留")

	var count int64
	require.NoError(t, db.Model(&model.Team{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

// 不相交赛事的两个事务交叠执行：互不阻塞对方提交，双双完整落库
func TestInterleavedTransactionsDisjointEvents(t *testing.T) {
	db := testutil.NewDB(t)
	store := NewEntityStore(db)
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	tx1, err := store.Begin(ctx)
	require.NoError(t, err)
	tx2, err := store.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, tx1.Upsert(newEvent("2024casj", 2024, start, end)))
	require.NoError(t, tx1.Upsert(&model.Team{Key: "frc254", TeamNumber: 254, Nickname: "a", Name: "b"}))
	require.NoError(t, tx1.Upsert(&model.EventTeam{EventKey: "2024casj", TeamKey: "frc254"}))
	require.NoError(t, tx1.Commit())

	require.NoError(t, tx2.Upsert(newEvent("2024cada", 2024, start, end)))
	require.NoError(t, tx2.Upsert(&model.Team{Key: "frc148", TeamNumber: 148, Nickname: "c", Name: "d"}))
	require.NoError(t, tx2.Upsert(&model.EventTeam{EventKey: "2024cada", TeamKey: "frc148"}))
	require.NoError(t, tx2.Commit())

	var events, teams, memberships int64
	require.NoError(t, db.Model(&model.Event{}).Count(&events).Error)
	require.NoError(t, db.Model(&model.Team{}).Count(&teams).Error)
	require.NoError(t, db.Model(&model.EventTeam{}).Count(&memberships).Error)
	assert.EqualValues(t, 2, events)
	assert.EqualValues(t, 2, teams)
	assert.EqualValues(t, 2, memberships)

	var et model.EventTeam
	require.NoError(t, db.First(&et, "event_key = ? AND team_key = ?", "2024cada", "frc148").Error)
}

func TestETagRepositoryRoundTrip(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewETagRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, "/events/2024", `W/"v1"`))
	require.NoError(t, repo.Upsert(ctx, "/events/2024", `W/"v2"`))
	require.NoError(t, repo.Upsert(ctx, "/teams/0", `W/"t0"`))

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"/events/2024": `W/"v2"`,
		"/teams/0":     `W/"t0"`,
	}, all)
}

func TestListEventKeysBySyncType(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	mustCommit(t, db,
		newEvent("2024casj", 2024,
			time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)),
		// 进行中：起止日期跨过now
		newEvent("2026cada", 2026,
			time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)),
		// 当年但已结束
		newEvent("2026caav", 2026,
			time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)),
	)

	repo := NewEventRepository(db)
	ctx := context.Background()

	full, err := repo.ListEventKeys(ctx, model.SyncFull, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024casj", "2026caav", "2026cada"}, full)

	year, err := repo.ListEventKeys(ctx, model.SyncYear, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026caav", "2026cada"}, year)

	live, err := repo.ListEventKeys(ctx, model.SyncLive, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"2026cada"}, live)

	_, err = repo.ListEventKeys(ctx, model.SyncType("bogus"), now)
	assert.Error(t, err)
}

// 陈旧检测：已结束超过cutoff但仍有score=-1比赛的赛事
func TestListStaleEventKeys(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC)

	mustCommit(t, db,
		newEvent("2026caav", 2026,
			time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
		newEvent("2026cabl", 2026,
			time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC),
			time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
		&model.Match{Key: "2026caav_qm1", EventKey: "2026caav", CompLevel: "qm", SetNumber: 1, MatchNumber: 1},
		&model.Match{Key: "2026cabl_qm1", EventKey: "2026cabl", CompLevel: "qm", SetNumber: 1, MatchNumber: 1},
		// caav有一场未打，cabl全部打完
		&model.MatchAlliance{MatchKey: "2026caav_qm1", AllianceColor: "red", Score: model.UnplayedMatchScore},
		&model.MatchAlliance{MatchKey: "2026cabl_qm1", AllianceColor: "red", Score: 58},
	)

	repo := NewEventRepository(db)
	stale, err := repo.ListStaleEventKeys(context.Background(), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026caav"}, stale)
}

func TestListEventsFilterAndPaging(t *testing.T) {
	db := testutil.NewDB(t)
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)

	dist := newEvent("2024miket", 2024, start, end)
	dk := "2024fim"
	dist.DistrictKey = &dk
	dist.EventType = 1
	mustCommit(t, db,
		&model.EventDistrict{Key: "2024fim", Abbreviation: "fim", DisplayName: "Michigan", Year: 2024},
		newEvent("2024casj", 2024, start, end),
		newEvent("2025casj", 2025, start.AddDate(1, 0, 0), end.AddDate(1, 0, 0)),
		dist,
	)

	repo := NewEventRepository(db)
	ctx := context.Background()

	events, total, err := repo.ListEvents(ctx, EventFilter{Year: 2024}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, events, 2)

	events, total, err = repo.ListEvents(ctx, EventFilter{DistrictKey: "2024fim"}, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, events, 1)
	assert.Equal(t, "2024miket", events[0].Key)

	// 分页越界返回空页，total不变
	events, total, err = repo.ListEvents(ctx, EventFilter{}, 5, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Empty(t, events)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"FRCSync/internal/config"
	"FRCSync/internal/etag"
	"FRCSync/internal/interfaces"
	"FRCSync/internal/model"
	"FRCSync/internal/planner"
	"FRCSync/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// maxTeamPages /teams/{page}分页拉取的硬上限，防御上游异常导致死循环
const maxTeamPages = 100

// SyncService 同步编排器：驱动一次pass
// 缓存判新→拉取（外部边界）→转换→规划器排序校验→按逻辑单元原子提交→advance token
// 单元互相独立，单个单元失败不影响其它单元
type SyncService struct {
	logger  *logrus.Logger
	cfg     *config.Config
	source  interfaces.UpstreamSource
	store   interfaces.EntityStore
	events  *repository.EventRepository
	cache   *etag.Cache
	planner *planner.Planner
	now     func() time.Time
}

func NewSyncService(db *gorm.DB, logger *logrus.Logger, cfg *config.Config, source interfaces.UpstreamSource) *SyncService {
	return &SyncService{
		logger:  logger,
		cfg:     cfg,
		source:  source,
		store:   repository.NewEntityStore(db),
		events:  repository.NewEventRepository(db),
		cache:   etag.NewCache(repository.NewETagRepository(db)),
		planner: planner.New(cfg.Sync.MaxPlannerRounds),
		now:     time.Now,
	}
}

// Run 执行一次同步pass
// full先同步队伍与各年份赛事，再逐赛事同步；year/live只按范围逐赛事同步
func (s *SyncService) Run(ctx context.Context, syncType model.SyncType) error {
	log := s.logger.WithFields(logrus.Fields{
		"pass_id":   uuid.NewString()[:8],
		"sync_type": syncType,
	})
	log.Info("同步pass开始")

	// etag缓存生命周期：pass开始加载，pass结束落库
	if err := s.cache.Load(ctx); err != nil {
		return fmt.Errorf("加载etag缓存失败: %w", err)
	}

	if syncType == model.SyncFull {
		if err := s.syncTeams(ctx, log); err != nil {
			log.WithError(err).Error("队伍同步失败")
		}
		if err := s.syncSeasons(ctx, log); err != nil {
			log.WithError(err).Error("赛事同步失败")
		}
	}

	eventKeys, err := s.events.ListEventKeys(ctx, syncType, s.now())
	if err != nil {
		return err
	}
	log.Infof("共%d个赛事待同步", len(eventKeys))

	failed := 0
	for _, eventKey := range eventKeys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.syncEventUnit(ctx, log, eventKey); err != nil {
			// 单元失败局部化：不advance token，下个pass重试，不阻塞其它赛事
			log.WithError(err).WithField("event", eventKey).Error("赛事单元同步失败")
			failed++
		}
	}

	if err := s.cache.Persist(ctx); err != nil {
		return fmt.Errorf("持久化etag缓存失败: %w", err)
	}

	s.reportStale(ctx, log)

	log.Infof("同步pass结束：%d个赛事成功，%d个失败", len(eventKeys)-failed, failed)
	return nil
}

// SyncEvent 同步单个赛事（API手动触发用）
func (s *SyncService) SyncEvent(ctx context.Context, eventKey string) error {
	log := s.logger.WithFields(logrus.Fields{
		"pass_id": uuid.NewString()[:8],
		"event":   eventKey,
	})
	if err := s.cache.Load(ctx); err != nil {
		return fmt.Errorf("加载etag缓存失败: %w", err)
	}
	if err := s.syncEventUnit(ctx, log, eventKey); err != nil {
		return err
	}
	return s.cache.Persist(ctx)
}

// syncTeams 逐页同步队伍，每页一个独立单元（各有etag端点）
// 空页表示翻到末尾；304的页继续向后翻
func (s *SyncService) syncTeams(ctx context.Context, log *logrus.Entry) error {
	for page := 0; page < maxTeamPages; page++ {
		endpoint := interfaces.TeamsEndpoint(page)
		needed, priorToken := s.cache.ShouldFetch(endpoint)
		if !needed {
			continue
		}

		teams, token, err := s.source.FetchTeamsPage(ctx, page, priorToken)
		if errors.Is(err, interfaces.ErrNotModified) {
			log.Debugf("队伍第%d页未变化", page)
			continue
		}
		if err != nil {
			// 拉取失败视为本pass无变化，token不动，下个pass重试
			return fmt.Errorf("拉取队伍第%d页失败: %w", page, err)
		}
		if len(teams) == 0 {
			break
		}

		if err := s.commitBatch(ctx, &planner.Batch{Teams: teams}); err != nil {
			return fmt.Errorf("提交队伍第%d页失败: %w", page, err)
		}
		s.cache.RecordFreshness(endpoint, token)
		log.Debugf("队伍第%d页同步完成，共%d支", page, len(teams))
	}
	return nil
}

// syncSeasons 按年份同步赛事与赛区，每年一个独立单元
func (s *SyncService) syncSeasons(ctx context.Context, log *logrus.Entry) error {
	endYear := s.now().Year()
	for year := s.cfg.Sync.StartYear; year <= endYear; year++ {
		if year == 2021 {
			continue // 2021无赛季
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.syncSeasonEvents(ctx, log, year); err != nil {
			log.WithError(err).WithField("year", year).Error("年份赛事同步失败")
		}
	}
	return nil
}

func (s *SyncService) syncSeasonEvents(ctx context.Context, log *logrus.Entry, year int) error {
	endpoint := interfaces.EventsEndpoint(year)
	needed, priorToken := s.cache.ShouldFetch(endpoint)
	if !needed {
		return nil
	}

	payload, token, err := s.source.FetchSeasonEvents(ctx, year, priorToken)
	if errors.Is(err, interfaces.ErrNotModified) {
		log.Debugf("%d年赛事未变化", year)
		return nil
	}
	if err != nil {
		return fmt.Errorf("拉取%d年赛事失败: %w", year, err)
	}

	batch := &planner.Batch{Districts: payload.Districts, Events: payload.Events}
	if err := s.commitBatch(ctx, batch); err != nil {
		return fmt.Errorf("提交%d年赛事失败: %w", year, err)
	}
	s.cache.RecordFreshness(endpoint, token)
	log.Debugf("%d年赛事同步完成：%d个赛事、%d个赛区", year, len(payload.Events), len(payload.Districts))
	return nil
}

// syncEventUnit 同步单个赛事的逻辑单元：参赛队、比赛、联盟、排名
// 四个端点的载荷合成一个批整体提交——要么全部落库，要么全部不落
// 单个端点拉取失败按“本pass无变化”处理；任何校验违规则整批拒绝且token不动
func (s *SyncService) syncEventUnit(ctx context.Context, log *logrus.Entry, eventKey string) error {
	batch := &planner.Batch{}
	tokens := map[string]string{}

	fetch := func(endpoint string, apply func(priorToken string) (string, error)) {
		needed, priorToken := s.cache.ShouldFetch(endpoint)
		if !needed {
			return
		}
		token, err := apply(priorToken)
		switch {
		case errors.Is(err, interfaces.ErrNotModified):
		case err != nil:
			log.WithError(err).WithField("endpoint", endpoint).Warn("端点拉取失败，视为本pass无变化")
		default:
			tokens[endpoint] = token
		}
	}

	fetch(interfaces.EventTeamsEndpoint(eventKey), func(prior string) (string, error) {
		payload, token, err := s.source.FetchEventTeams(ctx, eventKey, prior)
		if err != nil {
			return "", err
		}
		batch.Teams = append(batch.Teams, payload.Teams...)
		batch.EventTeams = append(batch.EventTeams, payload.EventTeams...)
		return token, nil
	})

	fetch(interfaces.EventMatchesEndpoint(eventKey), func(prior string) (string, error) {
		payload, token, err := s.source.FetchEventMatches(ctx, eventKey, prior)
		if err != nil {
			return "", err
		}
		batch.Matches = append(batch.Matches, payload.Matches...)
		batch.MatchAlliances = append(batch.MatchAlliances, payload.MatchAlliances...)
		batch.MatchAllianceTeams = append(batch.MatchAllianceTeams, payload.MatchAllianceTeams...)
		return token, nil
	})

	fetch(interfaces.EventAlliancesEndpoint(eventKey), func(prior string) (string, error) {
		payload, token, err := s.source.FetchEventAlliances(ctx, eventKey, prior)
		if err != nil {
			return "", err
		}
		batch.Alliances = append(batch.Alliances, payload.Alliances...)
		batch.AllianceTeams = append(batch.AllianceTeams, payload.AllianceTeams...)
		return token, nil
	})

	fetch(interfaces.EventRankingsEndpoint(eventKey), func(prior string) (string, error) {
		payload, token, err := s.source.FetchEventRankings(ctx, eventKey, prior)
		if err != nil {
			return "", err
		}
		batch.Rankings = append(batch.Rankings, payload.Rankings...)
		if payload.Info != nil {
			batch.RankingInfos = append(batch.RankingInfos, payload.Info)
		}
		return token, nil
	})

	if batch.Empty() {
		return nil
	}

	if err := s.commitBatch(ctx, batch, eventKey); err != nil {
		return err
	}

	// 单元提交成功后才advance各端点token
	for endpoint, token := range tokens {
		s.cache.RecordFreshness(endpoint, token)
	}
	log.WithField("event", eventKey).Infof("赛事单元同步完成，共%d条记录", batch.Size())
	return nil
}

// commitBatch 规划→校验→单事务提交
// 事务内任何失败（含ctx取消）都rollback，不留部分批
func (s *SyncService) commitBatch(ctx context.Context, batch *planner.Batch, scope ...string) error {
	if batch.Empty() {
		return nil
	}

	snap, err := s.store.LoadSnapshot(ctx, scope...)
	if err != nil {
		return err
	}
	ordered, err := s.planner.Plan(batch, snap)
	if err != nil {
		return err
	}

	tx, err := s.store.Begin(ctx)
	if err != nil {
		return err
	}
	for _, record := range ordered {
		if err := ctx.Err(); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Upsert(record); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return err
	}
	return nil
}

// reportStale 上报陈旧赛事：已结束但仍有未打比赛（上游可能已删改，本地保留最后已知状态）
func (s *SyncService) reportStale(ctx context.Context, log *logrus.Entry) {
	cutoff := s.now().Add(-time.Duration(s.cfg.Sync.StaleAfterHours) * time.Hour)
	staleKeys, err := s.events.ListStaleEventKeys(ctx, cutoff)
	if err != nil {
		log.WithError(err).Warn("陈旧检测失败")
		return
	}
	for _, key := range staleKeys {
		log.WithField("event", key).Warn("赛事数据疑似陈旧：已结束但仍有未打比赛")
	}
}

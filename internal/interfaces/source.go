package interfaces

import (
	"context"
	"errors"
	"fmt"

	"FRCSync/internal/model"
)

// ErrNotModified 上游数据相对priorToken无变化（HTTP 304），本pass跳过该端点
var ErrNotModified = errors.New("上游数据未变化")

// 端点标识构造（etag缓存的键，与上游路径一致）
func EventsEndpoint(year int) string { return fmt.Sprintf("/events/%d", year) }
func TeamsEndpoint(page int) string  { return fmt.Sprintf("/teams/%d", page) }

func EventTeamsEndpoint(eventKey string) string { return fmt.Sprintf("/event/%s/teams", eventKey) }

func EventMatchesEndpoint(eventKey string) string {
	return fmt.Sprintf("/event/%s/matches", eventKey)
}

func EventAlliancesEndpoint(eventKey string) string {
	return fmt.Sprintf("/event/%s/alliances", eventKey)
}

func EventRankingsEndpoint(eventKey string) string {
	return fmt.Sprintf("/event/%s/rankings", eventKey)
}

// SeasonEventsPayload 某年份赛事端点的载荷（赛事+内嵌赛区）
type SeasonEventsPayload struct {
	Events    []*model.Event
	Districts []*model.EventDistrict
}

// EventTeamsPayload 某赛事参赛队端点的载荷（完整队伍行+参赛关系行）
type EventTeamsPayload struct {
	Teams      []*model.Team
	EventTeams []*model.EventTeam
}

// EventMatchesPayload 某赛事比赛端点的载荷
type EventMatchesPayload struct {
	Matches            []*model.Match
	MatchAlliances     []*model.MatchAlliance
	MatchAllianceTeams []*model.MatchAllianceTeam
}

// EventAlliancesPayload 某赛事淘汰赛联盟端点的载荷
type EventAlliancesPayload struct {
	Alliances     []*model.Alliance
	AllianceTeams []*model.AllianceTeam
}

// EventRankingsPayload 某赛事排名端点的载荷
type EventRankingsPayload struct {
	Rankings []*model.Ranking
	Info     *model.RankingEventInfo
}

// UpstreamSource 上游数据源边界（外部协作方）
// 每个方法要么返回已按实体图模型成型的载荷与新token，要么返回ErrNotModified；
// 解析/限流/认证细节全部在实现侧，核心不感知wire格式
type UpstreamSource interface {
	FetchSeasonEvents(ctx context.Context, year int, priorToken string) (*SeasonEventsPayload, string, error)
	FetchTeamsPage(ctx context.Context, page int, priorToken string) ([]*model.Team, string, error)
	FetchEventTeams(ctx context.Context, eventKey, priorToken string) (*EventTeamsPayload, string, error)
	FetchEventMatches(ctx context.Context, eventKey, priorToken string) (*EventMatchesPayload, string, error)
	FetchEventAlliances(ctx context.Context, eventKey, priorToken string) (*EventAlliancesPayload, string, error)
	FetchEventRankings(ctx context.Context, eventKey, priorToken string) (*EventRankingsPayload, string, error)
}

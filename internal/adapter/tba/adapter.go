// Package tba The Blue Alliance API v3适配器（上游边界的外部协作方实现）
// 负责条件请求（If-None-Match/304）、认证与wire格式到实体图模型的转换，
// 核心同步引擎只消费成型后的载荷
package tba

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"FRCSync/internal/config"
	"FRCSync/internal/interfaces"
	"FRCSync/internal/model"
	"FRCSync/internal/utils/httpclient"

	"github.com/sirupsen/logrus"
)

type Adapter struct {
	cfg        *config.TBAConfig
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewAdapter(cfg *config.TBAConfig, logger *logrus.Logger) interfaces.UpstreamSource {
	return &Adapter{
		cfg:        cfg,
		httpClient: httpclient.NewHTTPClient(cfg, logger),
		logger:     logger,
	}
}

// get 带条件请求的GET：priorToken作If-None-Match，304返回ErrNotModified
// 网络错误与5xx按配置重试
func (a *Adapter) get(ctx context.Context, endpoint, priorToken string) ([]byte, string, error) {
	attempts := a.cfg.RetryCount + 1
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, "", ctx.Err()
			case <-time.After(time.Duration(i) * time.Second):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL+endpoint, nil)
		if err != nil {
			return nil, "", fmt.Errorf("构造请求失败 %s: %w", endpoint, err)
		}
		req.Header.Set("X-TBA-Auth-Key", a.cfg.AuthKey)
		if priorToken != "" {
			req.Header.Set("If-None-Match", priorToken)
		}

		resp, err := a.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("请求%s失败: %w", endpoint, err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusNotModified:
			return nil, "", interfaces.ErrNotModified
		case resp.StatusCode >= 500:
			lastErr = fmt.Errorf("请求%s返回%d", endpoint, resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, "", fmt.Errorf("请求%s返回%d", endpoint, resp.StatusCode)
		case readErr != nil:
			lastErr = fmt.Errorf("读取%s响应失败: %w", endpoint, readErr)
			continue
		}

		return body, resp.Header.Get("ETag"), nil
	}
	return nil, "", lastErr
}

func (a *Adapter) FetchSeasonEvents(ctx context.Context, year int, priorToken string) (*interfaces.SeasonEventsPayload, string, error) {
	body, token, err := a.get(ctx, interfaces.EventsEndpoint(year), priorToken)
	if err != nil {
		return nil, "", err
	}
	var wire []tbaEvent
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, "", fmt.Errorf("解析赛事载荷失败: %w", err)
	}
	payload, err := convertSeasonEvents(wire)
	if err != nil {
		return nil, "", err
	}
	return payload, token, nil
}

func (a *Adapter) FetchTeamsPage(ctx context.Context, page int, priorToken string) ([]*model.Team, string, error) {
	body, token, err := a.get(ctx, interfaces.TeamsEndpoint(page), priorToken)
	if err != nil {
		return nil, "", err
	}
	var wire []tbaTeam
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, "", fmt.Errorf("解析队伍载荷失败: %w", err)
	}
	return convertTeams(wire), token, nil
}

func (a *Adapter) FetchEventTeams(ctx context.Context, eventKey, priorToken string) (*interfaces.EventTeamsPayload, string, error) {
	body, token, err := a.get(ctx, interfaces.EventTeamsEndpoint(eventKey), priorToken)
	if err != nil {
		return nil, "", err
	}
	var wire []tbaTeam
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, "", fmt.Errorf("解析参赛队载荷失败: %w", err)
	}
	teams := convertTeams(wire)
	eventTeams := make([]*model.EventTeam, len(teams))
	for i, t := range teams {
		eventTeams[i] = &model.EventTeam{EventKey: eventKey, TeamKey: t.Key}
	}
	return &interfaces.EventTeamsPayload{Teams: teams, EventTeams: eventTeams}, token, nil
}

func (a *Adapter) FetchEventMatches(ctx context.Context, eventKey, priorToken string) (*interfaces.EventMatchesPayload, string, error) {
	body, token, err := a.get(ctx, interfaces.EventMatchesEndpoint(eventKey), priorToken)
	if err != nil {
		return nil, "", err
	}
	var wire []tbaMatch
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, "", fmt.Errorf("解析比赛载荷失败: %w", err)
	}
	return convertMatches(wire), token, nil
}

func (a *Adapter) FetchEventAlliances(ctx context.Context, eventKey, priorToken string) (*interfaces.EventAlliancesPayload, string, error) {
	body, token, err := a.get(ctx, interfaces.EventAlliancesEndpoint(eventKey), priorToken)
	if err != nil {
		return nil, "", err
	}
	var wire []tbaAlliance
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, "", fmt.Errorf("解析联盟载荷失败: %w", err)
	}
	return convertAlliances(eventKey, wire), token, nil
}

func (a *Adapter) FetchEventRankings(ctx context.Context, eventKey, priorToken string) (*interfaces.EventRankingsPayload, string, error) {
	body, token, err := a.get(ctx, interfaces.EventRankingsEndpoint(eventKey), priorToken)
	if err != nil {
		return nil, "", err
	}
	var wire tbaRankings
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, "", fmt.Errorf("解析排名载荷失败: %w", err)
	}
	return convertRankings(eventKey, wire), token, nil
}

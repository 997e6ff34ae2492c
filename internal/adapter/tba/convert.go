package tba

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"FRCSync/internal/interfaces"
	"FRCSync/internal/model"

	"gorm.io/datatypes"
)

// ========== TBA API v3 wire结构 ==========

type tbaDistrict struct {
	Key          string `json:"key"`
	Abbreviation string `json:"abbreviation"`
	DisplayName  string `json:"display_name"`
	Year         int    `json:"year"`
}

type tbaEvent struct {
	Key             string       `json:"key"`
	Name            string       `json:"name"`
	EventCode       string       `json:"event_code"`
	EventType       int          `json:"event_type"`
	EventTypeString string       `json:"event_type_string"`
	Year            int          `json:"year"`
	Week            *int         `json:"week"`
	StartDate       string       `json:"start_date"`
	EndDate         string       `json:"end_date"`
	District        *tbaDistrict `json:"district"`
	City            *string      `json:"city"`
	StateProv       *string      `json:"state_prov"`
	Country         *string      `json:"country"`
	PostalCode      *string      `json:"postal_code"`
	Address         *string      `json:"address"`
	LocationName    *string      `json:"location_name"`
	Lat             *float64     `json:"lat"`
	Lng             *float64     `json:"lng"`
	Timezone        *string      `json:"timezone"`
	ShortName       *string      `json:"short_name"`
	Website         *string      `json:"website"`
	GmapsPlaceID    *string      `json:"gmaps_place_id"`
	GmapsURL        *string      `json:"gmaps_url"`
	FirstEventID    *string      `json:"first_event_id"`
	FirstEventCode  *string      `json:"first_event_code"`
	PlayoffType     *int         `json:"playoff_type"`
	PlayoffTypeStr  *string      `json:"playoff_type_string"`
	ParentEventKey  *string      `json:"parent_event_key"`
	DivisionKeys    []string     `json:"division_keys"`
}

type tbaTeam struct {
	Key        string  `json:"key"`
	TeamNumber int     `json:"team_number"`
	Nickname   string  `json:"nickname"`
	Name       string  `json:"name"`
	SchoolName *string `json:"school_name"`
	City       *string `json:"city"`
	StateProv  *string `json:"state_prov"`
	Country    *string `json:"country"`
	PostalCode *string `json:"postal_code"`
	Website    *string `json:"website"`
	RookieYear *int    `json:"rookie_year"`
}

type tbaMatchAlliance struct {
	Score             int      `json:"score"`
	TeamKeys          []string `json:"team_keys"`
	SurrogateTeamKeys []string `json:"surrogate_team_keys"`
	DQTeamKeys        []string `json:"dq_team_keys"`
}

type tbaMatch struct {
	Key             string `json:"key"`
	CompLevel       string `json:"comp_level"`
	SetNumber       int    `json:"set_number"`
	MatchNumber     int    `json:"match_number"`
	WinningAlliance string `json:"winning_alliance"`
	EventKey        string `json:"event_key"`
	Time            *int64 `json:"time"`
	ActualTime      *int64 `json:"actual_time"`
	PredictedTime   *int64 `json:"predicted_time"`
	PostResultTime  *int64 `json:"post_result_time"`
	Alliances       struct {
		Red  *tbaMatchAlliance `json:"red"`
		Blue *tbaMatchAlliance `json:"blue"`
	} `json:"alliances"`
	ScoreBreakdown map[string]json.RawMessage `json:"score_breakdown"`
}

type tbaRecord struct {
	Wins   int `json:"wins"`
	Losses int `json:"losses"`
	Ties   int `json:"ties"`
}

type tbaAllianceStatus struct {
	Status             *string    `json:"status"`
	Level              *string    `json:"level"`
	Record             *tbaRecord `json:"record"`
	CurrentLevelRecord *tbaRecord `json:"current_level_record"`
	PlayoffType        *int       `json:"playoff_type"`
	PlayoffAverage     *float64   `json:"playoff_average"`
	DoubleElimRound    *string    `json:"double_elim_round"`
	RoundRobinRank     *int       `json:"round_robin_rank"`
	AdvancedToRRFinal  *bool      `json:"advanced_to_round_robin_finals"`
}

type tbaAlliance struct {
	Name   string   `json:"name"`
	Picks  []string `json:"picks"`
	Backup *struct {
		In  string `json:"in"`
		Out string `json:"out"`
	} `json:"backup"`
	Status *tbaAllianceStatus `json:"status"`
}

type tbaRankingRow struct {
	TeamKey       string          `json:"team_key"`
	Rank          int             `json:"rank"`
	MatchesPlayed int             `json:"matches_played"`
	DQ            int             `json:"dq"`
	QualAverage   *float64        `json:"qual_average"`
	Record        *tbaRecord      `json:"record"`
	ExtraStats    json.RawMessage `json:"extra_stats"`
	SortOrders    json.RawMessage `json:"sort_orders"`
}

type tbaRankings struct {
	Rankings       []tbaRankingRow `json:"rankings"`
	ExtraStatsInfo json.RawMessage `json:"extra_stats_info"`
	SortOrderInfo  json.RawMessage `json:"sort_order_info"`
}

// ========== wire到实体图模型的转换 ==========

// 非赛季内赛事类型（上游约定：-1未定义、7休赛、99/100线下/预赛），同步时丢弃
var skippedEventTypes = map[int]bool{-1: true, 7: true, 99: true, 100: true}

// 休赛期表演队（昵称含off-season/offseason），不入库
var offseasonRe = regexp.MustCompile(`(?i)off-?season`)

var allianceNameRe = regexp.MustCompile(`^Alliance (\d+)$`)

const dateLayout = "2006-01-02"

func unixTime(v *int64) *time.Time {
	if v == nil || *v == 0 {
		return nil
	}
	t := time.Unix(*v, 0).UTC()
	return &t
}

// jsonBlob 原样透传的不透明结构化值，空与null视为缺失
func jsonBlob(raw json.RawMessage) *datatypes.JSON {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	b := datatypes.JSON(raw)
	return &b
}

func convertSeasonEvents(wire []tbaEvent) (*interfaces.SeasonEventsPayload, error) {
	payload := &interfaces.SeasonEventsPayload{}
	for _, w := range wire {
		if skippedEventTypes[w.EventType] {
			continue
		}

		start, err := time.Parse(dateLayout, w.StartDate)
		if err != nil {
			return nil, fmt.Errorf("赛事%s的start_date非法: %w", w.Key, err)
		}
		end, err := time.Parse(dateLayout, w.EndDate)
		if err != nil {
			return nil, fmt.Errorf("赛事%s的end_date非法: %w", w.Key, err)
		}

		ev := &model.Event{
			Key:             w.Key,
			Name:            w.Name,
			EventCode:       w.EventCode,
			EventType:       w.EventType,
			EventTypeString: w.EventTypeString,
			Year:            w.Year,
			Week:            w.Week,
			StartDate:       start,
			EndDate:         end,
			City:            w.City,
			StateProv:       w.StateProv,
			Country:         w.Country,
			PostalCode:      w.PostalCode,
			Address:         w.Address,
			LocationName:    w.LocationName,
			Lat:             w.Lat,
			Lng:             w.Lng,
			Timezone:        w.Timezone,
			ShortName:       w.ShortName,
			Website:         w.Website,
			GmapsPlaceID:    w.GmapsPlaceID,
			GmapsURL:        w.GmapsURL,
			FirstEventID:    w.FirstEventID,
			FirstEventCode:  w.FirstEventCode,
			PlayoffType:     w.PlayoffType,
			PlayoffTypeStr:  w.PlayoffTypeStr,
			ParentEventKey:  w.ParentEventKey,
		}
		if w.District != nil {
			key := w.District.Key
			ev.DistrictKey = &key
			payload.Districts = append(payload.Districts, &model.EventDistrict{
				Key:          w.District.Key,
				Abbreviation: w.District.Abbreviation,
				DisplayName:  w.District.DisplayName,
				Year:         w.District.Year,
			})
		}
		if len(w.DivisionKeys) > 0 {
			raw, err := json.Marshal(w.DivisionKeys)
			if err != nil {
				return nil, fmt.Errorf("赛事%s的division_keys序列化失败: %w", w.Key, err)
			}
			ev.DivisionKeys = jsonBlob(raw)
		}
		payload.Events = append(payload.Events, ev)
	}
	return payload, nil
}

func convertTeams(wire []tbaTeam) []*model.Team {
	teams := make([]*model.Team, 0, len(wire))
	for _, w := range wire {
		if offseasonRe.MatchString(w.Nickname) {
			continue
		}
		teams = append(teams, &model.Team{
			Key:        w.Key,
			TeamNumber: w.TeamNumber,
			Nickname:   w.Nickname,
			Name:       w.Name,
			SchoolName: w.SchoolName,
			City:       w.City,
			StateProv:  w.StateProv,
			Country:    w.Country,
			PostalCode: w.PostalCode,
			Website:    w.Website,
			RookieYear: w.RookieYear,
		})
	}
	return teams
}

func convertMatches(wire []tbaMatch) *interfaces.EventMatchesPayload {
	payload := &interfaces.EventMatchesPayload{}
	for _, w := range wire {
		payload.Matches = append(payload.Matches, &model.Match{
			Key:             w.Key,
			EventKey:        w.EventKey,
			CompLevel:       w.CompLevel,
			SetNumber:       w.SetNumber,
			MatchNumber:     w.MatchNumber,
			WinningAlliance: w.WinningAlliance,
			Time:            unixTime(w.Time),
			ActualTime:      unixTime(w.ActualTime),
			PredictedTime:   unixTime(w.PredictedTime),
			PostResultTime:  unixTime(w.PostResultTime),
		})

		for color, side := range map[string]*tbaMatchAlliance{
			model.AllianceRed:  w.Alliances.Red,
			model.AllianceBlue: w.Alliances.Blue,
		} {
			if side == nil {
				continue
			}
			payload.MatchAlliances = append(payload.MatchAlliances, &model.MatchAlliance{
				MatchKey:       w.Key,
				AllianceColor:  color,
				Score:          side.Score,
				ScoreBreakdown: jsonBlob(w.ScoreBreakdown[color]),
			})
			for _, teamKey := range side.TeamKeys {
				payload.MatchAllianceTeams = append(payload.MatchAllianceTeams, &model.MatchAllianceTeam{
					MatchKey:      w.Key,
					AllianceColor: color,
					TeamKey:       teamKey,
					EventKey:      w.EventKey,
					IsSurrogate:   containsKey(side.SurrogateTeamKeys, teamKey),
					IsDQ:          containsKey(side.DQTeamKeys, teamKey),
				})
			}
		}
	}
	return payload
}

func containsKey(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func convertAlliances(eventKey string, wire []tbaAlliance) *interfaces.EventAlliancesPayload {
	payload := &interfaces.EventAlliancesPayload{}
	for i, w := range wire {
		name := w.Name
		if name == "" {
			name = fmt.Sprintf("Alliance %d", i+1)
		}

		al := &model.Alliance{EventKey: eventKey, Name: name}
		if m := allianceNameRe.FindStringSubmatch(name); m != nil {
			var order int
			_, _ = fmt.Sscanf(m[1], "%d", &order)
			al.Order = &order
		}
		if w.Backup != nil {
			in, out := w.Backup.In, w.Backup.Out
			if in != "" {
				al.BackupIn = &in
			}
			if out != "" {
				al.BackupOut = &out
			}
		}
		if s := w.Status; s != nil {
			al.Status = s.Status
			al.Level = s.Level
			al.PlayoffType = s.PlayoffType
			al.PlayoffAverage = s.PlayoffAverage
			al.DoubleElimRound = s.DoubleElimRound
			al.RoundRobinRank = s.RoundRobinRank
			al.AdvancedToRRFinal = s.AdvancedToRRFinal
			if s.Record != nil {
				wins, losses, ties := s.Record.Wins, s.Record.Losses, s.Record.Ties
				al.Wins, al.Losses, al.Ties = &wins, &losses, &ties
			}
			if s.CurrentLevelRecord != nil {
				wins, losses, ties := s.CurrentLevelRecord.Wins, s.CurrentLevelRecord.Losses, s.CurrentLevelRecord.Ties
				al.CurrentLevelWins, al.CurrentLevelLoss, al.CurrentLevelTies = &wins, &losses, &ties
			}
		}
		payload.Alliances = append(payload.Alliances, al)

		for pick, teamKey := range w.Picks {
			payload.AllianceTeams = append(payload.AllianceTeams, &model.AllianceTeam{
				EventKey:     eventKey,
				AllianceName: name,
				TeamKey:      teamKey,
				PickOrder:    pick + 1, // 1=队长
			})
		}
	}
	return payload
}

func convertRankings(eventKey string, wire tbaRankings) *interfaces.EventRankingsPayload {
	payload := &interfaces.EventRankingsPayload{
		Info: &model.RankingEventInfo{
			EventKey:       eventKey,
			ExtraStatsInfo: jsonBlob(wire.ExtraStatsInfo),
			SortOrderInfo:  jsonBlob(wire.SortOrderInfo),
		},
	}
	for _, w := range wire.Rankings {
		r := &model.Ranking{
			EventKey:      eventKey,
			TeamKey:       w.TeamKey,
			Rank:          w.Rank,
			MatchesPlayed: w.MatchesPlayed,
			DQ:            w.DQ,
			QualAverage:   w.QualAverage,
			ExtraStats:    jsonBlob(w.ExtraStats),
			SortOrders:    jsonBlob(w.SortOrders),
		}
		if w.Record != nil {
			wins, losses, ties := w.Record.Wins, w.Record.Losses, w.Record.Ties
			r.Wins, r.Losses, r.Ties = &wins, &losses, &ties
		}
		payload.Rankings = append(payload.Rankings, r)
	}
	return payload
}

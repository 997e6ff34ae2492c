package graph

import (
	"testing"
	"time"

	"FRCSync/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEvent(key string) *model.Event {
	return &model.Event{
		Key:             key,
		Name:            "Silicon Valley Regional",
		EventCode:       key[4:],
		EventType:       0,
		EventTypeString: "Regional",
		Year:            2024,
		StartDate:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
	}
}

func TestKeyEquality(t *testing.T) {
	// 键是值类型，结构相等即集合相等
	assert.Equal(t, EventTeamKey("2024casj", "frc254"), EventTeamKey("2024casj", "frc254"))
	assert.NotEqual(t, EventTeamKey("2024casj", "frc254"), EventTeamKey("2024casj", "frc148"))
	assert.NotEqual(t, EventKey("2024casj"), DistrictKey("2024casj"))

	snap := NewSnapshot()
	snap.Add(MatchAllianceKey("2024casj_qm1", "red"))
	assert.True(t, snap.Has(MatchAllianceKey("2024casj_qm1", "red")))
	assert.False(t, snap.Has(MatchAllianceKey("2024casj_qm1", "blue")))
}

func TestKeyOf(t *testing.T) {
	k, err := KeyOf(&model.MatchAllianceTeam{MatchKey: "2024casj_qm1", AllianceColor: "blue", TeamKey: "frc254"})
	require.NoError(t, err)
	assert.Equal(t, MatchAllianceTeamKey("2024casj_qm1", "blue", "frc254"), k)

	_, err = KeyOf("不是实体")
	assert.Error(t, err)
}

func TestValidateEventOK(t *testing.T) {
	snap := NewSnapshot()
	snap.Add(DistrictKey("2024ne"))

	ev := validEvent("2024casj")
	dk := "2024ne"
	ev.DistrictKey = &dk
	assert.True(t, Validate(ev, snap).Empty())
}

func TestValidateEventCollectsAllViolations(t *testing.T) {
	// 坏记录的全部问题一次报完，不止第一条
	ev := validEvent("CASJ-2024")
	ev.Name = ""
	ev.Year = 1970
	vs := Validate(ev, NewSnapshot())
	require.Len(t, vs, 3)
	assert.Error(t, vs)
}

func TestValidateEventSelfParent(t *testing.T) {
	ev := validEvent("2024casj")
	self := "2024casj"
	ev.ParentEventKey = &self
	vs := Validate(ev, NewSnapshot())
	require.Len(t, vs, 1)
	assert.Equal(t, "reference", vs[0].Rule)
}

func TestValidateEventParentMustExist(t *testing.T) {
	ev := validEvent("2024micmp1")
	parent := "2024micmp"
	ev.ParentEventKey = &parent
	assert.False(t, Validate(ev, NewSnapshot()).Empty())

	snap := NewSnapshot()
	snap.Add(EventKey("2024micmp"))
	assert.True(t, Validate(ev, snap).Empty())
}

func TestValidateEventTeamReferences(t *testing.T) {
	snap := NewSnapshot()
	snap.Add(EventKey("2024casj"))
	snap.Add(TeamKey("frc254"))

	assert.True(t, Validate(&model.EventTeam{EventKey: "2024casj", TeamKey: "frc254"}, snap).Empty())
	assert.Len(t, Validate(&model.EventTeam{EventKey: "2024casj", TeamKey: "frc9999"}, snap), 1)
	assert.Len(t, Validate(&model.EventTeam{EventKey: "2024nowhere", TeamKey: "frc9999"}, snap), 2)
}

func TestValidateMatchAllianceScore(t *testing.T) {
	snap := NewSnapshot()
	snap.Add(MatchKey("2024casj_qm1"))

	// -1是未打比赛的约定值，合法；再小就是坏数据
	ok := &model.MatchAlliance{MatchKey: "2024casj_qm1", AllianceColor: "red", Score: model.UnplayedMatchScore}
	assert.True(t, Validate(ok, snap).Empty())

	bad := &model.MatchAlliance{MatchKey: "2024casj_qm1", AllianceColor: "red", Score: -2}
	assert.Len(t, Validate(bad, snap), 1)

	badColor := &model.MatchAlliance{MatchKey: "2024casj_qm1", AllianceColor: "green", Score: 10}
	assert.Len(t, Validate(badColor, snap), 1)
}

func TestValidateMatchAllianceTeamPairing(t *testing.T) {
	snap := NewSnapshot()
	snap.Add(MatchAllianceKey("2024casj_qm1", "red"))
	snap.Add(EventTeamKey("2024casj", "frc254"))

	ok := &model.MatchAllianceTeam{
		MatchKey: "2024casj_qm1", AllianceColor: "red",
		TeamKey: "frc254", EventKey: "2024casj",
	}
	assert.True(t, Validate(ok, snap).Empty())

	// 同场比赛的另一色联盟不在快照里，按match+color配对必须报缺
	wrongColor := &model.MatchAllianceTeam{
		MatchKey: "2024casj_qm1", AllianceColor: "blue",
		TeamKey: "frc254", EventKey: "2024casj",
	}
	assert.Len(t, Validate(wrongColor, snap), 1)

	// 幽灵队伍：上场但没有参赛关系
	ghost := &model.MatchAllianceTeam{
		MatchKey: "2024casj_qm1", AllianceColor: "red",
		TeamKey: "frc9971", EventKey: "2024casj",
	}
	assert.Len(t, Validate(ghost, snap), 1)

	// 比赛key不以声称的赛事key为前缀
	foreign := &model.MatchAllianceTeam{
		MatchKey: "2024casj_qm1", AllianceColor: "red",
		TeamKey: "frc254", EventKey: "2024cada",
	}
	vs := Validate(foreign, snap)
	require.Len(t, vs, 2)
}

func TestValidateAllianceTeam(t *testing.T) {
	snap := NewSnapshot()
	snap.Add(AllianceKey("2024casj", "Alliance 1"))
	snap.Add(EventTeamKey("2024casj", "frc254"))

	ok := &model.AllianceTeam{EventKey: "2024casj", AllianceName: "Alliance 1", TeamKey: "frc254", PickOrder: 1}
	assert.True(t, Validate(ok, snap).Empty())

	bad := &model.AllianceTeam{EventKey: "2024casj", AllianceName: "Alliance 9", TeamKey: "frc254", PickOrder: 0}
	assert.Len(t, Validate(bad, snap), 2)
}

func TestValidateRankingRequiresEventTeam(t *testing.T) {
	snap := NewSnapshot()
	snap.Add(EventTeamKey("2024casj", "frc254"))

	ok := &model.Ranking{EventKey: "2024casj", TeamKey: "frc254", Rank: 1, MatchesPlayed: 10}
	assert.True(t, Validate(ok, snap).Empty())

	bad := &model.Ranking{EventKey: "2024casj", TeamKey: "frc148", Rank: 0, MatchesPlayed: -1}
	assert.Len(t, Validate(bad, snap), 3)
}

func TestValidateMatchKeyFormat(t *testing.T) {
	snap := NewSnapshot()
	snap.Add(EventKey("2024casj"))

	ok := &model.Match{Key: "2024casj_sf2m1", EventKey: "2024casj", CompLevel: "sf", SetNumber: 2, MatchNumber: 1}
	assert.True(t, Validate(ok, snap).Empty())

	bad := &model.Match{Key: "2024casj-qm1", EventKey: "2024casj", CompLevel: "qx", SetNumber: 1, MatchNumber: 1}
	assert.Len(t, Validate(bad, snap), 2)
}

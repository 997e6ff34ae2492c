package tba

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"FRCSync/internal/config"
	"FRCSync/internal/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(baseURL string) interfaces.UpstreamSource {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewAdapter(&config.TBAConfig{
		BaseURL:    baseURL,
		AuthKey:    "test-key",
		Timeout:    5,
		RetryCount: 2,
	}, logger)
}

// 条件请求：首拉带ETag回数据，复拉带If-None-Match命中304
func TestAdapterConditionalFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-TBA-Auth-Key"))
		assert.Equal(t, "/teams/0", r.URL.Path)

		if r.Header.Get("If-None-Match") == `W/"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("ETag", `W/"v1"`)
		_, _ = w.Write([]byte(`[{"key":"frc254","team_number":254,"nickname":"The Cheesy Poofs","name":"NASA"}]`))
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	ctx := context.Background()

	teams, token, err := a.FetchTeamsPage(ctx, 0, "")
	require.NoError(t, err)
	assert.Equal(t, `W/"v1"`, token)
	require.Len(t, teams, 1)
	assert.Equal(t, "frc254", teams[0].Key)

	_, _, err = a.FetchTeamsPage(ctx, 0, `W/"v1"`)
	assert.True(t, errors.Is(err, interfaces.ErrNotModified))
}

// 5xx重试：第一次500，第二次成功
func TestAdapterRetriesServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("ETag", `W/"v2"`)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	teams, token, err := a.FetchTeamsPage(context.Background(), 0, "")
	require.NoError(t, err)
	assert.Empty(t, teams)
	assert.Equal(t, `W/"v2"`, token)
	assert.Equal(t, 2, attempts)
}

// 4xx不重试，直接失败
func TestAdapterClientErrorNoRetry(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	_, _, err := a.FetchTeamsPage(context.Background(), 0, "")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, interfaces.ErrNotModified))
	assert.Equal(t, 1, attempts)
}

// 事件参赛队端点：队伍行之外同时产出参赛关系行
func TestAdapterFetchEventTeamsBuildsJunctionRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event/2024casj/teams", r.URL.Path)
		w.Header().Set("ETag", `W/"et1"`)
		_, _ = w.Write([]byte(`[
			{"key":"frc254","team_number":254,"nickname":"The Cheesy Poofs","name":"NASA"},
			{"key":"frc148","team_number":148,"nickname":"Robowranglers","name":"IFI"}
		]`))
	}))
	defer srv.Close()

	a := newTestAdapter(srv.URL)
	payload, token, err := a.FetchEventTeams(context.Background(), "2024casj", "")
	require.NoError(t, err)
	assert.Equal(t, `W/"et1"`, token)
	require.Len(t, payload.Teams, 2)
	require.Len(t, payload.EventTeams, 2)
	assert.Equal(t, "2024casj", payload.EventTeams[0].EventKey)
	assert.Equal(t, "frc254", payload.EventTeams[0].TeamKey)
}

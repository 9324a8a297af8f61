// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package tools

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejzpr/nearspot/internal/database"
	"github.com/tejzpr/nearspot/internal/gemini"
	"github.com/tejzpr/nearspot/internal/geo"
	"github.com/tejzpr/nearspot/internal/location"
	"github.com/tejzpr/nearspot/internal/place"
	"github.com/tejzpr/nearspot/internal/recommend"
	"github.com/tejzpr/nearspot/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(&database.Config{
		Type:       "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "nearspot.db"),
		LogLevel:   logger.Silent,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func newTestContext(t *testing.T, client gemini.Client) *ToolContext {
	t.Helper()
	db := testDB(t)
	quota := store.NewQuotaStore(db, 2)
	poller := location.NewPoller(&geo.MockProvider{}, time.Hour)
	orch := recommend.NewOrchestrator(client, quota, poller.Latest, nil, time.Hour,
		recommend.DisplayTimings{FadeIn: time.Millisecond, Hold: time.Millisecond, FadeOut: time.Millisecond})
	return NewToolContext(store.NewMemoStore(db), quota, client, orch, poller)
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func TestSaveMemo_TagsThenSaves(t *testing.T) {
	client := &gemini.MockClient{
		TagMemoFunc: func(ctx context.Context, content, placeName string) ([]string, error) {
			return []string{"#카페", "#조용한"}, nil
		},
	}
	ctx := newTestContext(t, client)
	handler := SaveMemoHandler(ctx)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"place_name": "성수동 카페",
		"content":    "조용하고 커피가 맛있다",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, resultText(result))
	assert.Contains(t, resultText(result), "#카페")

	memo, err := ctx.Memos.GetMemo("성수동 카페")
	require.NoError(t, err)
	require.NotNil(t, memo)
	assert.Equal(t, []string{"#카페", "#조용한"}, memo.Hashtags)
}

func TestSaveMemo_TaggingFailureSavesNothing(t *testing.T) {
	client := &gemini.MockClient{
		TagMemoFunc: func(ctx context.Context, content, placeName string) ([]string, error) {
			return nil, errors.New("service unavailable")
		},
	}
	ctx := newTestContext(t, client)
	handler := SaveMemoHandler(ctx)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"place_name": "망원동 서점",
		"content":    "다음에 또 오고 싶다",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	memo, err := ctx.Memos.GetMemo("망원동 서점")
	require.NoError(t, err)
	assert.Nil(t, memo, "a failed tagging must not leave a partial write")
}

func TestSaveMemo_EmptyTagListSavesNothing(t *testing.T) {
	// A non-conforming model reply surfaces as an empty list with no
	// error; that is still a tagging failure, not a taggless save
	client := &gemini.MockClient{
		TagMemoFunc: func(ctx context.Context, content, placeName string) ([]string, error) {
			return []string{}, nil
		},
	}
	ctx := newTestContext(t, client)
	handler := SaveMemoHandler(ctx)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"place_name": "한강공원",
		"content":    "노을이 예쁘다",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, resultText(result), "retry")

	memo, err := ctx.Memos.GetMemo("한강공원")
	require.NoError(t, err)
	assert.Nil(t, memo, "an empty tag list must not leave a persisted record")
}

func TestSaveMemo_MissingArguments(t *testing.T) {
	ctx := newTestContext(t, &gemini.MockClient{})
	handler := SaveMemoHandler(ctx)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"content": "장소 이름이 없다",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestGetMemo_NotFoundAndList(t *testing.T) {
	ctx := newTestContext(t, &gemini.MockClient{})
	getHandler := GetMemoHandler(ctx)

	result, err := getHandler(context.Background(), callRequest(map[string]interface{}{
		"place_name": "없는 장소",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(result), "No memo saved")

	require.NoError(t, ctx.Memos.SaveMemo("한강공원", "자전거 타기 좋다", []string{"#야외"}, time.Now()))
	require.NoError(t, ctx.Memos.SaveMemo("북촌", "한옥이 예쁘다", nil, time.Now()))

	result, err = getHandler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	text := resultText(result)
	assert.Contains(t, text, "한강공원")
	assert.Contains(t, text, "북촌")
}

func TestRemoveMemo_Idempotent(t *testing.T) {
	ctx := newTestContext(t, &gemini.MockClient{})
	handler := RemoveMemoHandler(ctx)

	require.NoError(t, ctx.Memos.SaveMemo("익선동", "골목이 좁다", nil, time.Now()))

	result, err := handler(context.Background(), callRequest(map[string]interface{}{
		"place_name": "익선동",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	// Removing again is not an error
	result, err = handler(context.Background(), callRequest(map[string]interface{}{
		"place_name": "익선동",
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
}

func TestQuotaStatus_ReportsUsage(t *testing.T) {
	ctx := newTestContext(t, &gemini.MockClient{})
	handler := QuotaStatusHandler(ctx)

	require.NoError(t, ctx.Quota.IncrementUsage())

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(result), "1 used of 2")
}

func TestRecommendNow_NoPositionYet(t *testing.T) {
	ctx := newTestContext(t, &gemini.MockClient{})
	handler := RecommendNowHandler(ctx)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(result), "no position fix")
}

func TestRecommendNow_ReturnsPlace(t *testing.T) {
	client := &gemini.MockClient{
		RecommendPlaceFunc: func(ctx context.Context, lat, lon float64) (*place.Place, error) {
			return &place.Place{Name: "서울숲", Category: "공원", Rating: 4.5, Description: "산책하기 좋다"}, nil
		},
	}
	db := testDB(t)
	quota := store.NewQuotaStore(db, 2)
	position := func() (geo.Position, bool) {
		return geo.Position{Latitude: 37.54, Longitude: 127.04}, true
	}
	orch := recommend.NewOrchestrator(client, quota, position, nil, time.Hour,
		recommend.DisplayTimings{FadeIn: time.Millisecond, Hold: time.Millisecond, FadeOut: time.Millisecond})
	ctx := NewToolContext(store.NewMemoStore(db), quota, client, orch,
		location.NewPoller(&geo.MockProvider{}, time.Hour))

	handler := RecommendNowHandler(ctx)
	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(result), "서울숲")
}

func TestUnlockRecommend_NoAdLoaded(t *testing.T) {
	ctx := newTestContext(t, &gemini.MockClient{})
	handler := UnlockRecommendHandler(ctx)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError, "no rewarded manager wired means no unlock")
}

func TestPosition_NotSampledYet(t *testing.T) {
	ctx := newTestContext(t, &gemini.MockClient{})
	handler := PositionHandler(ctx)

	result, err := handler(context.Background(), callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.Contains(t, resultText(result), "No position known yet")
}

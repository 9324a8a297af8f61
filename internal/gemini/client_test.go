// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replyServer returns a test server whose model reply text is fixed
func replyServer(t *testing.T, replyText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)

		var req generateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Contents)

		reply := map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": replyText}}}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
}

func TestRecommendPlace_ParsesPlaceFromFreeText(t *testing.T) {
	srv := replyServer(t, "추천 장소입니다:\n```json\n{\"name\":\"서울숲\",\"description\":\"도시 숲\",\"category\":\"공원\",\"latitude\":37.544,\"longitude\":127.037,\"rating\":4.5,\"image_url\":\"https://img\"} \n```")
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key", "gemini-2.5-flash")
	p, err := c.RecommendPlace(context.Background(), 37.5, 127.0)
	require.NoError(t, err)
	require.NotNil(t, p)

	assert.Equal(t, "서울숲", p.Name)
	assert.Equal(t, "공원", p.Category)
	assert.Equal(t, 37.544, p.Latitude)
	assert.Equal(t, 4.5, p.Rating)
	assert.Equal(t, "https://img", p.ImageURL)
}

func TestRecommendPlace_NoJSONResolvesToNil(t *testing.T) {
	srv := replyServer(t, "죄송합니다. 지금은 추천할 장소가 없습니다.")
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key", "gemini-2.5-flash")
	p, err := c.RecommendPlace(context.Background(), 37.5, 127.0)
	assert.NoError(t, err, "an unparseable reply is not an error")
	assert.Nil(t, p)
}

func TestRecommendPlace_ObjectWithoutNameResolvesToNil(t *testing.T) {
	srv := replyServer(t, `{"description":"nameless"}`)
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key", "gemini-2.5-flash")
	p, err := c.RecommendPlace(context.Background(), 37.5, 127.0)
	assert.NoError(t, err)
	assert.Nil(t, p)
}

func TestRecommendPlace_APIErrorIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key", "gemini-2.5-flash")
	_, err := c.RecommendPlace(context.Background(), 37.5, 127.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestTagMemo_ParsesArray(t *testing.T) {
	srv := replyServer(t, `["#산책", "#공원", "#데이트"]`)
	defer srv.Close()

	c := NewHTTPClient(srv.URL, "test-key", "gemini-2.5-flash")
	tags, err := c.TagMemo(context.Background(), "좋은 산책이었다", "서울숲")
	require.NoError(t, err)
	assert.Equal(t, []string{"#산책", "#공원", "#데이트"}, tags)
}

func TestTagMemo_NonConformingReplyYieldsEmptyList(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"plain prose", "해시태그를 생성하지 못했습니다"},
		{"object instead of array", `{"tags":["#a"]}`},
		{"array of numbers", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := replyServer(t, tt.reply)
			defer srv.Close()

			c := NewHTTPClient(srv.URL, "test-key", "gemini-2.5-flash")
			tags, err := c.TagMemo(context.Background(), "내용", "장소")
			assert.NoError(t, err)
			assert.Empty(t, tags)
		})
	}
}

// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package gemini calls the generative recommendation service. Replies
// are free text from which the first JSON value is scraped; a reply
// with nothing parseable resolves to an empty result, not an error.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tejzpr/nearspot/internal/place"
)

// Client is the interface for the recommendation/tagging service
type Client interface {
	// RecommendPlace asks for one nearby place. A reply with no
	// parseable place resolves to (nil, nil).
	RecommendPlace(ctx context.Context, latitude, longitude float64) (*place.Place, error)

	// TagMemo generates hashtags for a memo. A non-conforming reply
	// yields an empty list.
	TagMemo(ctx context.Context, content, placeName string) ([]string, error)
}

const recommendPrompt = `당신은 현지 여행 가이드입니다. 다음 위치 주변에서 가장 추천할 만한 장소 1곳을 알려주세요.
현재 위치는 위도 %f, 경도 %f 입니다.

주변 상황(시간대, 날씨)을 고려해서 지금 방문하기 좋은 장소를 추천해주세요.
실제로 존재하는 장소를 추천하고, 해당 장소의 실제 좌표를 포함해주세요.

다음 JSON형식으로만 응답해주세요.(다른 텍스트 없이):
{
"name": "장소 이름",
"description": "장소 설명",
"category": "장소 카테고리",
"latitude": 장소 위도,
"longitude": 장소 경도,
"rating": 장소 평점,
"image_url": 장소 이미지 URL
}`

const tagMemoPrompt = `다음은 '%s' 장소에 대한 방문 메모입니다.

%s

이 메모의 분위기와 내용을 담은 해시태그를 3~5개 생성해주세요.
각 해시태그는 #으로 시작하는 한국어 단어여야 합니다.

다음 JSON 배열 형식으로만 응답해주세요.(다른 텍스트 없이):
["#해시태그1", "#해시태그2", "#해시태그3"]`

// HTTPClient implements Client against the Generative Language API
type HTTPClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// generateRequest is the generateContent request body
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generateResponse is the subset of the generateContent reply we read
type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// errorResponse is an API error reply
type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// NewHTTPClient creates a client for the given model
func NewHTTPClient(baseURL, apiKey, model string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// RecommendPlace asks the model for one nearby place recommendation
func (c *HTTPClient) RecommendPlace(ctx context.Context, latitude, longitude float64) (*place.Place, error) {
	prompt := fmt.Sprintf(recommendPrompt, latitude, longitude)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw := FirstJSONObject(text)
	if raw == nil {
		return nil, nil
	}

	var p place.Place
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, nil
	}
	if p.Name == "" {
		return nil, nil
	}
	return &p, nil
}

// TagMemo asks the model for hashtags describing a memo
func (c *HTTPClient) TagMemo(ctx context.Context, memoContent, placeName string) ([]string, error) {
	prompt := fmt.Sprintf(tagMemoPrompt, placeName, memoContent)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw := FirstJSONArray(text)
	if raw == nil {
		return []string{}, nil
	}

	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return []string{}, nil
	}
	return tags, nil
}

// generate performs one generateContent call and returns the reply text
func (c *HTTPClient) generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return "", fmt.Errorf("gemini API error: %s", errResp.Error.Message)
		}
		return "", fmt.Errorf("gemini API error: status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(genResp.Candidates) == 0 || len(genResp.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	return genResp.Candidates[0].Content.Parts[0].Text, nil
}

// MockClient is a mock implementation for testing
type MockClient struct {
	RecommendPlaceFunc func(ctx context.Context, latitude, longitude float64) (*place.Place, error)
	TagMemoFunc        func(ctx context.Context, content, placeName string) ([]string, error)
	RecommendCalls     int
	TagMemoCalls       int
}

// RecommendPlace calls the mock function
func (m *MockClient) RecommendPlace(ctx context.Context, latitude, longitude float64) (*place.Place, error) {
	m.RecommendCalls++
	if m.RecommendPlaceFunc != nil {
		return m.RecommendPlaceFunc(ctx, latitude, longitude)
	}
	return nil, nil
}

// TagMemo calls the mock function
func (m *MockClient) TagMemo(ctx context.Context, content, placeName string) ([]string, error) {
	m.TagMemoCalls++
	if m.TagMemoFunc != nil {
		return m.TagMemoFunc(ctx, content, placeName)
	}
	return []string{}, nil
}

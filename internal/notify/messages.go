// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package notify

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// defaultMessages is the built-in background message pool
var defaultMessages = []string{
	"주변에 숨겨진 맛집이 있을지도 몰라요!",
	"지금 근처에 가볼 만한 카페가 있어요!",
	"산책하기 좋은 공원이 가까이 있어요!",
	"새로운 장소를 발견해보세요!",
	"오늘의 추천 장소를 확인해보세요!",
	"근처에 인기 있는 명소가 있어요!",
	"잠깐 쉬어갈 수 있는 장소를 찾았어요!",
	"주변 맛집 정보가 업데이트되었어요!",
}

// messagesFile is the YAML shape of a message pool override file
type messagesFile struct {
	Messages []string `yaml:"messages"`
}

// LoadMessages returns the message pool, reading a YAML override from
// path when provided. An empty path yields the built-in pool.
func LoadMessages(path string) ([]string, error) {
	if path == "" {
		return defaultMessages, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages file: %w", err)
	}

	var mf messagesFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return nil, fmt.Errorf("failed to parse messages file: %w", err)
	}
	if len(mf.Messages) == 0 {
		return nil, fmt.Errorf("messages file %s contains no messages", path)
	}
	return mf.Messages, nil
}

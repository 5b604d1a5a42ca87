// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package searxng

import (
	"encoding/json"

	"github.com/poiesic/newsvec/core"
)

// sourceField decodes the "source" attribute, which engines emit either as
// a plain string or as an object carrying a "name" member.
type sourceField string

func (s *sourceField) UnmarshalJSON(data []byte) error {
	var asString string
	if err := json.Unmarshal(data, &asString); err == nil {
		*s = sourceField(asString)
		return nil
	}

	var asObject struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &asObject); err != nil {
		return err
	}
	*s = sourceField(asObject.Name)
	return nil
}

// searchResult is the per-result shape of the SearXNG JSON payload.
type searchResult struct {
	URL           string      `json:"url"`
	Title         string      `json:"title"`
	Content       string      `json:"content"`
	PublishedDate string      `json:"publishedDate"`
	Source        sourceField `json:"source"`
	ImgSrc        string      `json:"img_src"`
	Thumbnail     string      `json:"thumbnail"`
}

// decodeHit converts one raw result into a core.SearchHit, keeping the
// original JSON attached.
func decodeHit(raw json.RawMessage) (*core.SearchHit, error) {
	var result searchResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, err
	}

	return &core.SearchHit{
		URL:           result.URL,
		Title:         result.Title,
		Content:       result.Content,
		PublishedDate: result.PublishedDate,
		SourceName:    string(result.Source),
		ImgSrc:        result.ImgSrc,
		Thumbnail:     result.Thumbnail,
		Raw:           string(raw),
	}, nil
}

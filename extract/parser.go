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


package extract

import (
	"net/url"
	"strings"

	"github.com/markusmobius/go-trafilatura"
)

// PageMetadata holds the metadata recovered from a fetched page.
type PageMetadata struct {
	Title       string
	Author      string
	Date        string
	Sitename    string
	Description string
	Image       string
}

// ParseResult is the outcome of parsing one page.
type ParseResult struct {
	// Text is the extracted main body text. Empty when the parser found
	// no usable article content.
	Text string
	Meta PageMetadata
}

// Parser extracts article text and metadata from raw HTML.
type Parser interface {
	Parse(html, pageURL string) (*ParseResult, error)
}

// TrafilaturaParser implements Parser using the trafilatura content
// extraction heuristics, tuned toward recall so short articles survive.
type TrafilaturaParser struct{}

// NewTrafilaturaParser creates the production parser.
func NewTrafilaturaParser() *TrafilaturaParser {
	return &TrafilaturaParser{}
}

// Parse extracts the article body and metadata from the page.
func (p *TrafilaturaParser) Parse(html, pageURL string) (*ParseResult, error) {
	opts := trafilatura.Options{
		ExcludeComments: true,
		Deduplicate:     true,
		Focus:           trafilatura.FavorRecall,
	}
	if parsed, err := url.Parse(pageURL); err == nil {
		opts.OriginalURL = parsed
	}

	result, err := trafilatura.Extract(strings.NewReader(html), opts)
	if err != nil {
		return nil, err
	}

	parsed := &ParseResult{
		Text: strings.TrimSpace(result.ContentText),
		Meta: PageMetadata{
			Title:       result.Metadata.Title,
			Author:      result.Metadata.Author,
			Sitename:    result.Metadata.Sitename,
			Description: result.Metadata.Description,
			Image:       result.Metadata.Image,
		},
	}
	if !result.Metadata.Date.IsZero() {
		parsed.Meta.Date = result.Metadata.Date.Format("2006-01-02")
	}
	return parsed, nil
}

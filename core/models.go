package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored articles.
// It is generated from the article URL using content-based hashing, so the
// same URL always maps to the same record.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SearchHit is a single result returned by the metasearch collaborator.
// Field values are captured verbatim from the search response; Raw retains
// the full serialized result object for audit and replay.
type SearchHit struct {
	URL           string
	Title         string
	Content       string // search snippet
	PublishedDate string
	SourceName    string
	ImgSrc        string
	Thumbnail     string
	Raw           string
}

// Article is a discovered news item tracked through the
// discovery -> extraction lifecycle.
//
// The discovery-time fields (URL through RawResult) are immutable after
// insert. Processed flips from false to true exactly once, together with
// ExtractionOK; once processed, an article is never revisited.
type Article struct {
	Id            ID
	URL           string
	Title         string
	Content       string // search snippet captured at discovery time
	PublishedDate string
	SourceName    string
	ImgSrc        string
	Thumbnail     string
	RawResult     string // full serialized search result

	Processed         bool
	ExtractionOK      bool   // full-page extraction produced content
	ExtractedContent  string // set only when ExtractionOK
	ExtractedMetadata string // serialized ArticleMetadata, set when processing produced a document

	CreatedAt time.Time
}

// ArticleMetadata is the merged, cleaned metadata attached to every chunk
// uploaded to the vector store. Merge order is first-non-empty: extracted
// value, then the stored article field, then a derived default.
type ArticleMetadata struct {
	Title         string `json:"title"`
	Date          string `json:"date"`
	Author        string `json:"author"`
	Source        string `json:"source"`
	URL           string `json:"url"`
	Description   string `json:"description"` // truncated to 500 characters
	ImageURL      string `json:"image_url"`
	ContentSource string `json:"content_source"`
	ExtractionOK  bool   `json:"trafilatura_success"`
	SourceID      string `json:"source_id,omitempty"` // original article URL, set by the batcher
}

// Document is the in-memory output of the extraction engine, handed directly
// to the batcher. Documents are never persisted; they exist only for the
// duration of one pipeline run.
type Document struct {
	ID       string // article URL
	Text     string
	Metadata ArticleMetadata
}

// StoreStats holds counts derived from the current article store contents.
type StoreStats struct {
	Total               int
	Processed           int
	Unprocessed         int
	ExtractionSucceeded int
	ExtractionFailed    int
}

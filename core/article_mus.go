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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Hand-written MUS serializers for the persisted types. Article is the only
// record stored durably, so the serializers are maintained by hand instead
// of generated.

// IDMUS serializes IDs for storage keys and index values.
var IDMUS = idMUS{}

type idMUS struct{}

func (idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idMUS) Size(id ID) (size int) {
	return varint.Uint64.Size(uint64(id))
}

// ArticleMUS serializes Article records. Timestamps are stored as Unix
// microseconds in UTC.
var ArticleMUS = articleMUS{}

type articleMUS struct{}

func (articleMUS) Marshal(a Article, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(a.Id), bs)
	for _, s := range a.stringFields() {
		n += ord.String.Marshal(s, bs[n:])
	}
	n += ord.Bool.Marshal(a.Processed, bs[n:])
	n += ord.Bool.Marshal(a.ExtractionOK, bs[n:])
	n += varint.Int64.Marshal(a.CreatedAt.UnixMicro(), bs[n:])
	return
}

func (articleMUS) Unmarshal(bs []byte) (a Article, n int, err error) {
	var n1 int
	var id uint64
	id, n, err = varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	a.Id = ID(id)

	fields := []*string{
		&a.URL, &a.Title, &a.Content, &a.PublishedDate, &a.SourceName,
		&a.ImgSrc, &a.Thumbnail, &a.RawResult,
		&a.ExtractedContent, &a.ExtractedMetadata,
	}
	for _, field := range fields {
		*field, n1, err = ord.String.Unmarshal(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}

	a.Processed, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	a.ExtractionOK, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}

	var micro int64
	micro, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	a.CreatedAt = time.UnixMicro(micro).UTC()
	return
}

func (articleMUS) Size(a Article) (size int) {
	size = varint.Uint64.Size(uint64(a.Id))
	for _, s := range a.stringFields() {
		size += ord.String.Size(s)
	}
	size += ord.Bool.Size(a.Processed)
	size += ord.Bool.Size(a.ExtractionOK)
	size += varint.Int64.Size(a.CreatedAt.UnixMicro())
	return
}

// stringFields lists the string fields in serialization order.
// Marshal, Unmarshal, and Size must all agree on this order.
func (a Article) stringFields() []string {
	return []string{
		a.URL, a.Title, a.Content, a.PublishedDate, a.SourceName,
		a.ImgSrc, a.Thumbnail, a.RawResult,
		a.ExtractedContent, a.ExtractedMetadata,
	}
}

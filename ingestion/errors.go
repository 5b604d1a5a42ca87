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


package ingestion

import "errors"

var (
	// ErrStoreRequired indicates a nil article repository was provided.
	ErrStoreRequired = errors.New("article repository is required")

	// ErrSearcherRequired indicates a nil searcher was provided.
	ErrSearcherRequired = errors.New("searcher is required")

	// ErrExtractorRequired indicates a nil extractor was provided.
	ErrExtractorRequired = errors.New("extractor is required")

	// ErrBatcherRequired indicates a nil batcher was provided.
	ErrBatcherRequired = errors.New("batcher is required")

	// ErrEmbedderRequired indicates a nil embedder was provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrVectorStoreRequired indicates a nil vector store was provided.
	ErrVectorStoreRequired = errors.New("vector store is required")

	// ErrEmbeddingCountMismatch indicates the embedder returned a different
	// number of vectors than texts submitted.
	ErrEmbeddingCountMismatch = errors.New("embedding count does not match chunk count")
)

// Package ingestion orchestrates the news collection pipeline.
//
// A run has three phases. The Collector pages through search results and
// stores every newly discovered article durably. The backlog of
// unprocessed articles is then extracted one at a time, each attempt
// recording a permanent outcome. Finally the Batcher chunks the resulting
// documents, embeds the chunks across a worker pool, and uploads all rows
// to the vector store in a single bulk insert.
//
// Collection is durable by design: once a search hit is stored, later
// extraction or upload failures never lose it, and the article simply
// stays in the backlog for the next run.
package ingestion

// Package docstore persists named collections as single JSON array blobs.
//
// Every mutation is read-entire-collection, modify in memory, write-
// entire-collection back. There is no optimistic or pessimistic
// concurrency control: two concurrent writers to the same collection
// race, and the later write silently discards the earlier one
// (last-writer-wins at whole-blob granularity). Callers must not assume
// atomic per-record updates.
package docstore

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/soil-network/platform-api/internal/blobstore"
	"github.com/soil-network/platform-api/internal/logging"
)

const keySuffix = ".json"

// Predicate selects documents within a collection.
type Predicate func(doc json.RawMessage) bool

// Transform rewrites a single document.
type Transform func(doc json.RawMessage) json.RawMessage

// FieldEquals matches documents whose named field equals value.
func FieldEquals(field, value string) Predicate {
	return func(doc json.RawMessage) bool {
		return gjson.GetBytes(doc, field).String() == value
	}
}

// Store reads and writes whole-collection JSON blobs. Read failures
// (backend unreachable, malformed JSON) degrade to an empty collection;
// write failures degrade to a false return. Neither is surfaced as an
// error to callers.
type Store struct {
	blobs blobstore.Backend
	log   *logging.Logger
}

// New creates a document store over the given blob backend.
func New(blobs blobstore.Backend, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewDefault("docstore")
	}
	return &Store{blobs: blobs, log: log}
}

// Documents returns the raw documents of a collection. Absent or
// undecodable collections yield an empty slice.
func (s *Store) Documents(ctx context.Context, collection string) []json.RawMessage {
	data, err := s.blobs.Get(ctx, collection+keySuffix)
	if err != nil {
		if err != blobstore.ErrNotFound {
			s.log.WithContext(ctx).WithError(err).Warnf("read collection %s", collection)
		}
		return nil
	}

	var docs []json.RawMessage
	if err := json.Unmarshal(data, &docs); err != nil {
		s.log.WithContext(ctx).WithError(err).Warnf("decode collection %s", collection)
		return nil
	}
	return docs
}

// Read decodes a collection into dst (a pointer to a slice). dst is left
// untouched when the collection is absent or undecodable.
func (s *Store) Read(ctx context.Context, collection string, dst any) {
	data, err := s.blobs.Get(ctx, collection+keySuffix)
	if err != nil {
		if err != blobstore.ErrNotFound {
			s.log.WithContext(ctx).WithError(err).Warnf("read collection %s", collection)
		}
		return
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.log.WithContext(ctx).WithError(err).Warnf("decode collection %s", collection)
	}
}

// Write replaces the collection with v. Returns false on failure.
func (s *Store) Write(ctx context.Context, collection string, v any) bool {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Warnf("encode collection %s", collection)
		return false
	}
	if err := s.blobs.Put(ctx, collection+keySuffix, data); err != nil {
		s.log.WithContext(ctx).WithError(err).Warnf("write collection %s", collection)
		return false
	}
	return true
}

// Append adds doc to the end of the collection.
func (s *Store) Append(ctx context.Context, collection string, doc any) bool {
	raw, err := json.Marshal(doc)
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Warnf("encode document for %s", collection)
		return false
	}
	docs := s.Documents(ctx, collection)
	docs = append(docs, raw)
	return s.Write(ctx, collection, docs)
}

// UpdateWhere rewrites the first document matching pred. Returns false
// when no document matches or the write fails.
func (s *Store) UpdateWhere(ctx context.Context, collection string, pred Predicate, transform Transform) bool {
	docs := s.Documents(ctx, collection)
	for i, doc := range docs {
		if pred(doc) {
			docs[i] = transform(doc)
			return s.Write(ctx, collection, docs)
		}
	}
	return false
}

// RemoveWhere drops every document matching pred and writes the result
// back, whether or not anything matched.
func (s *Store) RemoveWhere(ctx context.Context, collection string, pred Predicate) bool {
	docs := s.Documents(ctx, collection)
	kept := docs[:0]
	for _, doc := range docs {
		if !pred(doc) {
			kept = append(kept, doc)
		}
	}
	return s.Write(ctx, collection, kept)
}

// Drop deletes the collection blob entirely.
func (s *Store) Drop(ctx context.Context, collection string) bool {
	if err := s.blobs.Delete(ctx, collection+keySuffix); err != nil {
		s.log.WithContext(ctx).WithError(err).Warnf("drop collection %s", collection)
		return false
	}
	return true
}

// Collections lists the names of stored collections.
func (s *Store) Collections(ctx context.Context) []string {
	keys, err := s.blobs.List(ctx, "")
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Warnf("list collections")
		return nil
	}
	var names []string
	for _, k := range keys {
		names = append(names, strings.TrimSuffix(k, keySuffix))
	}
	return names
}

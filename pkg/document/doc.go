// Package document owns the JSON document being visualized.
//
// A [Handle] is the single owner of the decoded document. It loads text from
// a [Store], hands out deep copies and display graphs, and replaces the
// document only through [Handle.Apply] or [Handle.Modify]. Every successful
// apply serializes the whole document with 2-space indentation, writes it
// through the store under a fresh revision, and records the RFC 7386 merge
// patch between the old and the new text.
//
// Stores hold document text:
//
//   - [MemoryStore]: in-process, for tests and one-shot CLI runs
//   - [FileStore]: a .json file, or a .yaml/.yml file converted on the fly
//   - [RedisStore]: a Redis string plus a metadata hash
//   - [MongoStore]: one MongoDB document per name
package document

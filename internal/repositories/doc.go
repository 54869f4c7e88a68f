// Package repositories provides the persistence layer for the playlist collection.
//
// PlaylistStore is the single source of truth for curated playlists and the
// configured username. Every mutation is written through to SQLite before
// the call returns, so the change is visible to the next read and survives
// process restart. Mutations from concurrent tasks are serialized by a
// single writer mutex; reads return consistent snapshots.
package repositories

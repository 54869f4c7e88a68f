// Package models defines domain entities for the playlist sync service.
//
// The package contains two categories of types:
//
// 1. Records managed by the playlist store:
//   - [Playlist] : A curated remote playlist with sync ordering metadata
//   - [Collection] : Snapshot of every stored playlist plus the configured username
//
// 2. Descriptors produced by external capabilities:
//   - [RemotePlaylist] : A playlist as listed by the remote service, before curation
//   - [Track] : A resolved track awaiting download
//
// Playlist priorities form a total order used for sync and display sequencing;
// duplicate priorities are tolerated and resolved by insertion order at read time.
package models

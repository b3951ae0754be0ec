// Package models defines the data model shared by the waxlog client packages.
//
// The package contains two categories of types:
//
// 1. Catalog DTOs: boundary-normalized shapes of third-party metadata API data
//   - [Album] : album metadata with size-variant image list
//   - [Artist] : artist metadata
//   - [AlbumRef] : transient reference to an album from any source, the input
//     to identity resolution and mutations
//
// 2. Collection entities: the user's saved-album state
//   - [SavedAlbum] : a persisted user-album association from the document store
//   - [StatusView] : derived added/listened status for one album, computed per
//     query and never stored
//   - [User] : the authenticated account holder
//
// All types are plain structs; persistence shape and field mapping live in the
// docstore and collection packages.
package models

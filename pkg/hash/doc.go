// Package hash provides content hashing for grip's render cache and live
// reload.
//
// Rendered fragments are cached on disk under a name derived from the
// render options and the markdown text:
//
//	key := hash.ContentKey("user:octo/repo", text)
//	// 40 hex characters, stable across runs
//
// The server fingerprints each rendered page so that browsers only reload
// when the output actually changed:
//
//	v := hash.Version(page)  // 8 hex characters
//	tag := hash.ETag(page)   // quoted, for the ETag header
package hash

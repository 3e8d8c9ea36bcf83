// Package metadata is the local key/value store backing everything the
// client keeps across restarts: the recent boards list under one namespaced
// key and the auth session under another.
//
// Values are opaque bytes; callers own the encoding. Get on a missing key
// returns (nil, nil) so first-run reads need no special casing.
package metadata

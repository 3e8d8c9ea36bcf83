// Package store is the application state container of the client.
//
// One Store instance, built by the composition root, holds every
// collection the front ends render from: boards, personal items and their
// selection, item matches, the ad hoc query and its results, and the
// persisted recent boards list. Actions combine remote calls with state
// mutations and report progress in a per-action Status, so concurrent
// unrelated actions never clobber each other's loading or error flags.
//
// Every mutation is computed from the state current at commit time. Two
// actions completing at once on the same collection cannot lose each
// other's update. Subscribers receive a copy of the state after each commit.
package store

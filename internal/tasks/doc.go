// Package tasks orchestrates user-initiated album operations against the
// collection store.
//
// # Status Transitions
//
// The [Orchestrator] treats every mutation as a transition from the album's
// resolved state, never as a blind write:
//
//  1. MarkAdded: saves an album that is not yet in the list
//  2. MarkListened: saves-as-listened or flips the listened flag, depending
//     on whether the album is already saved
//  3. MarkUnlistened: clears the flag on a listened album
//  4. Remove: drops a saved album
//
// A transition whose precondition already holds is a no-op [Result], not an
// error, so double-clicks and replayed requests are harmless.
//
// # Debounced Search
//
// The [Debouncer] coalesces keystrokes into catalog searches and drops
// results that arrive after the query has moved on, so the UI never renders
// matches for an input the user already replaced.
package tasks

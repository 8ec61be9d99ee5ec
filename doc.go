// SPDX-License-Identifier: GPL-3.0-or-later

// Package pncore implements the core of a client for a hosted
// publish/subscribe messaging service.
//
// # Core Abstraction
//
// The package is built around [Context], the per-connection state machine
// that drives exactly one transaction at a time — publish, subscribe,
// history, presence, or grant/revoke token — against the service's
// HTTP(S) endpoints. A Context owns the subscribe cursor (timetoken and
// region), a bounded send/receive buffer pair, and an optional crypto
// module for payload encryption.
//
// # Transactions
//
// Every operation ([Context.Publish], [Context.Subscribe],
// [Context.History], [Context.Time], [Context.HereNow],
// [Context.WhereNow], [Context.SetState], [Context.GetState],
// [Context.GrantToken], [Context.RevokeToken]) returns immediately: with
// [ResultStarted] once it has started a transaction, or, without starting
// one, with [ResultInProgress] or the code of a failed parameter check.
// A started transaction then runs
// the same internal state machine regardless of which operation started
// it: resolve the origin's address, connect, optionally handshake TLS,
// send the formatted request, receive and decode the response, and parse
// the service-specific envelope.
//
// Three I/O personalities observe the same machine:
//
//   - [Context.Await] blocks the calling goroutine until the transaction
//     reaches a terminal outcome.
//   - [Context.LastResult] never blocks; poll it until it stops
//     returning [ResultStarted].
//   - [Context.OnOutcome] registers a callback invoked exactly once per
//     transaction, on the terminal transition.
//
// # Subscribe cursor
//
// The first subscribe after [Context] creation is the handshake: it
// returns a fresh timetoken immediately, with no messages. Every
// subsequent subscribe long-polls with that timetoken and region,
// delivering messages strictly in the order the service returned them.
// [Context.Get] drains the parsed message queue one entry at a time.
// See [WithMissedMessagesOK] for the policy governing what happens to
// the stored cursor when a subscribe fails.
//
// # Pool
//
// [Pool] manages a fixed-size set of reusable contexts
// ([DefaultContextPoolSize]), mirroring embedded deployments where
// contexts are allocated from a static array rather than the heap. A
// single heap-allocated [Context] (via [NewContext]) is equally valid for
// hosted Go programs.
//
// # Design boundaries
//
// This package does not implement a general JSON object model, a TLS
// stack, or platform threading primitives. It treats those as injected
// collaborators (see internal/pal, internal/transport) so the same
// transaction logic can run embedded, behind a mock transport in tests,
// or over a real TLS dial.
package pncore

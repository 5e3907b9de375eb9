// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chatflow implements sending a question: the optimistic user
// append, the backend call, and the reply or apology append.
//
// States per question are idle, sending, delivered and failed. A failed
// send appends a bot message classified as error; its text depends on
// whether the failure was in transport (NetworkApology) or reported by
// the backend (ApplicationApology). Nothing is retried.
//
// # Usage
//
//	s := chatflow.New(manager, client, sess.SessionID())
//	reply, err := s.Send(ctx, "How can I track my ovulation?")
package chatflow

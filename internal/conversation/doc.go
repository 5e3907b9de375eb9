// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation owns the per-identity list of chat threads and the
// pointer to the active one.
//
// A Manager is built for one identity and thrown away when the identity
// changes. Authenticated identities persist to a storage.Store under two
// keys per user:
//
//	conversations:<userID>         JSON array of model.Conversation
//	current-conversation:<userID>  active conversation id
//
// The guest identity (empty user id) gets a single conversation with the
// fixed id model.GuestConversationID that is never written to the store.
//
// # Usage
//
//	mgr := conversation.New(store, session.User.ID)
//	mgr.AddMessage(model.NewUserMessage(text))
//	for _, c := range mgr.Recent(conversation.DefaultRecentLimit) {
//	    fmt.Println(conversation.DisplayTitle(c))
//	}
package conversation

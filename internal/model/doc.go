// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: an append-only chat thread with a title and owner
//   - Message: a single user or bot message with an optional classification
//   - Sender: message author (user, bot)
//   - Classification: bot reply category (normal, emergency, out_of_domain, error)
//
// # Usage
//
//	conv := model.NewConversation(userID)
//	conv.AddMessage(model.NewUserMessage("What is a normal cycle?"))
//	conv.AddMessage(model.NewBotMessage(reply, model.ClassificationNormal))
//
// The first user message appended to an empty conversation becomes its
// title, truncated to TitleMaxLength characters.
package model

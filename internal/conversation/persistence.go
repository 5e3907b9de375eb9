// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
	"github.com/julianacholder/womens-health-chatbot/internal/storage"
)

// Key prefixes of the persisted layout. The value under ListKey is a JSON
// array of conversations; the value under CurrentKey is the raw active id.
const (
	listKeyPrefix    = "conversations:"
	currentKeyPrefix = "current-conversation:"
)

// ListKey returns the store key holding a user's conversation list.
func ListKey(userID string) string {
	return listKeyPrefix + userID
}

// CurrentKey returns the store key holding a user's active conversation id.
func CurrentKey(userID string) string {
	return currentKeyPrefix + userID
}

// LoadConversations reads a user's persisted conversation list.
// A missing key yields an empty list and no error.
func LoadConversations(store storage.Store, userID string) ([]*model.Conversation, error) {
	data, err := store.Get(ListKey(userID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var convs []*model.Conversation
	if err := json.Unmarshal(data, &convs); err != nil {
		return nil, fmt.Errorf("decode %s: %w", ListKey(userID), err)
	}

	// Drop null entries so callers never see a nil conversation.
	out := convs[:0]
	for _, c := range convs {
		if c == nil || c.ID == "" {
			continue
		}
		if c.Messages == nil {
			c.Messages = make([]*model.Message, 0)
		}
		out = append(out, c)
	}
	return out, nil
}

// LoadCurrentID reads a user's persisted active conversation id.
// A missing key yields "" and no error.
func LoadCurrentID(store storage.Store, userID string) (string, error) {
	data, err := store.Get(CurrentKey(userID))
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// saveConversations writes the whole list in one Set call.
func saveConversations(store storage.Store, userID string, convs []*model.Conversation) error {
	if convs == nil {
		convs = []*model.Conversation{}
	}
	data, err := json.Marshal(convs)
	if err != nil {
		return err
	}
	return store.Set(ListKey(userID), data)
}

func saveCurrentID(store storage.Store, userID, id string) error {
	return store.Set(CurrentKey(userID), []byte(id))
}

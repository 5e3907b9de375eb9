// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chatflow

// StarterQuestions are offered on the welcome screen of an empty conversation.
var StarterQuestions = []string{
	"What is a normal menstrual cycle?",
	"How can I track my ovulation?",
	"When should I see a gynecologist?",
	"How do I manage period pain naturally?",
}

// Welcome copy for an empty conversation.
const (
	Greeting    = "Hi, I'm Luna 🌙"
	Tagline     = "Your friendly companion for menstrual and reproductive health questions."
	Disclaimer  = "Luna shares general health information, not medical advice. For diagnosis or treatment, please talk to a healthcare provider. In an emergency, contact your local emergency services."
	InputPrompt = "Ask Luna anything about your cycle..."
)

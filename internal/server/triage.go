// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"strings"

	"github.com/julianacholder/womens-health-chatbot/internal/model"
)

// ============================================================================
// COPY
// ============================================================================

// OutOfDomainReply is sent when a question is not about women's health.
const OutOfDomainReply = "🌸 Hey there, I'm Luna, a women's health specialist chatbot 💕. " +
	"I can help with questions about reproductive health, pregnancy, menstrual health, " +
	"contraception, fertility, and other women's wellness topics🌈. " +
	"Could you ask a women's health related question?✨"

// GenerationFailedReply is sent when the responder fails.
const GenerationFailedReply = "I apologize, but I'm having trouble generating a response right now. Please try again."

// Disclaimer is appended to every generated answer.
const Disclaimer = "\n\n💡 Please consult your healthcare provider for personalized advice."

// MaxAnswerWords bounds a generated answer before the disclaimer.
const MaxAnswerWords = 100

// ============================================================================
// TRIAGE
// ============================================================================

type emergencyRule struct {
	keyword  string
	response string
}

// emergencyRules are checked in order; the first match wins.
var emergencyRules = []emergencyRule{
	{"suicide", "🆘 This seems serious. Please contact the National Suicide Prevention Lifeline at 988 or go to your nearest emergency room immediately."},
	{"kill myself", "🆘 Please reach out for help immediately. National Suicide Prevention Lifeline: 988 or emergency services: 911."},
	{"hurt myself", "🆘 Please contact a crisis helpline: National Suicide Prevention Lifeline 988 or Crisis Text Line: Text HOME to 741741."},
	{"severe bleeding", "🚨 Heavy bleeding can be a medical emergency. Please seek immediate medical attention or call 911."},
	{"severe pain", "🚨 Severe pain requires immediate medical evaluation. Please contact your healthcare provider or emergency services."},
	{"emergency", "🚨 This sounds like a medical emergency. Please call emergency services immediately or go to your nearest emergency room."},
	{"unconscious", "🚨 Loss of consciousness is a medical emergency. Call 911 immediately."},
	{"overdose", "🚨 This is a medical emergency. Call Poison Control at 1-800-222-1222 or 911 immediately."},
}

// healthKeywords mark a question as in scope.
var healthKeywords = []string{
	"pregnancy", "period", "menstrual", "contraception", "fertility",
	"breast", "vaginal", "uterus", "ovary", "hormone", "pcos",
	"endometriosis", "menopause", "pap smear", "gynecologist",
	"birth control", "ovulation", "cramps", "discharge", "infection",
	"health", "pain", "symptoms", "doctor", "medical", "pregnant",
	"cycle", "bleeding", "contraceptive", "reproductive", "sex", "sexual health", "bleed",
	"menstruation", "wellness", "obstetrics", "gynecology", "vulva", "intercourse",
	"fertility awareness", "prenatal", "postnatal", "hysterectomy", "fibroids",
	"cervical health", "vaginitis", "premenstrual syndrome", "pms", "pelvic pain",
}

// Verdict is the outcome of triaging a question.
type Verdict struct {
	Classification model.Classification
	// Response is set for emergency and out-of-domain verdicts.
	Response string
}

// Triage decides how a question is answered. Emergencies take priority
// over the domain check; matching is case-insensitive substring search.
func Triage(question string) Verdict {
	lower := strings.ToLower(question)

	for _, rule := range emergencyRules {
		if strings.Contains(lower, rule.keyword) {
			return Verdict{Classification: model.ClassificationEmergency, Response: rule.response}
		}
	}

	for _, kw := range healthKeywords {
		if strings.Contains(lower, kw) {
			return Verdict{Classification: model.ClassificationNormal}
		}
	}

	return Verdict{Classification: model.ClassificationOutOfDomain, Response: OutOfDomainReply}
}

// ============================================================================
// RESPONDER
// ============================================================================

// Responder produces the answer for an in-scope question.
type Responder interface {
	Respond(ctx context.Context, question string) (string, error)
}

// ResponderFunc adapts a function to Responder.
type ResponderFunc func(ctx context.Context, question string) (string, error)

// Respond calls f.
func (f ResponderFunc) Respond(ctx context.Context, question string) (string, error) {
	return f(ctx, question)
}

type topic struct {
	keywords []string
	answer   string
}

// cannedTopics are checked in order.
var cannedTopics = []topic{
	{
		keywords: []string{"period", "menstrua", "cycle", "pms", "premenstrual"},
		answer: "A typical menstrual cycle lasts between 21 and 35 days, with bleeding for about 2 to 7 days. " +
			"Cycles can vary from month to month, especially in the first few years after your first period and as you approach menopause. " +
			"Tracking your cycle can help you notice changes worth discussing with a doctor.",
	},
	{
		keywords: []string{"cramps", "pelvic pain", "pain"},
		answer: "Mild cramping before and during a period is common and often eases with heat, gentle exercise, and over-the-counter pain relief. " +
			"Pain that stops you from doing everyday activities, or that is getting worse over time, can be a sign of conditions such as endometriosis or fibroids.",
	},
	{
		keywords: []string{"pregnan", "prenatal", "postnatal"},
		answer: "Early signs of pregnancy can include a missed period, tender breasts, nausea, and tiredness. " +
			"A home pregnancy test is most reliable from the first day of a missed period. " +
			"If you are pregnant, starting prenatal care early and taking folic acid supports a healthy pregnancy.",
	},
	{
		keywords: []string{"contracept", "birth control"},
		answer: "Common contraception options include hormonal methods such as the pill, patch, ring, implant, and hormonal IUD, and non-hormonal methods such as the copper IUD and condoms. " +
			"Each method differs in effectiveness, side effects, and how often you need to think about it.",
	},
	{
		keywords: []string{"fertility", "ovulation"},
		answer: "Ovulation usually happens about 14 days before your next period. " +
			"The most fertile days are the five days before ovulation and the day of ovulation itself. " +
			"Signs include changes in cervical mucus and a slight rise in basal body temperature.",
	},
	{
		keywords: []string{"menopause", "hormone"},
		answer: "Menopause is confirmed after 12 months without a period and usually happens between ages 45 and 55. " +
			"Hot flashes, sleep changes, and mood changes are common during the transition. " +
			"Several treatment options can help manage symptoms.",
	},
	{
		keywords: []string{"pcos", "endometriosis", "fibroids"},
		answer: "Conditions such as PCOS, endometriosis, and fibroids are common and can affect periods, pain, and fertility. " +
			"Diagnosis usually involves a review of symptoms, a physical exam, and sometimes blood tests or an ultrasound.",
	},
	{
		keywords: []string{"discharge", "infection", "vaginitis", "vaginal"},
		answer: "Some vaginal discharge is normal and changes through your cycle. " +
			"A change in color, a strong odor, itching, or irritation can point to an infection such as thrush or bacterial vaginosis, which are easy to treat.",
	},
}

const genericAnswer = "That's a great question about women's health. " +
	"Symptoms and experiences vary a lot from person to person, so it helps to keep notes on what you notice and when. " +
	"A gynecologist or primary care doctor can give you advice that fits your situation."

// CannedResponder answers from a fixed topic table.
type CannedResponder struct{}

// Respond returns the first topic answer whose keywords match.
func (CannedResponder) Respond(ctx context.Context, question string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lower := strings.ToLower(question)
	for _, t := range cannedTopics {
		for _, kw := range t.keywords {
			if strings.Contains(lower, kw) {
				return t.answer, nil
			}
		}
	}
	return genericAnswer, nil
}

// ============================================================================
// FORMATTING
// ============================================================================

// TruncateAnswer keeps whole sentences up to MaxAnswerWords words and
// appends the Disclaimer. The first sentence is always kept.
func TruncateAnswer(text string) string {
	sentences := strings.Split(strings.TrimSpace(text), ". ")

	words := 0
	var kept []string
	for _, s := range sentences {
		n := len(strings.Fields(s))
		if words+n > MaxAnswerWords {
			break
		}
		kept = append(kept, s)
		words += n
	}

	var result string
	if len(kept) > 0 {
		result = strings.Join(kept, ". ")
		if !strings.HasSuffix(result, ".") {
			result += "."
		}
	} else {
		result = sentences[0] + "."
	}

	return result + Disclaimer
}

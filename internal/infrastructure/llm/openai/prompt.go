package openai

import "log/slog"

const (
	systemPromptAnalyze = "You are an actuarial expert analyzing memorandums."

	systemPromptCompliance = "You are an actuarial expert. Analyze this actuarial memorandum for ASOP compliance. " +
		"Provide specific insights about compliance with actuarial standards of practice."
)

// truncateInput bounds the document text sent to the completion API. Very
// large memorandums would otherwise exceed the model's input window.
func truncateInput(operation, text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	slog.Warn("analysis_input_truncated",
		"operation", operation,
		"original_runes", len(runes),
		"max_runes", maxChars,
	)
	return string(runes[:maxChars])
}

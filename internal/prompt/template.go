// Package prompt formats raw user text into the scaffolded input the model
// expects: a fixed system instruction, role delimiters, and an open assistant
// turn. Formatting is pure and byte-for-byte reproducible.
package prompt

import "strings"

// Instruction is the fixed system instruction embedded in every prompt.
const Instruction = "You are a caring, supportive companion. Listen closely, " +
	"acknowledge how the person feels, and reply with short, warm, practical " +
	"guidance. Never give medical diagnoses."

// Role delimiters (ChatML style). EndOfTurn doubles as the default
// end-of-generation marker for the stop policy.
const (
	turnStart = "<|im_start|>"
	EndOfTurn = "<|im_end|>"
)

// Format scaffolds userText into a complete model input, terminated by an
// open assistant turn so the model begins its reply.
func Format(userText string) string {
	var b strings.Builder
	b.WriteString(turnStart)
	b.WriteString("system\n")
	b.WriteString(Instruction)
	b.WriteString(EndOfTurn)
	b.WriteString("\n")
	b.WriteString(turnStart)
	b.WriteString("user\n")
	b.WriteString(userText)
	b.WriteString(EndOfTurn)
	b.WriteString("\n")
	b.WriteString(turnStart)
	b.WriteString("assistant\n")
	return b.String()
}

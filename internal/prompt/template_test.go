package prompt

import (
	"strings"
	"testing"
)

func TestFormatExact(t *testing.T) {
	got := Format("I feel anxious")
	want := "<|im_start|>system\n" + Instruction + "<|im_end|>\n" +
		"<|im_start|>user\nI feel anxious<|im_end|>\n" +
		"<|im_start|>assistant\n"
	if got != want {
		t.Fatalf("format mismatch:\n got: %q\nwant: %q", got, want)
	}
}

func TestFormatDeterministic(t *testing.T) {
	if Format("hello") != Format("hello") {
		t.Fatalf("format is not deterministic")
	}
}

func TestFormatEmbedsInstructionBeforeUserText(t *testing.T) {
	got := Format("I feel anxious")
	i := strings.Index(got, Instruction)
	j := strings.Index(got, "I feel anxious")
	if i < 0 || j < 0 || i > j {
		t.Fatalf("instruction must precede user text: %q", got)
	}
	if !strings.HasSuffix(got, "assistant\n") {
		t.Fatalf("input must end with an open assistant turn: %q", got)
	}
}

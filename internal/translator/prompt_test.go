package translator

import (
	"strings"
	"testing"
)

func TestSystemPrompt(t *testing.T) {
	got := SystemPrompt("", "Japanese", "English")
	if !strings.Contains(got, "Translate only the Japanese text into English.") {
		t.Errorf("placeholders not expanded: %q", got)
	}
	if strings.Contains(got, "{source}") || strings.Contains(got, "{target}") {
		t.Errorf("placeholders left in prompt: %q", got)
	}
	if !strings.Contains(got, "[index]\n<translation>") {
		t.Errorf("reply format missing from prompt: %q", got)
	}
}

func TestSystemPrompt_CustomTemplate(t *testing.T) {
	got := SystemPrompt("From {source} to {target}, {target} only.", "Korean", "French")
	if got != "From Korean to French, French only." {
		t.Errorf("unexpected prompt %q", got)
	}
}

func TestSystemPrompt_NoPlaceholders(t *testing.T) {
	custom := "请严格遵循以下翻译规则"
	if got := SystemPrompt(custom, "Japanese", "Chinese"); got != custom {
		t.Errorf("expected template unchanged, got %q", got)
	}
}

func TestSystemPrompt_Defaults(t *testing.T) {
	got := SystemPrompt("{source}->{target}", "", " ")
	if got != "foreign-language->English" {
		t.Errorf("unexpected defaults %q", got)
	}
}

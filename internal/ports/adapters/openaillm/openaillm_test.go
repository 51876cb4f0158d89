package openaillm

import (
	"strings"
	"testing"
)

func TestDecodeMoments_PlainArray(t *testing.T) {
	content := `[{"start": 10, "end": 50, "reason": "funny", "score": 0.9}]`
	got, err := DecodeMoments(content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Start != 10 || got[0].End != 50 {
		t.Fatalf("unexpected moments: %+v", got)
	}
	if got[0].Score == nil || *got[0].Score != 0.9 {
		t.Fatalf("unexpected score: %v", got[0].Score)
	}
}

func TestDecodeMoments_ClipsWrapper(t *testing.T) {
	content := `{"clips": [{"start": 5, "end": 35, "reason": "hook", "title": "Wow"}]}`
	got, err := DecodeMoments(content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Wow" {
		t.Fatalf("unexpected moments: %+v", got)
	}
}

func TestDecodeMoments_SingleObject(t *testing.T) {
	content := `{"start": 1, "end": 20, "reason": "solo"}`
	got, err := DecodeMoments(content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Reason != "solo" {
		t.Fatalf("unexpected moments: %+v", got)
	}
}

func TestDecodeMoments_MarkdownFences(t *testing.T) {
	content := "```json\n[{\"start\": 0, \"end\": 30, \"reason\": \"fenced\"}]\n```"
	got, err := DecodeMoments(content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0].Reason != "fenced" {
		t.Fatalf("unexpected moments: %+v", got)
	}
}

func TestDecodeMoments_Garbage(t *testing.T) {
	for _, content := range []string{"", "no json here", "{broken"} {
		if _, err := DecodeMoments(content); err == nil {
			t.Fatalf("expected error for %q", content)
		}
	}
}

func TestRedactSecrets(t *testing.T) {
	msg := "status 401: Authorization: Bearer sk-abc123, api_key=sk-abc123"
	got := redactSecrets(msg, "sk-abc123")
	if strings.Contains(got, "sk-abc123") {
		t.Fatalf("secret leaked: %s", got)
	}
}

func TestBuildPrompt_MentionsDuration(t *testing.T) {
	p := buildPrompt([]byte(`[]`), 45)
	if !strings.Contains(p, "45") {
		t.Fatalf("prompt missing clip duration: %s", p)
	}
	if !strings.Contains(p, "\"clips\"") {
		t.Fatalf("prompt missing response shape hint")
	}
}

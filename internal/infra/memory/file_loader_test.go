package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"trivia-arena-service/internal/domain"
)

func TestFileCorpusLoader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.json")
	data, err := json.Marshal(sampleCorpus())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	loader := NewFileCorpusLoader(path)
	corpus, err := loader.LoadCorpus(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(corpus) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(corpus))
	}
	if corpus[0].Type != domain.MultipleChoice || corpus[0].CorrectAnswer != "4" {
		t.Fatalf("unexpected first question: %+v", corpus[0])
	}
}

func TestFileCorpusLoaderMissingFile(t *testing.T) {
	loader := NewFileCorpusLoader(filepath.Join(t.TempDir(), "absent.json"))
	if _, err := loader.LoadCorpus(context.Background()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

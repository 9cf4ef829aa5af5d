package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"trivia-arena-service/internal/domain"
)

// FileCorpusLoader reads the corpus from a JSON file holding an array of
// question records.
type FileCorpusLoader struct {
	path string
}

func NewFileCorpusLoader(path string) *FileCorpusLoader {
	return &FileCorpusLoader{path: path}
}

func (l *FileCorpusLoader) LoadCorpus(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	var corpus []domain.Question
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}
	return corpus, nil
}

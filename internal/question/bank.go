// Package question loads interview question sets from a YAML bank file.
package question

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agakshita/voxhire/internal/interview"
)

// Bank is a collection of named question sets.
type Bank struct {
	Sets map[string][]interview.Question `yaml:"sets"`
}

// LoadBank reads and validates a YAML question bank.
func LoadBank(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question bank %s: %w", path, err)
	}

	var bank Bank
	if err := yaml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("parsing question bank: %w", err)
	}

	if err := validate(&bank); err != nil {
		return nil, fmt.Errorf("invalid question bank: %w", err)
	}
	return &bank, nil
}

func validate(bank *Bank) error {
	if len(bank.Sets) == 0 {
		return fmt.Errorf("no question sets defined")
	}
	for name, questions := range bank.Sets {
		if len(questions) == 0 {
			return fmt.Errorf("set %q is empty", name)
		}
		for i, q := range questions {
			if strings.TrimSpace(q.Text) == "" {
				return fmt.Errorf("set %q question %d has no text", name, i+1)
			}
			if strings.TrimSpace(q.IdealAnswer) == "" {
				return fmt.Errorf("set %q question %d has no ideal answer", name, i+1)
			}
		}
	}
	return nil
}

// SetNames returns the names of all sets in the bank.
func (b *Bank) SetNames() []string {
	names := make([]string, 0, len(b.Sets))
	for name := range b.Sets {
		names = append(names, name)
	}
	return names
}

// Source returns a question source bound to one named set.
func (b *Bank) Source(set string) (*Source, error) {
	questions, ok := b.Sets[set]
	if !ok {
		return nil, fmt.Errorf("question set %q not found (have: %s)", set, strings.Join(b.SetNames(), ", "))
	}
	return &Source{questions: questions}, nil
}

// Source serves the ordered questions of a single set.
type Source struct {
	questions []interview.Question
}

// Questions returns a copy of the set's question list. Each session owns
// its copy, so later bank reloads cannot reach into live interviews.
func (s *Source) Questions(_ context.Context) ([]interview.Question, error) {
	out := make([]interview.Question, len(s.questions))
	copy(out, s.questions)
	return out, nil
}

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Bilal-Albezreh/sydekick-api/internal/constants"
	"github.com/Bilal-Albezreh/sydekick-api/internal/grades"
	"github.com/Bilal-Albezreh/sydekick-api/internal/models"
	"github.com/sashabaranov/go-openai"
)

var (
	ErrSyllabusNotConfigured = errors.New("syllabus parsing is not configured")
	ErrSyllabusEmpty         = errors.New("syllabus text is required")
	ErrSyllabusNoResults     = errors.New("no assessments could be extracted")
)

// SyllabusService extracts assessment candidates from pasted syllabus text.
type SyllabusService struct {
	client *openai.Client
}

// ParsedAssessment is one extracted assessment candidate. Candidates are
// suggestions only; nothing is persisted until the user confirms them
// through the regular create endpoint.
type ParsedAssessment struct {
	Name    string                `json:"name"`
	Type    models.AssessmentType `json:"type"`
	Weight  float64               `json:"weight"`
	DueDate *time.Time            `json:"due_date"`
}

func NewSyllabusService(apiKey string) *SyllabusService {
	return &SyllabusService{
		client: openai.NewClient(apiKey),
	}
}

// ParseSyllabus analyzes syllabus text and extracts graded items.
func (s *SyllabusService) ParseSyllabus(ctx context.Context, text string) ([]ParsedAssessment, error) {
	if s == nil || s.client == nil {
		return nil, ErrSyllabusNotConfigured
	}
	if strings.TrimSpace(text) == "" {
		return nil, ErrSyllabusEmpty
	}

	currentDate := time.Now().Format("2006-01-02")
	prompt := fmt.Sprintf(`You extract graded course work from a university syllabus.

Today's date: %s

Syllabus text:
%s

Return a JSON array of the graded items you find:
[
  {
    "name": "item name, kept short",
    "type": "one of ASSIGNMENT, EXAM, QUIZ, PROJECT, LAB, OTHER",
    "weight": 10,
    "due_date": "ISO8601 timestamp, or null when the syllabus gives no date"
  }
]

Rules:
- weight is the percent of the final grade, a number between 0 and 100
- split grouped items ("5 quizzes, 10%%") into individual entries with the
  weight divided evenly
- return [] when the text contains no graded items
- return only the JSON array, no prose`, currentDate, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.2,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("syllabus extraction failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, ErrSyllabusNoResults
	}

	content := resp.Choices[0].Message.Content

	var parsed []ParsedAssessment
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse extraction output: %w", err)
	}

	valid := make([]ParsedAssessment, 0, len(parsed))
	for _, item := range parsed {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		if !grades.ValidWeight(item.Weight) {
			continue
		}
		if item.Type == "" {
			item.Type = grades.Classify(item.Name)
		}
		valid = append(valid, item)
		if len(valid) == constants.MaxSyllabusAssessments {
			break
		}
	}

	if len(valid) == 0 {
		return nil, ErrSyllabusNoResults
	}
	return valid, nil
}

package quizgen

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	response string
	err      error
	prompt   string
	system   string
}

func (f *fakeClient) Complete(_ context.Context, system, prompt string) (string, error) {
	f.system = system
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

const goodResponse = `{
  "questions": [
    {
      "question": "What is the capital of France?",
      "options": ["Paris", "London", "Rome", "Berlin"],
      "answer": "Paris"
    },
    {
      "question": "Which ocean borders California?",
      "options": ["Atlantic", "Pacific", "Indian", "Arctic"],
      "answer": "Pacific"
    }
  ]
}`

func TestGenerateHappyPath(t *testing.T) {
	client := &fakeClient{response: goodResponse}
	gen := NewGenerator(client)

	questions, err := gen.Generate(context.Background(), "geography notes", 2)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "Paris", questions[0].Answer)
	assert.Equal(t, 1, questions[1].AnswerIndex())

	assert.Contains(t, client.prompt, "exactly 2 multiple-choice questions")
	assert.Contains(t, client.prompt, "geography notes")
	assert.Contains(t, client.system, "expert quiz generator")
}

func TestGenerateClampsCount(t *testing.T) {
	cases := []struct {
		in, want int
	}{
		{0, DefaultQuestions},
		{-3, MinQuestions},
		{1, 1},
		{20, 20},
		{50, MaxQuestions},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClampCount(tc.in), "count %d", tc.in)
	}

	client := &fakeClient{response: goodResponse}
	_, err := NewGenerator(client).Generate(context.Background(), "text", 99)
	require.NoError(t, err)
	assert.Contains(t, client.prompt, "exactly 20 multiple-choice questions")
}

func TestGenerateClientError(t *testing.T) {
	client := &fakeClient{err: errors.New("rate limited")}
	_, err := NewGenerator(client).Generate(context.Background(), "text", 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestGenerateMalformedResponse(t *testing.T) {
	cases := map[string]string{
		"not json":         "here are your questions!",
		"wrong envelope":   `{"items": []}`,
		"empty questions":  `{"questions": []}`,
		"questions object": `{"questions": {"q": 1}}`,
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			client := &fakeClient{response: response}
			_, err := NewGenerator(client).Generate(context.Background(), "text", 5)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestGenerateInvalidQuestionShape(t *testing.T) {
	cases := map[string]string{
		"missing question": `{"questions":[{"options":["a","b","c","d"],"answer":"a"}]}`,
		"missing answer":   `{"questions":[{"question":"Q?","options":["a","b","c","d"]}]}`,
		"three options":    `{"questions":[{"question":"Q?","options":["a","b","c"],"answer":"a"}]}`,
		"five options":     `{"questions":[{"question":"Q?","options":["a","b","c","d","e"],"answer":"a"}]}`,
	}
	for name, response := range cases {
		t.Run(name, func(t *testing.T) {
			client := &fakeClient{response: response}
			_, err := NewGenerator(client).Generate(context.Background(), "text", 5)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGenerationFailed)
			assert.ErrorIs(t, err, ErrInvalidQuestionShape)
		})
	}
}

func TestGenerateTrimsQuestionText(t *testing.T) {
	response := `{"questions":[{"question":"  Spaced?  ","options":["a","b","c","d"],"answer":"a"}]}`
	questions, err := NewGenerator(&fakeClient{response: response}).Generate(context.Background(), "text", 1)
	require.NoError(t, err)
	assert.Equal(t, "Spaced?", questions[0].Question)
	assert.False(t, strings.HasPrefix(questions[0].Question, " "))
}

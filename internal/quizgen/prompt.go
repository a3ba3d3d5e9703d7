package quizgen

import "fmt"

const systemPrompt = "You are an expert quiz generator. Create educational multiple-choice questions based on the provided content. Always respond with valid JSON in the exact format requested."

const promptTemplate = `Based on the following content, generate exactly %d multiple-choice questions. Each question must have exactly 4 options, and you must identify the correct answer.

Requirements:
- Questions should test understanding of the key concepts in the content
- Make questions challenging but fair
- Distribute questions across the different topics covered
- Each option should be plausible; avoid obviously wrong answers

Respond with JSON in this exact format:
{
  "questions": [
    {
      "question": "The question text",
      "options": ["Option 1", "Option 2", "Option 3", "Option 4"],
      "answer": "The exact text of the correct option"
    }
  ]
}

Content:
%s`

func buildPrompt(text string, count int) string {
	return fmt.Sprintf(promptTemplate, count, text)
}

// Package answer turns a ranked chunk list into the prompt handed to the
// generation provider, and interprets the model's reply.
package answer

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/Sanmukapriya/NotebookLM-Clone/internal/api"
)

// Fallback is the canonical "nothing found" reply, returned whenever the
// ranker produces no confident chunks or the model declines to answer.
const Fallback = "I couldn't find relevant information in the document to answer your question. Please try rephrasing or asking about different topics covered in the document."

// chunkPreviewLength caps how much of each chunk is embedded in the prompt.
const chunkPreviewLength = 800

const promptAnswerFromExcerpts = `You are an expert document analyst. Your task is to provide detailed, accurate answers based solely on the document excerpts provided below.

DOCUMENT EXCERPTS:
{{.Context}}

USER QUESTION: {{.Question}}

CRITICAL INSTRUCTIONS:
1. Provide a COMPREHENSIVE answer using ONLY information from the excerpts above
2. Be detailed and thorough - aim for 3-5 sentences minimum when information is available
3. Synthesize information from multiple sources when relevant
4. If specific page numbers are mentioned in brackets, you can reference them (e.g., "According to Page 3...")
5. If the provided excerpts do not contain information to answer the question, respond ONLY with "{{.Fallback}}" Do not attempt to guess or invent an answer.
6. Structure your answer clearly with proper paragraphs if needed
7. Do NOT invent, assume, or add any information not present in the excerpts
8. If the question asks for a list or multiple items, provide complete details for each

DETAILED ANSWER:`

// noInfoPhrases are replies the model gives when the excerpts lack an
// answer; any of them collapses the response to the Fallback.
var noInfoPhrases = []string{
	"i couldn't find relevant information",
	"i don't have information",
	"the document does not contain",
	"no information available",
	"i'm unable to answer",
	"the document doesn't mention",
	"there is no information",
}

var answerTemplate = template.Must(template.New("promptAnswerFromExcerpts").Parse(promptAnswerFromExcerpts))

// BuildPrompt renders the document-analyst prompt embedding each ranked
// chunk's content (truncated to a preview) tagged with its source index
// and page number.
func BuildPrompt(question string, ranked []api.ScoredChunk) (string, error) {
	sources := make([]string, 0, len(ranked))
	for i, sc := range ranked {
		preview := sc.Content
		if len(preview) > chunkPreviewLength {
			cut := chunkPreviewLength
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = preview[:cut] + "..."
		}
		sources = append(sources, fmt.Sprintf("[Source %d | Page %d]\n%s", i+1, sc.PageNumber, preview))
	}

	payload := struct {
		Context  string
		Question string
		Fallback string
	}{
		Context:  strings.Join(sources, "\n\n---\n\n"),
		Question: question,
		Fallback: Fallback,
	}

	var buf bytes.Buffer
	if err := answerTemplate.Execute(&buf, payload); err != nil {
		return "", fmt.Errorf("failed to render answer prompt: %w", err)
	}
	return buf.String(), nil
}

// ContainsNoInfo reports whether the model's response indicates the
// excerpts held no answer.
func ContainsNoInfo(response string) bool {
	lower := strings.ToLower(response)
	for _, phrase := range noInfoPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

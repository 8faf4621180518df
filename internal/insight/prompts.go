package insight

// Retrieval queries used to pull the most feature-relevant segments of a
// paper back out of the vector index.
const (
	summaryQuery     = "main contributions, methodology, experiments, and findings of the paper"
	definitionsQuery = "key terms, technical concepts, and their definitions"
	questionsQuery   = "important concepts, methods, and results a student should be tested on"
)

const summaryPrompt = `You are an academic reading assistant.
Write a concise summary (at most 250 words) of the paper using ONLY the
provided context segments. Cover the problem, the approach, and the main
results. Do not use outside knowledge. Return plain prose, no headings.`

const definitionsPrompt = `You are an academic reading assistant.
From the provided context segments, extract the key terms a reader must know
and define each one concisely using only the paper's own wording and claims.

Output STRICT JSON with this schema and nothing else:
{
  "definitions": [
    {"term": "string", "definition": "string"}
  ]
}

Rules:
- Emit between 3 and 10 definitions.
- Definitions must be grounded in the context, not general knowledge.
- If the context supports no definitions, return {"definitions":[]}.`

const questionsPrompt = `You are an academic reading assistant.
From the provided context segments, write practice questions that test
understanding of the paper.

Output STRICT JSON with this schema and nothing else:
{
  "questions": [
    {
      "question": "string",
      "type": "multiple_choice|short_answer",
      "options": ["string"],
      "correct_answer": "string"
    }
  ]
}

Rules:
- Emit between 3 and 6 questions, mixing both types.
- For multiple_choice, provide 3 or 4 options and make correct_answer one of them.
- For short_answer, options must be an empty list.
- Every question must be answerable from the context alone.`

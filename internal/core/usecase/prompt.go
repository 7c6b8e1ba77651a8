package usecase

import "fmt"

// buildQAPrompt instructs the model to answer strictly from the assembled
// context and to cite sources with the [Source X] markers that citation
// extraction scans for.
func buildQAPrompt(question, context string) string {
	return fmt.Sprintf(`You are a helpful assistant that answers questions based on the provided context.

INSTRUCTIONS:
1. Answer the question using ONLY the information provided in the CONTEXT section below.
2. If the answer cannot be found in the context, respond with "I don't have enough information to answer that question based on the available documents."
3. When referencing information, cite your sources using the [Source X] format (e.g., "According to [Source 1]...").
4. Be concise but comprehensive in your response.
5. Do not make up or infer information that is not explicitly stated in the context.

CONTEXT:
%s

QUESTION:
%s

ANSWER:`, context, question)
}

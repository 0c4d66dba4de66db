package models

const ContextSeparator = "\n---\n"

var (
	SystemPrompt = `You are a helpful assistant answering questions about a video. Use only the provided transcript excerpts to answer. If the answer is not in the excerpts, say you do not know.`

	AnswerPromptTemplate = `Context:
%s
Question: %s`

	CondensePromptTemplate = `Given the following conversation and a follow up question, rephrase the follow up question to be a standalone question.

Chat history:
%s
Follow up question: %s
Standalone question:`
)

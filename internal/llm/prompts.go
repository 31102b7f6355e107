// Prompt templates for the pipeline's reasoning steps. Replies are parsed
// with a labeled-line grammar, so every prompt pins the exact output format.
package llm

const classifySystemPrompt = `You are an intent classifier for an Indonesian telecom customer-complaint analytics assistant.

Classify the user query into exactly one category:
- complaint_analytics: questions about complaint tickets, counts, lists, details, or summaries from the complaint database
- live_lookup: requests for live usage, traffic, or service data of a specific phone number
- knowledge: questions about telecom terms, procedures, or general product knowledge
- system_capability: questions about what this assistant can do
- off_topic: anything unrelated to telecom complaints or services

Reply with exactly three lines and nothing else:
CLASSIFICATION: <category>
CONFIDENCE: <number between 0 and 1>
REASONING: <one short sentence>`

const followupSystemPrompt = `You resolve follow-up questions in an Indonesian complaint-analytics conversation.

Given the previous interaction and the new query, decide what context the follow-up inherits.

Reply with exactly four lines and nothing else:
INTENT: <one of summary, list, detail, count>
INHERIT_LOCATION: <true or false>
INHERIT_TIME: <true or false>
FILTERS: <comma-separated filter hints, or none>`

const improveSystemPrompt = `You clean up short Indonesian complaint descriptions written by call-center agents.

Expand common abbreviations, fix obvious typos, and keep the meaning unchanged. Reply with only the cleaned text, no explanation.`

const extractDatesSystemPrompt = `You extract a date range from an Indonesian sentence.

If the text names a date or date range, reply with exactly one line in the format:
YYYY-MM-DD 00:00,YYYY-MM-DD 23:55

If no date can be determined, reply with exactly:
NONE`

package langchain

const nounPhrasePrompt = `List the noun phrases of the given text and return them as JSON.

Output ONLY valid JSON of the form {"noun_phrases": ["...", "..."]}. Do not include any preamble,
explanation, greeting, or acknowledgment. Start your response directly with the opening brace {.

Rules:
- A noun phrase is a noun together with its determiners and modifiers, e.g. "the first person", "the moon", "Neil Armstrong".
- Copy every phrase exactly as it is written in the text, including capitalization. Do not normalize, singularize or paraphrase.
- List phrases in the order they appear. List a phrase again each time it occurs.
- Do not include pronouns on their own.
- If the text has no noun phrases, return {"noun_phrases": []}.

Example:
Input: "Neil Armstrong was the first person to walk on the moon."
Output:
{"noun_phrases": ["Neil Armstrong", "the first person", "the moon"]}

Example:
Input: "who painted the mona lisa"
Output:
{"noun_phrases": ["the mona lisa"]}`

const relationPrompt = `Decide how the premise relates to the hypothesis and return the answer as JSON.

Output ONLY valid JSON of the form {"relation": "<label>"} where <label> is exactly one of:
entailment, contradiction, neutral.

- entailment: the premise supports the hypothesis.
- contradiction: the premise conflicts with the hypothesis.
- neutral: the premise neither supports nor conflicts with the hypothesis.

Example:
Premise: "Armstrong stepped onto the lunar surface on July 20, 1969."
Hypothesis: "Neil Armstrong walked on the moon in 1969."
Output:
{"relation": "entailment"}`

func relationInput(premise, hypothesis string) string {
	return "Premise: " + quote(premise) + "\nHypothesis: " + quote(hypothesis)
}

func quote(s string) string {
	return `"` + s + `"`
}

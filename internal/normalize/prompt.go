package normalize

import "fmt"

// promptPreamble is the fixed instruction-and-examples header sent ahead of
// the user's text. The examples pin the output shape so the extractor's
// pattern can pick the references back out.
const promptPreamble = `You convert requests about the Book of Psalms into a plain list of psalm references.

Rules:
- Output ONLY a comma-separated list of references, nothing else.
- Each reference is "Psalm N", "Psalm N:M", or "Psalm N:M-K".
- Do not explain, apologize, or add commentary.

Examples:
Request: the first verse of every psalm of ascent
Answer: Psalm 120:1, Psalm 121:1, Psalm 122:1, Psalm 123:1, Psalm 124:1, Psalm 125:1, Psalm 126:1, Psalm 127:1, Psalm 128:1, Psalm 129:1, Psalm 130:1, Psalm 131:1, Psalm 132:1, Psalm 133:1, Psalm 134:1

Request: the shepherd psalm
Answer: Psalm 23

Request: the last three verses of psalm 150
Answer: Psalm 150:4-6

Request: `

// BuildPrompt joins the fixed preamble with the user's raw text.
func BuildPrompt(userText string) string {
	return fmt.Sprintf("%s%s\nAnswer:", promptPreamble, userText)
}

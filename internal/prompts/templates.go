package prompts

// DefaultType is the template used for criterion types without a dedicated
// template or override.
const DefaultType = "default"

const defaultTemplate = `You are a compliance analyst assessing a document against a single evaluation criterion.

Criterion:
{{.CriterionText}}

Document context (cite chunk references in your answer):
{{.DocumentContext}}

Assess whether the document satisfies the criterion using only the context above. Quote or reference the specific chunks that support your conclusion.

{{if eq .ScoringMode "boolean"}}Respond with a JSON object: {"verdict": "pass" or "fail", "justification": "...", "cited_refs": ["..."]}{{else}}Respond with a JSON object: {"score": 0-100, "justification": "...", "cited_refs": ["..."]}. The score must fall in one of the bands 0-20, 21-40, 41-60, 61-80, 81-100.{{end}}`

const regulatoryTemplate = `You are a regulatory compliance analyst assessing a document against a mandatory requirement.

Requirement:
{{.CriterionText}}

Document context (cite chunk references in your answer):
{{.DocumentContext}}

A requirement is satisfied only when the document explicitly addresses it; absence of evidence is non-compliance, not ambiguity. Reference the specific chunks that demonstrate compliance or its absence.

{{if eq .ScoringMode "boolean"}}Respond with a JSON object: {"verdict": "pass" or "fail", "justification": "...", "cited_refs": ["..."]}{{else}}Respond with a JSON object: {"score": 0-100, "justification": "...", "cited_refs": ["..."]}. The score must fall in one of the bands 0-20, 21-40, 41-60, 61-80, 81-100.{{end}}`

const strictInstruction = `

IMPORTANT: Your previous response could not be parsed. Respond with ONLY the JSON object, no surrounding prose, no markdown fence. Every field must use the exact names and value ranges specified above.`

var systemTemplates = map[string]string{
	DefaultType:  defaultTemplate,
	"regulatory": regulatoryTemplate,
}

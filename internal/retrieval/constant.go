package retrieval

// Log prefixes
const (
	LogPrefixReformulate = "internal.retrieval.usecase.Reformulate"
	LogPrefixRetrieve    = "internal.retrieval.usecase.Retrieve"
)

const PromptReformulate = `<task>
Rewrite the customer's latest message as a search query for the EcoDrive knowledge base (electric scooters, skates and patinetes).
</task>

<rules>
- Use the conversation so far to resolve references such as "that one" or "the cheaper model".
- Keep only what matters for the search: products, models, features, prices, policies.
- Make it short, objective and self-contained.
- Always write the query in Spanish, whatever language the customer used.
- Answer with the query only, without quotes or explanations.
</rules>`

const ReformulateMaxTokens = 120

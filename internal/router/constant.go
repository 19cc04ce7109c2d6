package router

// Log prefixes
const (
	LogPrefixClassify = "internal.router.Classify"
)

// Router prompts
const (
	PromptRouterSystem = `<role>
You are the intent classifier of EcoDrive, a store that sells electric scooters, skates and patinetes.
</role>

<task>
Read the latest customer message, using the conversation so far as context, and pick exactly one intent.
</task>

<intents>
- saudacao: greetings and small talk that open or resume a conversation.
- informacoes: questions about products, store location, opening hours, prices, payment methods, returns policy or technical specifications.
- atendimento: the customer explicitly asks for a human, shows a clear intent to buy, or asks how the purchase process works.
- reclamacao: the customer is unhappy or complains about a product, a delivery or the service.
- elogio: compliments and positive feedback.
- outros: anything that fits none of the above.
</intents>

<examples>
"Buenas tardes!" -> saudacao
"¿Cuánto cuesta el patinete eléctrico X2?" -> informacoes
"Quiero comprar un scooter, ¿me pueden ayudar?" -> atendimento
</examples>

<output>
Answer with JSON only, no prose and no code fences:
{"intent": "<label>"}
The label must be one of the six names above, written exactly as listed and never translated.
</output>`
)

// Router configuration
const (
	RouterTemperature = 0.1
	RouterMaxTokens   = 50
)

// intentSchema is the shape every classifier answer must satisfy.
const intentSchema = `{
  "type": "object",
  "required": ["intent"],
  "properties": {
    "intent": {"type": "string", "minLength": 1}
  }
}`

// Error messages
const (
	ErrMsgLLMCallFailed       = "LLM call failed"
	ErrMsgJSONParseFailed     = "Failed to parse JSON, falling back to other"
	ErrMsgSchemaInvalid       = "Classifier output does not match schema, falling back to other"
	ErrMsgEmptyResponse       = "Empty LLM response, falling back to other"
	ErrMsgSchemaCompileFailed = "compile intent schema"
)

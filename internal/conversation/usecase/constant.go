package usecase

// Log prefixes
const (
	LogPrefixRoute   = "internal.conversation.usecase.Route"
	LogPrefixDelete  = "internal.conversation.usecase.Delete"
	LogPrefixHistory = "internal.conversation.usecase.History"
)

// Fixed replies used when a branch cannot produce one.
const (
	FallbackGreeting    = "Hola! 😊 Soy Rodrigo de EcoDrive. ¿Cómo puedo ayudarte?"
	FallbackInformation = "Disculpa, tuve un problema al procesar tu consulta. ¿Podrías intentarlo nuevamente? 😊"
	FallbackHandOff     = "Déjame conectarte con un asesor humano. Puedes comunicarte al +56 9 5008 0442 😊"
	FallbackPraise      = "¡Muchas gracias! 😊 Estamos aquí para ayudarte siempre."
	FallbackOther       = "Disculpa, no puedo ayudarte con eso. ¿Te gustaría que te conecte con un asesor humano? 😊"
)

// Pipeline step names, used in logs and fatal error messages.
const (
	stepGenerateID = "generate_id"
	stepLock       = "lock"
	stepLoad       = "load_history"
	stepSave       = "save_history"
	stepDelete     = "delete_history"
)

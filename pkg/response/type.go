package response

// Resp is the envelope of every JSON body the API writes.
// Data and Errors are dropped from the output when nil.
type Resp struct {
	ErrorCode int    `json:"error_code"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Errors    any    `json:"errors,omitempty"`
}

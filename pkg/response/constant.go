package response

const (
	MessageSuccess = "Success"

	ValidationErrorCode     = 1
	InternalServerErrorCode = 500
	DefaultErrorMessage     = "Internal server error"
)

package http

const (
	CodeUnknown              = "UNKNOWN"
	CodeMethodNotAllowed     = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON          = "INVALID_JSON"
	CodeBadRequest           = "BAD_REQUEST"
	CodeInvalidPath          = "INVALID_PATH"
	CodeUserIDRequired       = "USER_ID_REQUIRED"
	CodeInvalidIDFormat      = "INVALID_ID_FORMAT"
	CodeMissingAuthorization = "MISSING_AUTHORIZATION"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeUploadTooLarge       = "UPLOAD_TOO_LARGE"
)

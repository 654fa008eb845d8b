package httputil

// Machine-readable error codes returned alongside human-readable messages.
// The frontend switches on these instead of parsing message text.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInternalError      = "INTERNAL_ERROR"

	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"
	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"

	CodeUsernameRequired = "USERNAME_REQUIRED"
	CodeUsernameTaken    = "USERNAME_TAKEN"
	CodePasswordRequired = "PASSWORD_REQUIRED"
	CodePasswordTooShort = "PASSWORD_TOO_SHORT"

	CodeOTPRequired   = "OTP_REQUIRED"
	CodeOTPNotFound   = "OTP_NOT_FOUND"
	CodeOTPExpired    = "OTP_EXPIRED"
	CodeOTPInvalid    = "OTP_INVALID"
	CodeOTPSendFailed = "OTP_SEND_FAILED"

	CodeInsufficientInterests = "INSUFFICIENT_INTERESTS"
	CodeUserNotFound          = "USER_NOT_FOUND"

	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeMissingAuth        = "MISSING_AUTH"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeInvalidTokenUserID = "INVALID_TOKEN_USER_ID"
	CodeForbidden          = "FORBIDDEN"

	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeCooldownActive  = "COOLDOWN_ACTIVE"
)

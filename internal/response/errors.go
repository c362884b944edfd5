package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrWrongSession  ErrCode = "TOKEN_SESSION_MISMATCH"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Exam & session ────────────────────────────────────────────────
	ErrExamNotLoaded      ErrCode = "EXAM_NOT_LOADED"
	ErrSessionNotFound    ErrCode = "SESSION_NOT_FOUND"
	ErrQuestionOutOfRange ErrCode = "QUESTION_OUT_OF_RANGE"
	ErrSessionCompleted   ErrCode = "SESSION_ALREADY_COMPLETED"
	ErrSessionMismatch    ErrCode = "SESSION_EXAM_MISMATCH"
	ErrInvalidSelection   ErrCode = "INVALID_ANSWER_SELECTION"
	ErrPersistence        ErrCode = "PERSISTENCE_FAILURE"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired ErrCode = "FILE_REQUIRED"
	ErrFileTooLarge ErrCode = "FILE_TOO_LARGE"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "A session token is required."
	case ErrTokenInvalid:
		return "The session token is invalid or expired."
	case ErrWrongSession:
		return "The session token does not belong to this session."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid identifier format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."

	// ─── Exam & session ────────────────────────────────────────────────
	case ErrExamNotLoaded:
		return "No exam with this id is loaded. Upload the exam file first."
	case ErrSessionNotFound:
		return "No session exists with this id."
	case ErrQuestionOutOfRange:
		return "The question is not part of this session."
	case ErrSessionCompleted:
		return "The session is already completed and can no longer be changed."
	case ErrSessionMismatch:
		return "The stored session belongs to a different exam."
	case ErrInvalidSelection:
		return "The answer selection is invalid for this question type."
	case ErrPersistence:
		return "Saving or loading the session failed."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "A file upload is required."
	case ErrFileTooLarge:
		return "The file exceeds the size limit."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}

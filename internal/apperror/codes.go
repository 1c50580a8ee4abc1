package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Engine-specific error codes
const (
	// Price feed errors
	CodeFeedUnavailable Code = "FEED_UNAVAILABLE"
	CodeInvalidSnapshot Code = "INVALID_SNAPSHOT"
	CodeStaleSnapshot   Code = "STALE_SNAPSHOT"
	CodeUnknownToken    Code = "UNKNOWN_TOKEN"
	CodeUnknownVenue    Code = "UNKNOWN_VENUE"

	// Opportunity lifecycle errors
	CodeUnknownOpportunity  Code = "UNKNOWN_OPPORTUNITY"
	CodeOpportunityNotReady Code = "OPPORTUNITY_NOT_READY"
	CodeExecutionInFlight   Code = "EXECUTION_IN_FLIGHT"
	CodeInvalidInvestment   Code = "INVALID_INVESTMENT"

	// Execution errors
	CodeExecutionRateLimited Code = "EXECUTION_RATE_LIMITED"
	CodeEngineStopped        Code = "ENGINE_STOPPED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)

package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal error",
	CodeUnknownError:  "An unknown error occurred",

	// Price feed errors
	CodeFeedUnavailable: "Price feed unavailable",
	CodeInvalidSnapshot: "Price snapshot failed validation",
	CodeStaleSnapshot:   "Price snapshot is stale",
	CodeUnknownToken:    "Token not present in snapshot",
	CodeUnknownVenue:    "Venue not present in snapshot",

	// Opportunity lifecycle errors
	CodeUnknownOpportunity:  "Opportunity not found in table",
	CodeOpportunityNotReady: "Opportunity is not in Ready state",
	CodeExecutionInFlight:   "Opportunity already has an execution in flight",
	CodeInvalidInvestment:   "Invalid investment amount",

	// Execution errors
	CodeExecutionRateLimited: "Execution pace limit reached",
	CodeEngineStopped:        "Engine is not running",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}

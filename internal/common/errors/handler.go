package errors

// ErrorHandler reports failed operations with standardized fields.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Report normalizes err, logs it and returns the exit code the process should use.
func (h *ErrorHandler) Report(operation string, err error) int {
	if err == nil {
		return ExitOK
	}
	stdErr := Normalize(err)

	fields := map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		fields[k] = v
	}
	h.logger.Error("operation failed", fields)

	return ExitCode(stdErr)
}

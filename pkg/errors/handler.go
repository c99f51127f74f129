package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorResponse is the JSON body of every error answer. Details holds the
// violation list of a validation failure, the uri of a missing resource or
// the index of a failed search.
type ErrorResponse struct {
	Status    int       `json:"status"`
	Type      ErrorType `json:"type"`
	Message   string    `json:"message"`
	Details   any       `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"requestId,omitempty"`
}

// ErrorHandler turns service errors into HTTP answers.
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
	now    func() time.Time
}

// NewErrorHandler creates an ErrorHandler. With debug set, causes of server
// errors are included in the body.
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ErrorHandler{logger: logger, debug: debug, now: time.Now}
}

// Handle writes the answer for err and logs it: 5xx as errors, 4xx as
// warnings. A nil err writes nothing.
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	response, cause := h.response(err)
	response.Timestamp = h.now().UTC()
	response.RequestID = chimiddleware.GetReqID(r.Context())

	h.log(r, response, cause)

	w.Header().Set("Content-Type", "application/json")
	if response.RequestID != "" {
		w.Header().Set("X-Request-ID", response.RequestID)
	}
	w.WriteHeader(response.Status)
	if encErr := json.NewEncoder(w).Encode(response); encErr != nil {
		h.logger.Error("Failed to encode error response", zap.Error(encErr))
	}
}

func (h *ErrorHandler) response(err error) (ErrorResponse, error) {
	var violations *ValidationErrors
	if errors.As(err, &violations) {
		return ErrorResponse{
			Status:  http.StatusBadRequest,
			Type:    ErrorTypeValidation,
			Message: "Object validation failed",
			Details: violations.Violations,
		}, nil
	}

	appErr := GetAppError(err)
	if appErr == nil {
		response := ErrorResponse{
			Status:  http.StatusInternalServerError,
			Type:    ErrorTypeInternal,
			Message: "An internal error occurred",
		}
		if h.debug {
			response.Details = map[string]string{"cause": err.Error()}
		}
		return response, err
	}

	response := ErrorResponse{
		Status:  appErr.HTTPStatus,
		Type:    appErr.Type,
		Message: appErr.Message,
	}
	if response.Status == 0 {
		response.Status = http.StatusInternalServerError
	}

	switch appErr.Type {
	case ErrorTypeNotFound:
		response.Details = map[string]any{"uri": appErr.Details["uri"]}
	case ErrorTypeSearch:
		response.Details = map[string]any{"index": appErr.Details["index"]}
	case ErrorTypeConflict:
		response.Details = appErr.Details
	default:
		if len(appErr.Details) > 0 {
			response.Details = appErr.Details
		}
	}

	if h.debug && response.Status >= http.StatusInternalServerError && appErr.Cause != nil {
		details := map[string]any{"cause": appErr.Cause.Error()}
		if existing, ok := response.Details.(map[string]any); ok {
			for k, v := range existing {
				details[k] = v
			}
		}
		response.Details = details
	}
	return response, appErr.Cause
}

func (h *ErrorHandler) log(r *http.Request, response ErrorResponse, cause error) {
	fields := []zap.Field{
		zap.String("error_type", string(response.Type)),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", response.Status),
		zap.String("request_id", response.RequestID),
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	if response.Type == ErrorTypeValidation {
		fields = append(fields, zap.Any("violations", response.Details))
	}

	if response.Status >= http.StatusInternalServerError {
		h.logger.Error(response.Message, fields...)
		return
	}
	h.logger.Warn(response.Message, fields...)
}

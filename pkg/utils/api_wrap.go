package utils

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	return c.GetString("trace_id")
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusOK, data, message)
}

func RespondCreated(c *gin.Context, data interface{}, message string) {
	RespondWithStatus(c, http.StatusCreated, data, message)
}

func RespondWithStatus(c *gin.Context, code int, data interface{}, message string) {
	c.JSON(code, APIResponse{
		Status:  "success",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

// HandleServiceError maps service errors to the response envelope.
// Unexpected errors are logged through the request logger when one is set.
func HandleServiceError(c *gin.Context, err error) {
	var (
		validationErr  *ValidationError
		notFoundErr    *NotFoundError
		persistenceErr *PersistenceError
	)

	switch {
	case errors.As(err, &validationErr):
		RespondError(c, http.StatusBadRequest, validationErr.Error())
	case errors.As(err, &notFoundErr):
		RespondError(c, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, ErrNotFound):
		RespondError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, ErrInvalidPage):
		RespondError(c, http.StatusBadRequest, "Page must be greater than 0")
	case errors.Is(err, ErrInvalidPageSize):
		RespondError(c, http.StatusBadRequest, "Page size must be between 1 and 100")
	case errors.Is(err, ErrUnauthorized):
		RespondError(c, http.StatusUnauthorized, "Authentication required")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrForbidden):
		RespondError(c, http.StatusForbidden, "Forbidden: insufficient permissions")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, ErrStorageUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "Storage is not configured")
	case errors.As(err, &persistenceErr):
		// only the operation name is exposed; the driver error stays in the log
		requestLogger(c).WithError(err).Error("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error: "+persistenceErr.Op+" failed")
	case errors.Is(err, ErrDatabaseError):
		requestLogger(c).WithError(err).Error("database error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		requestLogger(c).WithError(err).Error("unhandled service error")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// ParsePagination reads page/pageSize query params with the given default size.
func ParsePagination(c *gin.Context, defaultSize int) (int, int, error) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, ErrInvalidPage
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultSize)))
	if err != nil || pageSize < 1 || pageSize > 100 {
		return 0, 0, ErrInvalidPageSize
	}
	return page, pageSize, nil
}

func requestLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get("logger"); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.WithField("trace_id", traceID(c))
}

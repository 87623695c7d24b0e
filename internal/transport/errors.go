package transport

import (
	"errors"
	"net/http"

	"honey-shop/internal/middleware"
	"honey-shop/internal/repository"
	"honey-shop/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondServiceError maps a service or repository error to an HTTP response
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var (
		fieldErr      *service.FieldError
		stockErr      *service.InsufficientStockError
		transitionErr *service.TransitionError
	)

	switch {
	case errors.As(err, &fieldErr):
		middleware.RespondWithValidationErrors(w, []middleware.ValidationError{
			{Field: fieldErr.Field, Message: fieldErr.Message},
		})
	case errors.As(err, &stockErr):
		middleware.RespondWithErrorDetails(w, http.StatusConflict, "insufficient stock", map[string]interface{}{
			"productId":   stockErr.ProductID,
			"productName": stockErr.ProductName,
			"requested":   stockErr.Requested,
			"available":   stockErr.Available,
		})
	case errors.As(err, &transitionErr):
		middleware.RespondWithErrorDetails(w, http.StatusConflict, "invalid status transition", map[string]interface{}{
			"from": transitionErr.From,
			"to":   transitionErr.To,
		})
	case errors.Is(err, repository.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrInvalidToken):
		middleware.RespondWithError(w, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, service.ErrRegistrationClosed):
		middleware.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "user with this email already exists")
	default:
		logger.Error("Request failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeRequest decodes and validates a JSON body, writing a 400 on failure
func decodeRequest(w http.ResponseWriter, r *http.Request, logger *zap.Logger, v interface{}) bool {
	if err := middleware.DecodeAndValidate(r, v); err != nil {
		logger.Debug("Request validation failed", zap.Error(err), zap.String("path", r.URL.Path))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return false
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// parseID reads a uuid path value, writing a 400 when it is malformed
func parseID(w http.ResponseWriter, raw string, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(raw)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

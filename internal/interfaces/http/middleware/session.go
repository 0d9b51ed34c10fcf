package middleware

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// Headers identifying the shopper. The session id keys the cart; the
// customer id is set by the upstream identity layer once logged in.
const (
	SessionIDHeader  = "X-Session-ID"
	CustomerIDHeader = "X-Customer-ID"
)

// Gin context keys
const (
	SessionIDKey  = "session_id"
	CustomerIDKey = "customer_id"
)

// MaxSessionIDLength bounds client supplied session ids
const MaxSessionIDLength = 128

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_\-.:]+$`)

// Session reads the shopper headers into the gin and logger contexts.
// Missing headers are left for RequireSession/RequireCustomer to reject;
// malformed ones are rejected here.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if sessionID := c.GetHeader(SessionIDHeader); sessionID != "" {
			if !isValidSessionID(sessionID) {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeMissingSession, "Invalid session id")
				return
			}
			c.Set(SessionIDKey, sessionID)
			ctx = logger.WithSessionID(ctx, sessionID)
		}

		if raw := c.GetHeader(CustomerIDHeader); raw != "" {
			customerID, err := uuid.Parse(raw)
			if err != nil || customerID == uuid.Nil {
				abortWithError(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "Invalid customer id")
				return
			}
			c.Set(CustomerIDKey, customerID)
			ctx = logger.WithCustomerID(ctx, customerID.String())
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireSession rejects requests without a session id
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetSessionID(c) == "" {
			abortWithError(c, http.StatusBadRequest, dto.ErrCodeMissingSession, "Header "+SessionIDHeader+" is required")
			return
		}
		c.Next()
	}
}

// RequireCustomer rejects requests without an identified customer
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetCustomerID(c); !ok {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeMissingCustomer, "Header "+CustomerIDHeader+" is required")
			return
		}
		c.Next()
	}
}

// GetSessionID returns the session id set by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetCustomerID returns the customer id set by Session
func GetCustomerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(CustomerIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

func isValidSessionID(id string) bool {
	return len(id) <= MaxSessionIDLength && sessionIDPattern.MatchString(id)
}

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

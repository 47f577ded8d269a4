package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/uzhroute/uzhroute/pkg/common"
)

// ClientIDHeader carries the anonymous client identity for personalised
// lists. There are no accounts; the browser generates and keeps this UUID.
const ClientIDHeader = "X-Client-ID"

const clientIDKey = "client_id"

// RequireClientID rejects requests without a valid client UUID header.
func RequireClientID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(ClientIDHeader)
		if raw == "" {
			common.ErrorResponse(c, http.StatusBadRequest, "X-Client-ID header is required")
			c.Abort()
			return
		}

		clientID, err := uuid.Parse(raw)
		if err != nil {
			common.ErrorResponse(c, http.StatusBadRequest, "X-Client-ID must be a valid UUID")
			c.Abort()
			return
		}

		c.Set(clientIDKey, clientID)
		c.Next()
	}
}

// GetClientID returns the client UUID set by RequireClientID.
func GetClientID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get(clientIDKey)
	if !exists {
		return uuid.Nil, false
	}
	clientID, ok := value.(uuid.UUID)
	return clientID, ok
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/ekoelbar/barclient/pkg/errors"
)

const StaffPinHeader = "X-Staff-Pin"

// StaffAuth admits requests whose X-Staff-Pin matches the configured bcrypt
// hash. With no hash configured staff routes are closed.
func StaffAuth(pinHash string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pinHash == "" {
			logger.Warn("Staff route requested but STAFF_PIN_HASH is not set", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff access disabled"})
			return
		}

		if err := checkStaffPin(pinHash, c.GetHeader(StaffPinHeader)); err != nil {
			logger.Warn("Staff request rejected",
				zap.String("request_id", GetRequestID(c)),
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
			c.Error(err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Next()
	}
}

func checkStaffPin(pinHash, pin string) *errors.ErrUnauthorized {
	if pin == "" {
		return &errors.ErrUnauthorized{Message: "missing staff pin"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(pinHash), []byte(pin)); err != nil {
		return &errors.ErrUnauthorized{Message: "invalid staff pin"}
	}
	return nil
}

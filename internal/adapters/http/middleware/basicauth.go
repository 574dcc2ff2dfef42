package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// RequireBasicAuth returns middleware that checks the basic credentials of
// every request against accounts. A missing or wrong password aborts with
// an Unauthorized envelope. An empty accounts map lets every request through.
func RequireBasicAuth(accounts map[string]string) gin.HandlerFunc {
	if len(accounts) == 0 {
		return func(c *gin.Context) { c.Next() }
	}

	return func(c *gin.Context) {
		user, password, ok := c.Request.BasicAuth()
		want, known := accounts[user]

		if !ok || !known || subtle.ConstantTimeCompare([]byte(password), []byte(want)) != 1 {
			AbortWithFailure(c, domain.NewUnauthorizedError(
				domain.CodeUserNotAuthorized, GetOperation(c), user))

			return
		}

		c.Next()
	}
}

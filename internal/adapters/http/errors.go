package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/middleware"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// noRoute answers requests for unknown endpoints with a failure envelope,
// so clients see a tagged failure instead of a bare 404 page.
func noRoute(c *gin.Context) {
	respondWithStatus(c, http.StatusNotFound, "no endpoint "+c.Request.URL.Path)
}

// noMethod answers requests with an unsupported method.
func noMethod(c *gin.Context) {
	respondWithStatus(c, http.StatusMethodNotAllowed,
		"method "+c.Request.Method+" is not supported on "+c.Request.URL.Path)
}

func respondWithStatus(c *gin.Context, status int, detail string) {
	f := domain.NewPropertyServerError(domain.CodeUnexpectedServerFailure, middleware.GetOperation(c), nil, detail)
	f.StatusCode = status

	middleware.AbortWithFailure(c, f)
}

package api

import (
	"net/http"

	"stayhub/errors"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[errors.Kind]int{
	errors.KindUnauthorized: http.StatusUnauthorized,
	errors.KindForbidden:    http.StatusForbidden,
	errors.KindInvalidInput: http.StatusBadRequest,
	errors.KindNotFound:     http.StatusNotFound,
	errors.KindDuplicateKey: http.StatusConflict,
	errors.KindInternal:     http.StatusInternalServerError,
}

// respondError maps a service failure onto the wire. Internal errors are
// logged by the caller and reported without their message.
func respondError(c *gin.Context, err error) {
	kind := errors.KindOf(err)
	message := err.Error()
	if kind == errors.KindInternal {
		message = "internal error"
	}
	c.JSON(statusByKind[kind], gin.H{"error": message, "kind": string(kind)})
}

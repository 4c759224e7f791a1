package api

import (
	"net/http"

	"library-backend/internal/domain/access"
	"library-backend/internal/handler/httperr"
	"library-backend/internal/handler/middleware"
	"library-backend/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var errUnauthenticated = errs.New("unauthenticated")

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Mark(err, errInvalidID), "Invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func currentSubject(c *gin.Context) (access.Subject, bool) {
	subject, ok := middleware.GetSubject(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errUnauthenticated, "Unauthorized")
		return access.Subject{}, false
	}
	return subject, true
}

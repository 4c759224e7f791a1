package api

import (
	"net/http"

	resdto "library-backend/internal/handler/dto/response"
	"library-backend/internal/handler/httperr"
	"library-backend/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type CirculationHandler struct {
	cmds commands.CirculationCommands
}

func NewCirculationHandler(cmds commands.CirculationCommands) *CirculationHandler {
	return &CirculationHandler{cmds: cmds}
}

// @Summary Reserve book
// @Description Records an open reservation for the caller on both the book and the user.
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} httperr.Response{result=resdto.ReservationResponse}
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /books/{id}/reserve [post]
func (h *CirculationHandler) Reserve(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		return
	}
	bookID, ok := pathID(c)
	if !ok {
		return
	}

	ref, err := h.cmds.Reserve(c.Request.Context(), bookID, subject.ID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	httperr.Success(c, http.StatusOK, "Book reserved", resdto.FromReservationRef(ref))
}

// @Summary Return book
// @Description Closes the caller's open reservation. Returning with nothing open succeeds with closed=false.
// @Tags circulation
// @Produce json
// @Security BearerAuth
// @Param id path string true "Book ID"
// @Success 200 {object} httperr.Response{result=resdto.ReservationResponse}
// @Failure 404 {object} httperr.Response
// @Router /books/{id}/return [post]
func (h *CirculationHandler) Return(c *gin.Context) {
	subject, ok := currentSubject(c)
	if !ok {
		return
	}
	bookID, ok := pathID(c)
	if !ok {
		return
	}

	ref, err := h.cmds.Return(c.Request.Context(), bookID, subject.ID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	msg := "Book returned"
	if !ref.Closed {
		msg = "No open reservation"
	}
	httperr.Success(c, http.StatusOK, msg, resdto.FromReservationRef(ref))
}

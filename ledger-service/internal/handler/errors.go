package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/Preet1920/finebookeasyaccounting/ledger-service/internal/command"
	"github.com/Preet1920/finebookeasyaccounting/shared/middleware"
	"github.com/gin-gonic/gin"
)

// respondWithLedgerError maps an engine error onto an HTTP status. Unexpected
// errors are logged and reported as fallback.
func respondWithLedgerError(c *gin.Context, err error, fallback string) {
	switch command.KindOf(err) {
	case command.KindValidation:
		var ve *command.ValidationError
		if errors.As(err, &ve) && ve.Field != "" {
			middleware.RespondWithValidationError(c, []middleware.ValidationError{{
				Field: ve.Field, Message: ve.Message, Type: "invalid",
			}})
			return
		}
		middleware.RespondWithError(c, http.StatusBadRequest, err.Error())
	case command.KindConflict:
		middleware.RespondWithError(c, http.StatusConflict, err.Error())
	case command.KindAuth:
		middleware.RespondWithError(c, http.StatusUnauthorized, err.Error())
	case command.KindNotFound:
		middleware.RespondWithError(c, http.StatusNotFound, err.Error())
	case command.KindConfirmation:
		if errors.Is(err, command.ErrConfirmationExpired) {
			middleware.RespondWithError(c, http.StatusGone, err.Error())
			return
		}
		middleware.RespondWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Printf("%s: %v", fallback, err)
		middleware.RespondWithError(c, http.StatusInternalServerError, fallback)
	}
}

// bindRequest decodes and validates the JSON body into req, writing the error
// response itself when it returns false.
func bindRequest(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return false
	}
	return true
}

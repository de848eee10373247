package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/casemap-backend-go/internal/casedata"
	"github.com/jengzang/casemap-backend-go/internal/service"
	"github.com/jengzang/casemap-backend-go/pkg/response"
)

// writeError maps service errors onto HTTP status codes
func writeError(c *gin.Context, err error) {
	var oor *casedata.OutOfRangeError
	var fetchErr *casedata.FetchError
	var drift *casedata.SchemaDriftError

	switch {
	case errors.Is(err, service.ErrNotLoaded):
		response.ServiceUnavailable(c, err.Error())
	case errors.As(err, &oor),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, service.ErrNoSelection):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrRecordNotFound):
		response.NotFound(c, err.Error())
	case errors.As(err, &fetchErr), errors.As(err, &drift),
		errors.Is(err, casedata.ErrDuplicateDateColumn):
		response.Error(c, http.StatusBadGateway, err.Error())
	default:
		response.InternalError(c, err.Error())
	}
}

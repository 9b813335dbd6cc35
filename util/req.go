package util

import (
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appDb "github.com/inkwell-app/inkwell-be/db"
)

type HTTPError struct {
	Status  int
	Message string
	// Location points at the canonical resource for the presentation
	// layer to navigate to (set on authorization failures).
	Location string
}

func (he *HTTPError) Error() string {
	return fmt.Sprintf("%v (statusCode=%v)", he.Message, he.Status)
}

type HandlerOpts struct {
}

type Handler = func(c *gin.Context) (interface{}, *HTTPError)

// HandlerWrapper adapts a data-or-error handler to gin, wrapping the
// result in the standard response envelope.
func HandlerWrapper(handler Handler, opts *HandlerOpts) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, httpErr := handler(c)
		if httpErr != nil {
			HandleHTTPErrorRes(c, httpErr)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    data,
		})
	}
}

// HandleHTTPErrorRes handles creating the appropriate response for the
// HTTP error. break the route after calling this function
func HandleHTTPErrorRes(c *gin.Context, err *HTTPError) {
	res := gin.H{
		"success": false,
		"message": err.Message,
	}
	if err.Location != "" {
		res["location"] = err.Location
	}
	c.JSON(err.Status, res)
}

// BuildDbHTTPErr translates the storage error taxonomy: validation -> 400,
// not found -> 404, wrong actor -> 403, anything else is fatal to the
// request.
func BuildDbHTTPErr(err error) *HTTPError {
	switch {
	case appDb.IsValidationErr(err):
		return &HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
	case appDb.IsNotFoundErr(err):
		return &HTTPError{Status: http.StatusNotFound, Message: err.Error()}
	case appDb.IsAuthorizationErr(err):
		return &HTTPError{Status: http.StatusForbidden, Message: err.Error()}
	default:
		log.Println("database error occurred", err)
		return &HTTPError{Status: http.StatusInternalServerError, Message: "database error"}
	}
}

func BuildJSONBindHTTPErr(err error) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: err.Error()}
}

func ParseId(val string) (int64, *HTTPError) {
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, &HTTPError{Status: http.StatusBadRequest, Message: "id malformed"}
	}
	return id, nil
}

// ParsePage reads the 1-based page query param; anything unparseable is
// page 1 (the paginator clamps out-of-range values itself).
func ParsePage(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

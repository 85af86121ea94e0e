package common

import (
	"errors"
	"io"

	"HostelAPI/internal/validation"

	"github.com/gin-gonic/gin"
)

const MessageInvalidBody = "request body must be valid JSON"

// BindAndValidate decodes the JSON body into dst and runs its validate tags.
// On failure it writes the 400 envelope and returns false.
func BindAndValidate(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			ValidationFailed(c, []string{"request body is required"})
			return false
		}
		ValidationFailed(c, []string{MessageInvalidBody})
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		ValidationFailed(c, verr.Messages())
		return false
	}
	return true
}

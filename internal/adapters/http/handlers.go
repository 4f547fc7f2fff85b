package http

import (
	"strings"

	"github.com/inventra/core/internal/domain/entities"
)

// Response DTOs

type MessageResponse struct {
	Message string `json:"message"`
}

// validationMessage drops the sentinel prefix so clients see only the detail.
func validationMessage(err error) string {
	msg := err.Error()
	prefix := entities.ErrValidation.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}

package http

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"taskboard/internal/apperr"
)

// envelope is the uniform response shape: success carries data or message,
// failure carries the normalized error body.
type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func respondData(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, envelope{Success: true, Message: message})
}

// respondError is the single translation point from raised errors to the
// error envelope. Normalization is total: anything untyped becomes a 500.
func respondError(c *gin.Context, err error) {
	appErr := apperr.Normalize(err)
	if appErr.Kind == apperr.KindServer {
		logrus.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error("unhandled error")
	}

	c.JSON(appErr.Kind.HTTPStatus(), envelope{
		Success: false,
		Error: &errorBody{
			Type:    appErr.Kind.String(),
			Message: appErr.Message,
			Details: appErr.Details,
		},
	})
}

// respondBindError covers malformed JSON and wrong field types, which Go's
// typed binding rejects before any validation rule runs. The decode error
// text (Go type names included) stays in the log; clients get a fixed
// message.
func respondBindError(c *gin.Context, err error) {
	logrus.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).WithError(err).Debug("request body rejected")

	respondError(c, apperr.BadRequest("invalid request body"))
}

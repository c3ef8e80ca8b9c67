package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-nav-api/internal/middleware"
	"github.com/noah-isme/campus-nav-api/internal/models"
	appErrors "github.com/noah-isme/campus-nav-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.Claims(c)
	if !ok {
		return nil
	}
	return claims
}

// pathID parses a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.FieldInvalid(name, "numeric", name+" must be a positive integer")
	}
	return id, nil
}

// queryFloat parses an optional float query parameter. ok is false when absent.
func queryFloat(c *gin.Context, name string) (value float64, ok bool, err error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, false, nil
	}
	value, err = strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, appErrors.FieldInvalid(name, "numeric", name+" must be a number")
	}
	return value, true, nil
}

// bindJSON decodes the body leaving field validation to the services.
func bindJSON(c *gin.Context, dst interface{}, message string) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return appErrors.Validation(err, message)
	}
	return nil
}

// maxStrictBody caps bodies decoded by bindStrictJSON.
const maxStrictBody = 1 << 20

// bindStrictJSON decodes the body rejecting unknown fields and trailing data.
func bindStrictJSON(c *gin.Context, dst interface{}, message string) error {
	dec := json.NewDecoder(http.MaxBytesReader(c.Writer, c.Request.Body, maxStrictBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return appErrors.Wrap(err, "PAYLOAD_TOO_LARGE", http.StatusRequestEntityTooLarge, "request body too large")
		}
		return appErrors.Validation(err, unknownFieldMessage(err, message))
	}
	if dec.More() {
		return appErrors.Validation(errors.New("trailing data after JSON body"), message)
	}
	return nil
}

func unknownFieldMessage(err error, fallback string) string {
	const prefix = "json: unknown field "
	if msg := err.Error(); strings.HasPrefix(msg, prefix) {
		return "unknown field " + strings.TrimPrefix(msg, prefix)
	}
	return fallback
}

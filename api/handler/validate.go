package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/brandseed/models"
	"github.com/use-agent/brandseed/quality"
)

// Validate returns a handler for POST /api/v1/validate.
func Validate(v *quality.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ValidateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		c.JSON(http.StatusOK, models.ValidateResponse{
			Name:           v.ValidateName(req.Name),
			Tagline:        v.ValidateTagline(req.Tagline, req.Name),
			LowQualityLogo: req.LogoURL != "" && v.IsLowQualityLogo(req.LogoURL),
		})
	}
}

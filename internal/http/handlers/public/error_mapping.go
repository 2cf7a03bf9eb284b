package public

import (
	"errors"

	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

// respondRegistrationError normalizes every registration failure into the
// response envelope. Structured errors carry their details as data so the
// form can highlight fields and show upgrade prompts.
func respondRegistrationError(c *gin.Context, err error) {
	if fieldErrs, ok := service.AsValidationErrors(err); ok {
		response.ErrorWithData(c, response.CodeBadRequest, "dados inválidos", gin.H{
			"fields": fieldErrs,
		})
		return
	}
	if dup, ok := service.AsDuplicateError(err); ok {
		response.ErrorWithData(c, response.CodeConflict, dup.Error(), gin.H{
			"field": dup.Field,
		})
		return
	}
	if limit, ok := service.AsLimitReachedError(err); ok {
		response.ErrorWithData(c, response.CodeForbidden, limit.Error(), gin.H{
			"kind":      limit.Kind,
			"current":   limit.Current,
			"max":       limit.Max,
			"plan_name": limit.PlanName,
		})
		return
	}
	switch {
	case errors.Is(err, service.ErrReferrerNotFound):
		response.NotFound(c, service.ErrReferrerNotFound.Error())
	case errors.Is(err, service.ErrCampaignRequired):
		response.BadRequest(c, service.ErrCampaignRequired.Error())
	case errors.Is(err, service.ErrCampaignInactive):
		response.Forbidden(c, service.ErrCampaignInactive.Error())
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, service.ErrNotFound.Error())
	default:
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
	}
}

package public

import (
	"errors"

	"github.com/indicamais/internal/http/handlers/shared"
	"github.com/indicamais/internal/http/response"
	"github.com/indicamais/internal/service"

	"github.com/gin-gonic/gin"
)

// GetCep proxies the postal-code lookup chain for the registration form.
func (h *Handler) GetCep(c *gin.Context) {
	cep := service.NormalizeCep(c.Param("cep"))
	address, err := h.CepService.Lookup(c.Request.Context(), cep)
	if err != nil {
		if errors.Is(err, service.ErrCepNotFound) {
			response.NotFound(c, service.ErrCepNotFound.Error())
			return
		}
		shared.RespondError(c, response.CodeInternal, "erro interno", err)
		return
	}
	response.Success(c, address)
}

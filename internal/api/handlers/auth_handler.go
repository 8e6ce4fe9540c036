// internal/api/handlers/auth_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/auth"
)

type AuthHandler struct {
	service auth.Service
}

func NewAuthHandler(service auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) HandleLogin(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if req.Username == "" || req.Password == "" {
		responses.Error(c, http.StatusBadRequest, "Usuário e senha são obrigatórios")
		return
	}

	token, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrCredenciaisInvalidas) {
			responses.Error(c, http.StatusUnauthorized, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao autenticar", err.Error())
		return
	}

	responses.JSON(c, http.StatusOK, gin.H{"token": token})
}

// internal/api/handlers/approval_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/approval"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

type ApprovalHandler struct {
	servicos map[string]approval.Service
}

// NewApprovalHandler monta o handler do workflow de aprovação, um serviço por
// entidade.
func NewApprovalHandler(motoristas, veiculos approval.Service) *ApprovalHandler {
	return &ApprovalHandler{
		servicos: map[string]approval.Service{
			"motoristas": motoristas,
			"veiculos":   veiculos,
		},
	}
}

func (h *ApprovalHandler) servico(c *gin.Context) (approval.Service, bool) {
	svc, ok := h.servicos[c.Param("entidade")]
	if !ok {
		responses.Error(c, http.StatusNotFound, "Entidade desconhecida")
	}
	return svc, ok
}

func (h *ApprovalHandler) HandleReject(c *gin.Context) {
	svc, ok := h.servico(c)
	if !ok {
		return
	}
	if err := svc.Rejeitar(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Pendência não encontrada")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao rejeitar pendência", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleApprove aprova uma pendência sem vínculo com registro existente.
// Duplicatas exigem a rota de resolução, com escolha explícita.
func (h *ApprovalHandler) HandleApprove(c *gin.Context) {
	svc, ok := h.servico(c)
	if !ok {
		return
	}
	id, err := svc.AprovarAvulso(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNaoEncontrado):
			responses.Error(c, http.StatusNotFound, "Pendência não encontrada")
		case errors.Is(err, approval.ErrDuplicataRequerEscolha):
			responses.Error(c, http.StatusConflict, err.Error())
		default:
			responses.Error(c, http.StatusInternalServerError, "Erro ao aprovar pendência", err.Error())
		}
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"id": id})
}

// HandleResolve resolve uma duplicata: manter o registro existente ou
// substituí-lo pelos dados novos.
func (h *ApprovalHandler) HandleResolve(c *gin.Context) {
	svc, ok := h.servico(c)
	if !ok {
		return
	}
	var req struct {
		Escolha string `json:"escolha"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	escolha := approval.Escolha(req.Escolha)
	if escolha != approval.ManterExistente && escolha != approval.ManterNovo {
		responses.Error(c, http.StatusBadRequest, "Escolha deve ser keep_existing ou keep_new")
		return
	}

	if err := svc.ResolverDuplicata(c.Request.Context(), c.Param("id"), escolha); err != nil {
		switch {
		case errors.Is(err, store.ErrNaoEncontrado):
			responses.Error(c, http.StatusNotFound, "Pendência não encontrada")
		case errors.Is(err, approval.ErrNaoEhDuplicata):
			responses.Error(c, http.StatusConflict, err.Error())
		case errors.Is(err, approval.ErrReferenciaInvalida):
			responses.Error(c, http.StatusConflict, err.Error())
		default:
			responses.Error(c, http.StatusInternalServerError, "Erro ao resolver duplicata", err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ApprovalHandler) HandleBulkApprove(c *gin.Context) {
	svc, ok := h.servico(c)
	if !ok {
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		responses.Error(c, http.StatusBadRequest, "Lista de ids é obrigatória")
		return
	}
	responses.JSON(c, http.StatusOK, svc.AprovarEmLote(c.Request.Context(), req.IDs))
}

func (h *ApprovalHandler) HandleBulkReject(c *gin.Context) {
	svc, ok := h.servico(c)
	if !ok {
		return
	}
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		responses.Error(c, http.StatusBadRequest, "Lista de ids é obrigatória")
		return
	}
	responses.JSON(c, http.StatusOK, svc.RejeitarEmLote(c.Request.Context(), req.IDs))
}

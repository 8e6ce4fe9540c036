// internal/api/handlers/vehicle_handler.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/vehicles"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

type VehicleHandler struct {
	service vehicles.Service
}

func NewVehicleHandler(service vehicles.Service) *VehicleHandler {
	return &VehicleHandler{service: service}
}

func (h *VehicleHandler) HandleList(c *gin.Context) {
	itens, err := h.service.ListarCombinado(c.Request.Context(), viewStateFromQuery(c))
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao listar veículos", err.Error())
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"items": itens, "total": len(itens)})
}

func (h *VehicleHandler) HandleGet(c *gin.Context) {
	v, err := h.service.Buscar(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Veículo não encontrado")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao buscar veículo", err.Error())
		return
	}
	responses.JSON(c, http.StatusOK, v)
}

func (h *VehicleHandler) HandleCreate(c *gin.Context) {
	var v domain.Veiculo
	if err := c.ShouldBindJSON(&v); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	id, err := h.service.Criar(c.Request.Context(), v)
	if err != nil {
		if errors.Is(err, vehicles.ErrPlacaObrigatoria) {
			responses.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao criar veículo", err.Error())
		return
	}
	responses.JSON(c, http.StatusCreated, gin.H{"id": id})
}

func (h *VehicleHandler) HandleUpdate(c *gin.Context) {
	var v domain.Veiculo
	if err := c.ShouldBindJSON(&v); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := h.service.Atualizar(c.Request.Context(), c.Param("id"), v); err != nil {
		switch {
		case errors.Is(err, vehicles.ErrPlacaObrigatoria):
			responses.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNaoEncontrado):
			responses.Error(c, http.StatusNotFound, "Veículo não encontrado")
		default:
			responses.Error(c, http.StatusInternalServerError, "Erro ao atualizar veículo", err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VehicleHandler) HandleDelete(c *gin.Context) {
	if err := h.service.Excluir(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Veículo não encontrado")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao excluir veículo", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VehicleHandler) HandleBulkDelete(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		responses.Error(c, http.StatusBadRequest, "Lista de ids é obrigatória")
		return
	}
	if err := h.service.ExcluirLote(c.Request.Context(), req.IDs); err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao excluir veículos", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VehicleHandler) HandleSubmit(c *gin.Context) {
	var v domain.Veiculo
	if err := c.ShouldBindJSON(&v); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	resultado, err := h.service.Submeter(c.Request.Context(), v)
	if err != nil {
		if errors.Is(err, vehicles.ErrPlacaObrigatoria) {
			responses.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao submeter veículo", err.Error())
		return
	}
	status := http.StatusCreated
	if !resultado.Inserido {
		status = http.StatusAccepted
	}
	responses.JSON(c, status, resultado)
}

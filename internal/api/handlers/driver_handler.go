// internal/api/handlers/driver_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/drivers"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/projection"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

type DriverHandler struct {
	service drivers.Service
}

func NewDriverHandler(service drivers.Service) *DriverHandler {
	return &DriverHandler{service: service}
}

// viewStateFromQuery lê o estado de visualização da query string. Todos os
// parâmetros são opcionais; ausência significa lista completa na ordem salva.
// 'selecionados' é uma lista de ids separada por vírgula, usada junto da
// categoria homônima para restringir a lista às linhas marcadas.
func viewStateFromQuery(c *gin.Context) projection.ViewState {
	v := projection.ViewState{
		Busca:       c.Query("busca"),
		Categoria:   projection.Categoria(c.DefaultQuery("categoria", string(projection.CategoriaTodos))),
		FiltroCampo: c.Query("filtro_campo"),
		FiltroValor: c.Query("filtro_valor"),
		OrdenarPor:  c.Query("ordenar_por"),
		Direcao:     projection.Direcao(c.DefaultQuery("direcao", string(projection.Ascendente))),
	}
	if brutos := c.Query("selecionados"); brutos != "" {
		v.Selecionados = make(map[string]bool)
		for _, id := range strings.Split(brutos, ",") {
			if id = strings.TrimSpace(id); id != "" {
				v.Selecionados[id] = true
			}
		}
	}
	return v
}

// HandleList devolve a lista combinada: registros e pendências, com as
// duplicatas aninhadas sob o registro original.
func (h *DriverHandler) HandleList(c *gin.Context) {
	itens, err := h.service.ListarCombinado(c.Request.Context(), viewStateFromQuery(c))
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao listar motoristas", err.Error())
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"items": itens, "total": len(itens)})
}

func (h *DriverHandler) HandleGet(c *gin.Context) {
	m, err := h.service.Buscar(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Motorista não encontrado")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao buscar motorista", err.Error())
		return
	}
	responses.JSON(c, http.StatusOK, m)
}

func (h *DriverHandler) HandleCreate(c *gin.Context) {
	var m domain.Motorista
	if err := c.ShouldBindJSON(&m); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	id, err := h.service.Criar(c.Request.Context(), m)
	if err != nil {
		if errors.Is(err, drivers.ErrCamposObrigatorios) || errors.Is(err, drivers.ErrIndicacaoInvalida) {
			responses.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao criar motorista", err.Error())
		return
	}
	responses.JSON(c, http.StatusCreated, gin.H{"id": id})
}

func (h *DriverHandler) HandleUpdate(c *gin.Context) {
	var m domain.Motorista
	if err := c.ShouldBindJSON(&m); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := h.service.Atualizar(c.Request.Context(), c.Param("id"), m); err != nil {
		switch {
		case errors.Is(err, drivers.ErrCamposObrigatorios), errors.Is(err, drivers.ErrIndicacaoInvalida):
			responses.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNaoEncontrado):
			responses.Error(c, http.StatusNotFound, "Motorista não encontrado")
		default:
			responses.Error(c, http.StatusInternalServerError, "Erro ao atualizar motorista", err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleUpdateIndication altera apenas status_indicacao e o motivo, sem
// exigir o restante do cadastro.
func (h *DriverHandler) HandleUpdateIndication(c *gin.Context) {
	var req struct {
		StatusIndicacao    string `json:"status_indicacao"`
		ReasonNaoIndicacao string `json:"reason_nao_indicacao"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	err := h.service.AtualizarIndicacao(c.Request.Context(), c.Param("id"), req.StatusIndicacao, req.ReasonNaoIndicacao)
	if err != nil {
		switch {
		case errors.Is(err, drivers.ErrIndicacaoInvalida):
			responses.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNaoEncontrado):
			responses.Error(c, http.StatusNotFound, "Motorista não encontrado")
		default:
			responses.Error(c, http.StatusInternalServerError, "Erro ao atualizar indicação", err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DriverHandler) HandleDelete(c *gin.Context) {
	if err := h.service.Excluir(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Motorista não encontrado")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao excluir motorista", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DriverHandler) HandleBulkDelete(c *gin.Context) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || len(req.IDs) == 0 {
		responses.Error(c, http.StatusBadRequest, "Lista de ids é obrigatória")
		return
	}
	if err := h.service.ExcluirLote(c.Request.Context(), req.IDs); err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao excluir motoristas", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSubmit recebe um cadastro avulso. Duplicatas não são rejeitadas nem
// inseridas: viram pendência e a resposta informa o motivo.
func (h *DriverHandler) HandleSubmit(c *gin.Context) {
	var m domain.Motorista
	if err := c.ShouldBindJSON(&m); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	resultado, err := h.service.Submeter(c.Request.Context(), m)
	if err != nil {
		if errors.Is(err, drivers.ErrCamposObrigatorios) || errors.Is(err, drivers.ErrIndicacaoInvalida) {
			responses.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao submeter motorista", err.Error())
		return
	}
	status := http.StatusCreated
	if !resultado.Inserido {
		status = http.StatusAccepted
	}
	responses.JSON(c, status, resultado)
}

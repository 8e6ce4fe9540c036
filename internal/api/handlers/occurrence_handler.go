// internal/api/handlers/occurrence_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/occurrences"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

type OccurrenceHandler struct {
	service occurrences.Service
}

func NewOccurrenceHandler(service occurrences.Service) *OccurrenceHandler {
	return &OccurrenceHandler{service: service}
}

// periodoFromQuery lê 'de' e 'ate' (YYYY-MM-DD). Sem parâmetros, o período é
// o mês corrente até hoje. Os dois limites usam o fuso local do processo;
// misturar fusos encolheria a janela perto da virada do dia.
func periodoFromQuery(c *gin.Context) (time.Time, time.Time, error) {
	agora := time.Now()
	de := time.Date(agora.Year(), agora.Month(), 1, 0, 0, 0, 0, agora.Location())
	ate := agora

	if s := c.Query("de"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, agora.Location())
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("parâmetro 'de' inválido, use YYYY-MM-DD")
		}
		de = t
	}
	if s := c.Query("ate"); s != "" {
		t, err := time.ParseInLocation("2006-01-02", s, agora.Location())
		if err != nil {
			return time.Time{}, time.Time{}, errors.New("parâmetro 'ate' inválido, use YYYY-MM-DD")
		}
		// inclui o dia inteiro
		ate = t.Add(24*time.Hour - time.Second)
	}
	return de, ate, nil
}

func (h *OccurrenceHandler) HandleList(c *gin.Context) {
	de, ate, err := periodoFromQuery(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	lista, err := h.service.ListarPorPeriodo(c.Request.Context(), de, ate)
	if err != nil {
		if errors.Is(err, occurrences.ErrOcorrenciaInvalida) {
			responses.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao listar ocorrências", err.Error())
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"items": lista, "total": len(lista)})
}

func (h *OccurrenceHandler) HandleGet(c *gin.Context) {
	o, err := h.service.Buscar(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Ocorrência não encontrada")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao buscar ocorrência", err.Error())
		return
	}
	responses.JSON(c, http.StatusOK, o)
}

func (h *OccurrenceHandler) HandleCreate(c *gin.Context) {
	var o domain.Ocorrencia
	if err := c.ShouldBindJSON(&o); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	id, err := h.service.Criar(c.Request.Context(), o)
	if err != nil {
		if errors.Is(err, occurrences.ErrOcorrenciaInvalida) {
			responses.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao criar ocorrência", err.Error())
		return
	}
	responses.JSON(c, http.StatusCreated, gin.H{"id": id})
}

func (h *OccurrenceHandler) HandleUpdate(c *gin.Context) {
	var o domain.Ocorrencia
	if err := c.ShouldBindJSON(&o); err != nil {
		responses.Error(c, http.StatusBadRequest, "Corpo da requisição inválido")
		return
	}
	if err := h.service.Atualizar(c.Request.Context(), c.Param("id"), o); err != nil {
		switch {
		case errors.Is(err, occurrences.ErrOcorrenciaInvalida):
			responses.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, store.ErrNaoEncontrado):
			responses.Error(c, http.StatusNotFound, "Ocorrência não encontrada")
		default:
			responses.Error(c, http.StatusInternalServerError, "Erro ao atualizar ocorrência", err.Error())
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OccurrenceHandler) HandleDelete(c *gin.Context) {
	if err := h.service.Excluir(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Ocorrência não encontrada")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao excluir ocorrência", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleAttach recebe um arquivo de evidência e grava a URL na ocorrência.
func (h *OccurrenceHandler) HandleAttach(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		responses.Error(c, http.StatusBadRequest, "Arquivo não encontrado ou inválido")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Não foi possível abrir o arquivo")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	url, err := h.service.AnexarArquivo(c.Request.Context(), c.Param("id"), fileHeader.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, store.ErrNaoEncontrado) {
			responses.Error(c, http.StatusNotFound, "Ocorrência não encontrada")
			return
		}
		responses.Error(c, http.StatusInternalServerError, "Erro ao anexar arquivo", err.Error())
		return
	}
	responses.JSON(c, http.StatusOK, gin.H{"anexo_url": url})
}

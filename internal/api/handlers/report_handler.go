// internal/api/handlers/report_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/report"
)

type ReportHandler struct {
	service report.Service
}

func NewReportHandler(service report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// HandleReport gera o relatório de ocorrências do período. O parâmetro
// 'formato' escolhe a saída: json (padrão), xlsx, whatsapp ou link (publica a
// planilha no bucket e devolve a URL).
func (h *ReportHandler) HandleReport(c *gin.Context) {
	de, ate, err := periodoFromQuery(c)
	if err != nil {
		responses.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	r, err := h.service.Gerar(c.Request.Context(), de, ate)
	if err != nil {
		responses.Error(c, http.StatusInternalServerError, "Erro ao gerar relatório", err.Error())
		return
	}

	switch c.DefaultQuery("formato", "json") {
	case "json":
		responses.JSON(c, http.StatusOK, r)

	case "xlsx":
		conteudo, err := h.service.GerarPlanilha(r)
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Erro ao gerar planilha", err.Error())
			return
		}
		nome := fmt.Sprintf("ocorrencias_%s_%s.xlsx", r.De.Format("20060102"), r.Ate.Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+nome)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", conteudo)

	case "whatsapp":
		responses.JSON(c, http.StatusOK, gin.H{"mensagem": h.service.MensagemWhatsApp(r)})

	case "link":
		url, err := h.service.Publicar(c.Request.Context(), r)
		if err != nil {
			responses.Error(c, http.StatusInternalServerError, "Erro ao publicar relatório", err.Error())
			return
		}
		responses.JSON(c, http.StatusOK, gin.H{"url": url})

	default:
		responses.Error(c, http.StatusBadRequest, "Formato desconhecido, use json, xlsx, whatsapp ou link")
	}
}

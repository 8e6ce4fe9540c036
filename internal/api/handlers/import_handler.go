// internal/api/handlers/import_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/bulkimport"
)

// importAlvo amarra o schema de uma entidade aos stores que a importação usa.
type importAlvo struct {
	schema     bulkimport.Schema
	registros  bulkimport.RegistroStore
	pendencias bulkimport.PendenciaStore
}

type ImportHandler struct {
	service bulkimport.Service
	alvos   map[string]importAlvo
}

// NewImportHandler monta o handler de importação para motoristas e veículos.
func NewImportHandler(service bulkimport.Service, motoristas, veiculos bulkimport.RegistroStore, pendMotoristas, pendVeiculos bulkimport.PendenciaStore) *ImportHandler {
	return &ImportHandler{
		service: service,
		alvos: map[string]importAlvo{
			"motoristas": {schema: bulkimport.SchemaMotoristas(), registros: motoristas, pendencias: pendMotoristas},
			"veiculos":   {schema: bulkimport.SchemaVeiculos(), registros: veiculos, pendencias: pendVeiculos},
		},
	}
}

func (h *ImportHandler) alvo(c *gin.Context) (importAlvo, bool) {
	alvo, ok := h.alvos[c.Param("entidade")]
	if !ok {
		responses.Error(c, http.StatusNotFound, "Entidade de importação desconhecida")
	}
	return alvo, ok
}

// HandleHeaders extrai os cabeçalhos do arquivo enviado e devolve a sugestão
// de mapeamento coluna → campo para o usuário confirmar.
func (h *ImportHandler) HandleHeaders(c *gin.Context) {
	alvo, ok := h.alvo(c)
	if !ok {
		return
	}

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

	cabecalhos, err := h.service.ExtrairCabecalhos(file, fileHeader.Filename)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Não foi possível ler o arquivo", err.Error())
		return
	}

	responses.JSON(c, http.StatusOK, gin.H{
		"cabecalhos": cabecalhos,
		"sugestao":   h.service.SugerirMapeamento(cabecalhos, alvo.schema),
	})
}

// HandleImport executa a importação com o mapeamento confirmado pelo usuário,
// enviado no campo de formulário 'mapeamento' como JSON cabeçalho → campo.
func (h *ImportHandler) HandleImport(c *gin.Context) {
	alvo, ok := h.alvo(c)
	if !ok {
		return
	}

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

	mapeamentoStr := c.PostForm("mapeamento")
	if mapeamentoStr == "" {
		responses.Error(c, http.StatusBadRequest, "Mapeamento de colunas é obrigatório")
		return
	}
	var mapeamento map[string]string
	if err := json.Unmarshal([]byte(mapeamentoStr), &mapeamento); err != nil {
		responses.Error(c, http.StatusBadRequest, "Mapeamento de colunas inválido")
		return
	}

	resumo, err := h.service.Importar(c.Request.Context(), file, fileHeader.Filename, mapeamento, alvo.schema, alvo.registros, alvo.pendencias)
	if err != nil {
		responses.Error(c, http.StatusUnprocessableEntity, "Erro ao importar arquivo", err.Error())
		return
	}

	responses.JSON(c, http.StatusOK, resumo)
}

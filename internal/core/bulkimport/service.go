// internal/core/bulkimport/service.go
package bulkimport

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/schollz/closestmatch"
	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/reconcile"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
)

// ResultadoParse devolve os candidatos na ordem das linhas do arquivo e a
// quantidade de linhas descartadas por falta de chave natural.
type ResultadoParse struct {
	Candidatos  []domain.Candidato
	Descartados int
}

// Resumo é o desfecho de uma importação completa. Inseridos e Pendentes
// contam o que de fato foi persistido; uma divergência com o tamanho do lote
// indica falha parcial e aparece em Erros, nunca é mascarada.
type Resumo struct {
	Inseridos   int      `json:"inseridos"`
	Pendentes   int      `json:"pendentes"`
	Descartados int      `json:"descartados"`
	Erros       []string `json:"erros,omitempty"`
}

// RegistroStore é o colaborador de persistência dos registros de primeira
// classe, visto pelo importador.
type RegistroStore interface {
	Existentes(ctx context.Context) ([]reconcile.Existente, error)
	InserirCandidato(ctx context.Context, c domain.Candidato) (string, error)
}

// PendenciaStore persiste as entradas aguardando aprovação.
type PendenciaStore interface {
	Criar(ctx context.Context, p domain.PendenciaAprovacao) (string, error)
}

// Service lê planilhas heterogêneas (.xlsx, .xls, .csv), sugere o mapeamento
// de colunas, normaliza as células para o schema fixo e conduz a importação
// com reconciliação de duplicatas.
type Service interface {
	ExtrairCabecalhos(arquivo io.Reader, nomeArquivo string) ([]string, error)
	SugerirMapeamento(cabecalhos []string, schema Schema) map[string]string
	ParseLinhas(arquivo io.Reader, nomeArquivo string, mapeamento map[string]string, schema Schema) (ResultadoParse, error)
	Importar(ctx context.Context, arquivo io.Reader, nomeArquivo string, mapeamento map[string]string, schema Schema, registros RegistroStore, pendencias PendenciaStore) (Resumo, error)
}

type service struct {
	reconciliador reconcile.Service
}

// NewService cria uma nova instância do serviço de importação.
func NewService() Service {
	return &service{reconciliador: reconcile.NewService()}
}

// normalizarTexto remove acentos, põe em maiúsculas e colapsa espaços, para
// comparação de cabeçalhos.
func normalizarTexto(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	var b strings.Builder
	for _, r := range result {
		if r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == ' ' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// lerTabela materializa o arquivo como matriz de células de texto,
// independente do formato de origem.
func (svc *service) lerTabela(arquivo io.Reader, nomeArquivo string) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(nomeArquivo))
	switch ext {
	case ".xlsx":
		return svc.lerXLSX(arquivo)
	case ".xls":
		return svc.lerXLS(arquivo)
	case ".csv", ".txt":
		return svc.lerCSV(arquivo)
	default:
		return nil, fmt.Errorf("formato de arquivo não suportado: %s", ext)
	}
}

func (svc *service) lerXLSX(arquivo io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(arquivo)
	if err != nil {
		return nil, fmt.Errorf("não foi possível abrir o arquivo .xlsx: %w", err)
	}
	defer f.Close()

	planilhas := f.GetSheetList()
	if len(planilhas) == 0 {
		return nil, fmt.Errorf("arquivo .xlsx sem planilhas")
	}
	rows, err := f.GetRows(planilhas[0])
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler a planilha %q: %w", planilhas[0], err)
	}
	return rows, nil
}

func (svc *service) lerXLS(arquivo io.Reader) ([][]string, error) {
	data, err := io.ReadAll(arquivo)
	if err != nil {
		return nil, err
	}

	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Alguns exportadores entregam .xlsx com extensão .xls.
		if _, errX := excelize.OpenReader(bytes.NewReader(data)); errX == nil {
			return svc.lerXLSX(bytes.NewReader(data))
		}
		return nil, fmt.Errorf("não foi possível abrir o arquivo .xls: %w", err)
	}

	sheets := workbook.GetSheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("arquivo .xls sem planilhas")
	}
	var linhas [][]string
	for _, row := range sheets[0].GetRows() {
		var linha []string
		for _, cell := range row.GetCols() {
			linha = append(linha, cell.GetString())
		}
		linhas = append(linhas, linha)
	}
	return linhas, nil
}

func (svc *service) lerCSV(arquivo io.Reader) ([][]string, error) {
	data, err := io.ReadAll(arquivo)
	if err != nil {
		return nil, err
	}

	// Remove BOM e decide o encoding: UTF-8 válido passa direto, o resto é
	// tratado como ISO-8859-1 (padrão dos exports brasileiros).
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	var leitor io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		leitor = transform.NewReader(bytes.NewReader(data), charmap.ISO8859_1.NewDecoder())
	}

	reader := csv.NewReader(leitor)
	reader.Comma = ';'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	registros, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("não foi possível ler o CSV: %w", err)
	}
	return registros, nil
}

func (svc *service) ExtrairCabecalhos(arquivo io.Reader, nomeArquivo string) ([]string, error) {
	linhas, err := svc.lerTabela(arquivo, nomeArquivo)
	if err != nil {
		return nil, err
	}
	for _, linha := range linhas {
		var cabecalhos []string
		vazia := true
		for _, celula := range linha {
			celula = strings.TrimSpace(celula)
			if celula != "" {
				vazia = false
			}
			cabecalhos = append(cabecalhos, celula)
		}
		if !vazia {
			return cabecalhos, nil
		}
	}
	return nil, fmt.Errorf("o arquivo não contém linha de cabeçalho")
}

// SugerirMapeamento propõe cabeçalho → campo por substring dos sinônimos
// (após remoção de acentos) e, em último caso, por proximidade. A sugestão é
// só um ponto de partida: o mapeamento efetivo é sempre confirmado pelo
// usuário, nunca posicional.
func (svc *service) SugerirMapeamento(cabecalhos []string, schema Schema) map[string]string {
	sugestao := make(map[string]string)
	usados := make(map[string]bool)

	sinonimoParaCampo := make(map[string]string)
	var chavesBusca []string
	for _, campo := range schema.Campos {
		for _, sin := range campo.Sinonimos {
			n := normalizarTexto(sin)
			sinonimoParaCampo[n] = campo.Nome
			chavesBusca = append(chavesBusca, n)
		}
	}

	// 1. Substring direta
	for _, cab := range cabecalhos {
		if cab == "" {
			continue
		}
		n := normalizarTexto(cab)
		for sin, campo := range sinonimoParaCampo {
			if !usados[campo] && strings.Contains(n, sin) {
				sugestao[cab] = campo
				usados[campo] = true
				break
			}
		}
	}

	// 2. Busca por proximidade para os cabeçalhos que sobraram
	if len(chavesBusca) > 0 {
		cm := closestmatch.New(chavesBusca, []int{2, 3})
		for _, cab := range cabecalhos {
			if cab == "" || sugestao[cab] != "" {
				continue
			}
			match := cm.Closest(normalizarTexto(cab))
			if match == "" {
				continue
			}
			campo := sinonimoParaCampo[match]
			if !usados[campo] {
				sugestao[cab] = campo
				usados[campo] = true
			}
		}
	}

	return sugestao
}

// ParseLinhas converte as linhas do arquivo em candidatos normalizados,
// preservando a ordem de entrada. Linhas sem alguma chave natural são
// descartadas em silêncio e apenas contadas.
func (svc *service) ParseLinhas(arquivo io.Reader, nomeArquivo string, mapeamento map[string]string, schema Schema) (ResultadoParse, error) {
	linhas, err := svc.lerTabela(arquivo, nomeArquivo)
	if err != nil {
		return ResultadoParse{}, err
	}
	if len(linhas) == 0 {
		return ResultadoParse{}, fmt.Errorf("o arquivo está vazio")
	}

	// Localiza a linha de cabeçalho e resolve coluna → campo.
	inicio := -1
	colunaCampo := make(map[int]string)
	for i, linha := range linhas {
		for j, celula := range linha {
			celula = strings.TrimSpace(celula)
			if campo, ok := mapeamento[celula]; ok && celula != "" {
				colunaCampo[j] = campo
			}
		}
		if len(colunaCampo) > 0 {
			inicio = i + 1
			break
		}
	}
	if inicio < 0 {
		return ResultadoParse{}, fmt.Errorf("nenhuma coluna do mapeamento foi encontrada no arquivo")
	}

	var res ResultadoParse
	for _, linha := range linhas[inicio:] {
		cand := domain.Candidato{Campos: map[string]any{}, Brutos: map[string]string{}}
		for col, nomeCampo := range colunaCampo {
			var celula string
			if col < len(linha) {
				celula = strings.TrimSpace(linha[col])
			}
			campo, ok := schema.CampoPorNome(nomeCampo)
			if !ok {
				continue
			}
			svc.normalizarCelula(&cand, campo, celula)
		}

		completo := true
		for _, chave := range schema.ChavesNaturais {
			if cand.Texto(chave) == "" {
				completo = false
				break
			}
		}
		if !completo {
			res.Descartados++
			continue
		}
		res.Candidatos = append(res.Candidatos, cand)
	}

	return res, nil
}

func (svc *service) normalizarCelula(cand *domain.Candidato, campo Campo, celula string) {
	switch campo.Tipo {
	case CampoDocumento:
		if v := NormalizarDocumento(celula); v != "" {
			cand.Campos[campo.Nome] = v
		}
	case CampoPlaca:
		if v := NormalizarPlaca(celula); v != "" {
			cand.Campos[campo.Nome] = v
		}
	case CampoBooleano:
		if b := NormalizarBooleano(celula); b != nil {
			cand.Campos[campo.Nome] = *b
		} else if celula != "" {
			cand.Brutos[campo.Nome] = celula
		}
	case CampoPrioridade:
		valor, bruto := NormalizarPrioridade(celula)
		if valor != nil {
			cand.Campos[campo.Nome] = *valor
		}
		if bruto != "" {
			cand.Brutos[campo.Nome] = bruto
		}
	case CampoLista:
		if itens := NormalizarLista(celula); len(itens) > 0 {
			cand.Campos[campo.Nome] = itens
		}
	case CampoData:
		if t := domain.ParseData(celula); t != nil {
			cand.Campos[campo.Nome] = *t
		} else if celula != "" {
			cand.Brutos[campo.Nome] = celula
		}
	default:
		if celula != "" {
			cand.Campos[campo.Nome] = celula
		}
	}
}

// Importar executa o fluxo completo: parse, reconciliação contra os
// registros existentes e persistência em duas chamadas separadas (inserções
// diretas e pendências). Não há atomicidade entre as duas: falhas parciais
// aparecem na contagem e em Erros.
func (svc *service) Importar(ctx context.Context, arquivo io.Reader, nomeArquivo string, mapeamento map[string]string, schema Schema, registros RegistroStore, pendencias PendenciaStore) (Resumo, error) {
	parse, err := svc.ParseLinhas(arquivo, nomeArquivo, mapeamento, schema)
	if err != nil {
		return Resumo{}, err
	}

	existentes, err := registros.Existentes(ctx)
	if err != nil {
		return Resumo{}, fmt.Errorf("erro ao consultar registros existentes: %w", err)
	}

	resultado := svc.reconciliador.Reconciliar(parse.Candidatos, existentes, schema.ChavesNaturais)

	resumo := Resumo{Descartados: parse.Descartados}
	for i, cand := range resultado.Inserir {
		if _, err := registros.InserirCandidato(ctx, cand); err != nil {
			resumo.Erros = append(resumo.Erros, fmt.Sprintf("inserção %d: %v", i+1, err))
			continue
		}
		resumo.Inseridos++
	}
	agora := time.Now()
	for i, pend := range resultado.Pendencias {
		p := domain.PendenciaAprovacao{
			Status:           domain.StatusPendente,
			Reason:           pend.Reason,
			OriginalRecordID: pend.OriginalRecordID,
			Campos:           pend.Candidato.Campos,
			Brutos:           pend.Candidato.Brutos,
			CriadoEm:         agora,
		}
		if _, err := pendencias.Criar(ctx, p); err != nil {
			resumo.Erros = append(resumo.Erros, fmt.Sprintf("pendência %d: %v", i+1, err))
			continue
		}
		resumo.Pendentes++
	}

	return resumo, nil
}

// internal/core/bulkimport/schema.go
package bulkimport

import (
	"regexp"
	"strconv"
	"strings"
)

// TipoCampo determina a regra de normalização aplicada à célula.
type TipoCampo int

const (
	CampoTexto TipoCampo = iota
	CampoDocumento // CPF/CNH: mantém só os dígitos
	CampoPlaca
	CampoBooleano
	CampoPrioridade
	CampoLista
	CampoData
)

// Campo descreve uma coluna do schema fixo de importação. Sinonimos são os
// fragmentos de cabeçalho usados na sugestão automática de mapeamento.
type Campo struct {
	Nome      string
	Tipo      TipoCampo
	Sinonimos []string
}

// Schema é o destino fixo de uma importação: os campos aceitos, as chaves
// naturais obrigatórias e o campo usado como chave de exibição nas listas.
type Schema struct {
	Entidade       string
	CampoExibicao  string
	ChavesNaturais []string
	Campos         []Campo
}

// CampoPorNome localiza a definição de um campo do schema.
func (s Schema) CampoPorNome(nome string) (Campo, bool) {
	for _, c := range s.Campos {
		if c.Nome == nome {
			return c, true
		}
	}
	return Campo{}, false
}

// SchemaMotoristas é o schema de importação de motoristas. Duplicata quando
// cpf OU cnh coincidem.
func SchemaMotoristas() Schema {
	return Schema{
		Entidade:       "motoristas",
		CampoExibicao:  "nome",
		ChavesNaturais: []string{"cpf", "cnh"},
		Campos: []Campo{
			{Nome: "nome", Tipo: CampoTexto, Sinonimos: []string{"nome", "motorista"}},
			{Nome: "cpf", Tipo: CampoDocumento, Sinonimos: []string{"cpf"}},
			{Nome: "cnh", Tipo: CampoDocumento, Sinonimos: []string{"cnh", "habilitacao"}},
			{Nome: "validade_cnh", Tipo: CampoData, Sinonimos: []string{"validade", "vencimento cnh"}},
			{Nome: "data_cadastro_omnilink", Tipo: CampoData, Sinonimos: []string{"omnilink"}},
			{Nome: "telefone", Tipo: CampoTexto, Sinonimos: []string{"telefone", "fone", "celular"}},
			{Nome: "transportadora", Tipo: CampoTexto, Sinonimos: []string{"transportadora", "empresa"}},
		},
	}
}

// SchemaVeiculos é o schema de importação de veículos. Duplicata pela placa.
func SchemaVeiculos() Schema {
	return Schema{
		Entidade:       "veiculos",
		CampoExibicao:  "placa",
		ChavesNaturais: []string{"placa"},
		Campos: []Campo{
			{Nome: "placa", Tipo: CampoPlaca, Sinonimos: []string{"placa"}},
			{Nome: "modelo", Tipo: CampoTexto, Sinonimos: []string{"modelo", "veiculo"}},
			{Nome: "transportadora", Tipo: CampoTexto, Sinonimos: []string{"transportadora", "empresa"}},
			{Nome: "tecnologias", Tipo: CampoLista, Sinonimos: []string{"tecnologia", "rastreador"}},
			{Nome: "prioridade", Tipo: CampoPrioridade, Sinonimos: []string{"prioridade"}},
			{Nome: "bloqueador", Tipo: CampoBooleano, Sinonimos: []string{"bloqueador", "bloqueio"}},
		},
	}
}

var (
	regexDigito     = regexp.MustCompile(`[0-9]`)
	regexNaoAlfanum = regexp.MustCompile(`[^A-Z0-9]`)
	regexNaoDigito  = regexp.MustCompile(`[^0-9]`)
)

var boolVerdadeiro = map[string]bool{"sim": true, "true": true, "1": true, "s": true, "t": true, "yes": true}
var boolFalso = map[string]bool{"não": true, "nao": true, "false": true, "0": true, "n": true, "f": true, "no": true}

// NormalizarBooleano aceita booleano nativo, numérico 1/0 ou os conjuntos de
// texto sim/não usuais (sem distinção de maiúsculas). Qualquer outra coisa
// devolve nil.
func NormalizarBooleano(v any) *bool {
	switch t := v.(type) {
	case bool:
		return &t
	case int:
		return NormalizarBooleano(strconv.Itoa(t))
	case float64:
		return NormalizarBooleano(strconv.FormatFloat(t, 'f', -1, 64))
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if boolVerdadeiro[s] {
			b := true
			return &b
		}
		if boolFalso[s] {
			b := false
			return &b
		}
	}
	return nil
}

// NormalizarPrioridade converte o texto da célula para 1–3. Primeiro tenta um
// dígito embutido; depois as palavras baixa/media/alta (e equivalentes em
// inglês). Texto não reconhecido devolve valor nulo e o próprio texto bruto.
func NormalizarPrioridade(s string) (*int, string) {
	bruto := strings.TrimSpace(s)
	if bruto == "" {
		return nil, ""
	}
	if d := regexDigito.FindString(bruto); d != "" {
		n, _ := strconv.Atoi(d)
		if n >= 1 && n <= 3 {
			return &n, ""
		}
	}
	switch {
	case contemPalavra(bruto, "baixa", "low"):
		n := 1
		return &n, ""
	case contemPalavra(bruto, "media", "média", "medium"):
		n := 2
		return &n, ""
	case contemPalavra(bruto, "alta", "high"):
		n := 3
		return &n, ""
	}
	return nil, bruto
}

func contemPalavra(s string, palavras ...string) bool {
	baixo := strings.ToLower(s)
	for _, p := range palavras {
		if strings.Contains(baixo, p) {
			return true
		}
	}
	return false
}

// NormalizarPlaca põe em maiúsculas, remove tudo que não é alfanumérico e,
// quando restam exatamente 7 caracteres, insere o hífen após o 3º. A função
// é idempotente.
func NormalizarPlaca(s string) string {
	limpa := regexNaoAlfanum.ReplaceAllString(strings.ToUpper(strings.TrimSpace(s)), "")
	if len(limpa) == 7 {
		return limpa[:3] + "-" + limpa[3:]
	}
	return limpa
}

// NormalizarDocumento mantém apenas os dígitos de um CPF/CNH.
func NormalizarDocumento(s string) string {
	return regexNaoDigito.ReplaceAllString(strings.TrimSpace(s), "")
}

// NormalizarLista divide em vírgulas, apara espaços e descarta segmentos
// vazios.
func NormalizarLista(s string) []string {
	var itens []string
	for _, parte := range strings.Split(s, ",") {
		if t := strings.TrimSpace(parte); t != "" {
			itens = append(itens, t)
		}
	}
	return itens
}

// internal/domain/models.go
package domain

import (
	"strings"
	"time"
)

// Valores possíveis de status_indicacao de um motorista.
const (
	IndicacaoIndicado    = "indicado"
	IndicacaoRetificado  = "retificado"
	IndicacaoNaoIndicado = "nao_indicado"
)

// Motorista representa um motorista cadastrado na frota.
type Motorista struct {
	ID                   string     `firestore:"-" json:"id"`
	Nome                 string     `firestore:"nome" json:"nome"`
	CPF                  string     `firestore:"cpf" json:"cpf"`
	CNH                  string     `firestore:"cnh" json:"cnh"`
	ValidadeCNH          *time.Time `firestore:"validade_cnh" json:"validade_cnh,omitempty"`
	DataCadastroOmnilink *time.Time `firestore:"data_cadastro_omnilink" json:"data_cadastro_omnilink,omitempty"`
	Telefone             string     `firestore:"telefone" json:"telefone,omitempty"`
	Transportadora       string     `firestore:"transportadora" json:"transportadora,omitempty"`
	StatusIndicacao      string     `firestore:"status_indicacao" json:"status_indicacao"`
	ReasonNaoIndicacao   string     `firestore:"reason_nao_indicacao" json:"reason_nao_indicacao,omitempty"`
	CriadoEm             time.Time  `firestore:"criado_em" json:"criado_em"`
}

// Veiculo representa um veículo cadastrado na frota.
// Prioridade e Bloqueador são pares "valor normalizado + texto original":
// quando a planilha traz um texto que não conseguimos interpretar, o valor
// fica nulo e o texto bruto é preservado para exibição.
type Veiculo struct {
	ID              string    `firestore:"-" json:"id"`
	Placa           string    `firestore:"placa" json:"placa"`
	Modelo          string    `firestore:"modelo" json:"modelo,omitempty"`
	Transportadora  string    `firestore:"transportadora" json:"transportadora,omitempty"`
	Tecnologias     []string  `firestore:"tecnologias" json:"tecnologias,omitempty"`
	Prioridade      *int      `firestore:"prioridade" json:"prioridade,omitempty"`
	PrioridadeTexto string    `firestore:"raw_priority_text" json:"raw_priority_text,omitempty"`
	Bloqueador      *bool     `firestore:"bloqueador" json:"bloqueador,omitempty"`
	BloqueadorTexto string    `firestore:"raw_blocker_text" json:"raw_blocker_text,omitempty"`
	CriadoEm        time.Time `firestore:"criado_em" json:"criado_em"`
}

// Tipos e status de uma ocorrência.
const (
	OcorrenciaRoubo    = "roubo"
	OcorrenciaAcidente = "acidente"
	OcorrenciaOutros   = "outros"

	OcorrenciaAberta      = "aberta"
	OcorrenciaEmAndamento = "em_andamento"
	OcorrenciaEncerrada   = "encerrada"
)

// Ocorrencia é um registro de sinistro (roubo de carga, acidente etc.).
type Ocorrencia struct {
	ID          string    `firestore:"-" json:"id"`
	Tipo        string    `firestore:"tipo" json:"tipo"`
	Status      string    `firestore:"status" json:"status"`
	Data        time.Time `firestore:"data" json:"data"`
	MotoristaID string    `firestore:"motorista_id" json:"motorista_id,omitempty"`
	VeiculoID   string    `firestore:"veiculo_id" json:"veiculo_id,omitempty"`
	Local       string    `firestore:"local" json:"local,omitempty"`
	Descricao   string    `firestore:"descricao" json:"descricao,omitempty"`
	AnexoURL    string    `firestore:"anexo_url" json:"anexo_url,omitempty"`
	CriadoEm    time.Time `firestore:"criado_em" json:"criado_em"`
}

// Candidato é um registro normalizado produzido pelo parser de importação,
// ainda não persistido. Campos guarda os valores tipados; Brutos preserva o
// texto original dos campos que têm forma normalizada e forma de exibição.
type Candidato struct {
	Campos map[string]any    `json:"campos"`
	Brutos map[string]string `json:"brutos,omitempty"`
}

// Texto devolve o valor de um campo como string (vazio quando ausente ou de
// outro tipo).
func (c Candidato) Texto(campo string) string {
	if v, ok := c.Campos[campo].(string); ok {
		return v
	}
	return ""
}

// StatusPendente é o único status persistido de uma pendência; a resolução
// sempre remove a linha.
const StatusPendente = "pending"

// PendenciaAprovacao embrulha um Candidato aguardando decisão de um
// administrador. Reason carrega as etiquetas de duplicidade separadas por
// ", "; OriginalRecordID aponta para o registro persistido conflitante e é
// vazio quando a duplicidade foi detectada dentro do próprio lote.
type PendenciaAprovacao struct {
	ID               string            `firestore:"-" json:"id"`
	Status           string            `firestore:"status" json:"status"`
	Reason           string            `firestore:"reason" json:"reason,omitempty"`
	OriginalRecordID string            `firestore:"original_record_id" json:"original_record_id,omitempty"`
	Campos           map[string]any    `firestore:"campos" json:"campos"`
	Brutos           map[string]string `firestore:"brutos" json:"brutos,omitempty"`
	CriadoEm         time.Time         `firestore:"criado_em" json:"criado_em"`
}

// Texto devolve o valor de um campo da pendência como string.
func (p PendenciaAprovacao) Texto(campo string) string {
	if v, ok := p.Campos[campo].(string); ok {
		return v
	}
	return ""
}

// EhDuplicataDeExistente informa se a pendência conflita com um registro já
// persistido (e portanto exige escolha explícita manter-existente/manter-novo).
func (p PendenciaAprovacao) EhDuplicataDeExistente() bool {
	return strings.TrimSpace(p.OriginalRecordID) != ""
}

// ResultadoLote resume uma operação em lote de melhor esforço: itens
// aplicados, itens pulados (duplicatas que exigem decisão humana) e os erros
// individuais acumulados. A falha de um item nunca aborta o restante.
type ResultadoLote struct {
	Aplicados    int      `json:"aplicados"`
	Ignorados    int      `json:"ignorados"`
	IgnoradosIDs []string `json:"ignorados_ids,omitempty"`
	Erros        []string `json:"erros,omitempty"`
}

// Layouts de data aceitos nas planilhas e formulários.
var layoutsData = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
	"02-01-2006",
	"2/1/2006",
}

// ParseData converte uma data em texto para *time.Time. Texto vazio ou
// inanalisável devolve nil — nunca erro, o chamador trata nil como
// "desconhecido".
func ParseData(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range layoutsData {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

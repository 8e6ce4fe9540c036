// internal/core/reconcile/service.go
package reconcile

import (
	"strings"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
)

// Chave é uma chave natural (campo + valor normalizado) usada na detecção de
// duplicidade. Para motoristas os campos são cpf e cnh (duplicata se
// qualquer um coincidir); para veículos, placa.
type Chave struct {
	Campo string
	Valor string
}

// Existente resume um registro já persistido: só o id e suas chaves naturais.
type Existente struct {
	ID     string
	Chaves []Chave
}

// Pendente é um candidato barrado pela detecção de duplicidade, ainda não
// persistido como PendenciaAprovacao. OriginalRecordID fica vazio quando a
// duplicidade é apenas interna ao lote.
type Pendente struct {
	Candidato        domain.Candidato
	Reason           string
	OriginalRecordID string
}

// Resultado divide o lote entre inserções diretas e pendências de aprovação.
type Resultado struct {
	Inserir    []domain.Candidato
	Pendencias []Pendente
}

// Service classifica cada candidato de um lote como inserção limpa,
// duplicata de registro existente ou duplicata dentro do próprio lote.
type Service interface {
	Reconciliar(candidatos []domain.Candidato, existentes []Existente, chavesNaturais []string) Resultado
}

type service struct{}

// NewService cria uma nova instância do motor de reconciliação.
func NewService() Service {
	return &service{}
}

// Reconciliar percorre os candidatos em ordem de entrada, em passada única.
// A assimetria é intencional e deve ser preservada: a primeira ocorrência de
// uma chave repetida dentro do lote é inserida; apenas as seguintes viram
// pendência com batch_duplicate_<campo>. Quando um candidato conflita ao
// mesmo tempo com um registro existente e com o lote, os motivos são
// concatenados com ", " e o id referenciado é o do registro existente.
func (s *service) Reconciliar(candidatos []domain.Candidato, existentes []Existente, chavesNaturais []string) Resultado {
	lookup := make(map[Chave]string)
	for _, ex := range existentes {
		for _, ch := range ex.Chaves {
			ch.Valor = normalizarValorChave(ch.Valor)
			if ch.Valor == "" {
				continue
			}
			if _, ok := lookup[ch]; !ok {
				lookup[ch] = ex.ID
			}
		}
	}

	vistos := make(map[Chave]bool)
	var res Resultado

	for _, cand := range candidatos {
		var motivos []string
		originalID := ""

		for _, campo := range chavesNaturais {
			valor := normalizarValorChave(cand.Texto(campo))
			if valor == "" {
				continue
			}
			ch := Chave{Campo: campo, Valor: valor}
			if id, ok := lookup[ch]; ok {
				motivos = append(motivos, "duplicate_"+campo)
				if originalID == "" {
					originalID = id
				}
			}
			if vistos[ch] {
				motivos = append(motivos, "batch_duplicate_"+campo)
			}
		}

		if len(motivos) == 0 {
			for _, campo := range chavesNaturais {
				valor := normalizarValorChave(cand.Texto(campo))
				if valor != "" {
					vistos[Chave{Campo: campo, Valor: valor}] = true
				}
			}
			res.Inserir = append(res.Inserir, cand)
			continue
		}

		res.Pendencias = append(res.Pendencias, Pendente{
			Candidato:        cand,
			Reason:           strings.Join(motivos, ", "),
			OriginalRecordID: originalID,
		})
	}

	return res
}

// ChavesDeCampos extrai as chaves naturais de um mapa de campos persistido,
// já normalizadas. Conveniência para montar []Existente a partir da store.
func ChavesDeCampos(campos map[string]string, chavesNaturais []string) []Chave {
	var chaves []Chave
	for _, campo := range chavesNaturais {
		if v := normalizarValorChave(campos[campo]); v != "" {
			chaves = append(chaves, Chave{Campo: campo, Valor: v})
		}
	}
	return chaves
}

func normalizarValorChave(v string) string {
	return strings.ToUpper(strings.TrimSpace(v))
}

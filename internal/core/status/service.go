// internal/core/status/service.go
package status

import (
	"fmt"
	"time"
)

// Status derivados exibidos nos painéis. A CNH usa o trio
// valido/prest_vencer/vencido; o score Omnilink usa em_dia/prest_vencer/
// vencido. Datas ausentes ou inanalisáveis viram "desconhecido".
const (
	CNHValida      = "valido"
	CNHPrestVencer = "prest_vencer"
	CNHVencida     = "vencido"

	OmnilinkEmDia       = "em_dia"
	OmnilinkPrestVencer = "prest_vencer"
	OmnilinkVencido     = "vencido"

	Desconhecido = "desconhecido"
)

// Janela de alerta antes do vencimento, regra de negócio fixa.
const mesesJanelaAlerta = 3

// Classificacao é o resultado derivado de uma data de validade. DiasDiferenca
// e MesesDiferenca são assinados: negativos quando a validade já passou.
type Classificacao struct {
	Status         string     `json:"status"`
	Mensagem       string     `json:"mensagem"`
	Validade       *time.Time `json:"validade,omitempty"`
	DiasDiferenca  *int       `json:"dias_diferenca,omitempty"`
	MesesDiferenca *int       `json:"meses_diferenca,omitempty"`
}

// Service classifica datas de conformidade. Funções puras de (data, hoje):
// sem I/O, chamáveis a cada renderização.
type Service interface {
	ClassificarCNH(validade *time.Time, hoje time.Time) Classificacao
	ClassificarOmnilink(dataCadastro *time.Time, hoje time.Time) Classificacao
}

type service struct{}

// NewService cria uma nova instância do classificador de status.
func NewService() Service {
	return &service{}
}

func (s *service) ClassificarCNH(validade *time.Time, hoje time.Time) Classificacao {
	if validade == nil {
		return Classificacao{Status: Desconhecido, Mensagem: "Validade da CNH não informada"}
	}

	venc := truncarDia(*validade)
	dia := truncarDia(hoje)
	dias := diasEntre(dia, venc)
	meses := mesesEntre(dia, venc)

	c := Classificacao{Validade: &venc, DiasDiferenca: &dias, MesesDiferenca: &meses}
	switch {
	case venc.Before(dia):
		c.Status = CNHVencida
		c.Mensagem = fmt.Sprintf("CNH vencida há %d dias", -dias)
	case !venc.After(dia.AddDate(0, mesesJanelaAlerta, 0)):
		c.Status = CNHPrestVencer
		c.Mensagem = fmt.Sprintf("CNH vence em %d dias", dias)
	default:
		c.Status = CNHValida
		c.Mensagem = "CNH em dia"
	}
	return c
}

// ClassificarOmnilink deriva a validade do score como cadastro + 1 ano (regra
// fixa do credenciamento) e aplica a mesma janela de 3 meses. A mensagem
// sempre informa a diferença exata em dias e meses.
func (s *service) ClassificarOmnilink(dataCadastro *time.Time, hoje time.Time) Classificacao {
	if dataCadastro == nil {
		return Classificacao{Status: Desconhecido, Mensagem: "Data de cadastro Omnilink não informada"}
	}

	venc := truncarDia(dataCadastro.AddDate(1, 0, 0))
	dia := truncarDia(hoje)
	dias := diasEntre(dia, venc)
	meses := mesesEntre(dia, venc)

	c := Classificacao{Validade: &venc, DiasDiferenca: &dias, MesesDiferenca: &meses}
	switch {
	case venc.Before(dia):
		c.Status = OmnilinkVencido
		c.Mensagem = fmt.Sprintf("Omnilink vencido há %d dias (%d meses)", -dias, -meses)
	case !venc.After(dia.AddDate(0, mesesJanelaAlerta, 0)):
		c.Status = OmnilinkPrestVencer
		c.Mensagem = fmt.Sprintf("Omnilink vence em %d dias (%d meses)", dias, meses)
	default:
		c.Status = OmnilinkEmDia
		c.Mensagem = fmt.Sprintf("Omnilink em dia, vence em %d dias (%d meses)", dias, meses)
	}
	return c
}

func truncarDia(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func diasEntre(de, ate time.Time) int {
	return int(ate.Sub(de).Hours() / 24)
}

// mesesEntre conta meses de calendário completos entre duas datas, com sinal.
func mesesEntre(de, ate time.Time) int {
	invertido := false
	if ate.Before(de) {
		de, ate = ate, de
		invertido = true
	}
	meses := (ate.Year()-de.Year())*12 + int(ate.Month()) - int(de.Month())
	if ate.Day() < de.Day() {
		meses--
	}
	if invertido {
		return -meses
	}
	return meses
}

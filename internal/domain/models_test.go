// internal/domain/models_test.go
package domain

import (
	"testing"
	"time"
)

func TestParseData(t *testing.T) {
	casos := []struct {
		entrada string
		quer    *time.Time
	}{
		{"2026-12-31", ptrData(2026, 12, 31)},
		{"31/12/2026", ptrData(2026, 12, 31)},
		{"31-12-2026", ptrData(2026, 12, 31)},
		{"5/1/2026", ptrData(2026, 1, 5)},
		{" 31/12/2026 ", ptrData(2026, 12, 31)},
		{"", nil},
		{"amanhã", nil},
		{"31/02/2026", nil},
	}
	for _, c := range casos {
		t.Run(c.entrada, func(t *testing.T) {
			got := ParseData(c.entrada)
			if (got == nil) != (c.quer == nil) {
				t.Fatalf("ParseData(%q) = %v, esperava %v", c.entrada, got, c.quer)
			}
			if got != nil && !got.Equal(*c.quer) {
				t.Errorf("ParseData(%q) = %v, esperava %v", c.entrada, got, c.quer)
			}
		})
	}
}

func TestConversaoVeiculoIdaEVolta(t *testing.T) {
	prioridade := 2
	v := Veiculo{
		Placa:           "ABC-1234",
		Modelo:          "Scania R450",
		Tecnologias:     []string{"Omnilink", "Sascar"},
		Prioridade:      &prioridade,
		BloqueadorTexto: "Talvez",
	}

	cand := CamposDeVeiculo(v)
	volta := VeiculoDeCampos(cand.Campos, cand.Brutos)

	if volta.Placa != v.Placa || volta.Modelo != v.Modelo {
		t.Errorf("campos de texto perdidos: %+v", volta)
	}
	if volta.Prioridade == nil || *volta.Prioridade != 2 {
		t.Errorf("prioridade perdida: %v", volta.Prioridade)
	}
	if volta.Bloqueador != nil {
		t.Error("bloqueador sem valor normalizado deveria continuar nulo")
	}
	if volta.BloqueadorTexto != "Talvez" {
		t.Errorf("texto bruto do bloqueador perdido: %q", volta.BloqueadorTexto)
	}
}

func TestMotoristaDeCampos(t *testing.T) {
	validade := time.Date(2026, time.December, 31, 0, 0, 0, 0, time.UTC)
	m := MotoristaDeCampos(map[string]any{
		"nome":         "Ana",
		"cpf":          "111",
		"cnh":          "A1",
		"validade_cnh": validade,
	})

	if m.Nome != "Ana" || m.CPF != "111" {
		t.Errorf("campos básicos perdidos: %+v", m)
	}
	if m.ValidadeCNH == nil || !m.ValidadeCNH.Equal(validade) {
		t.Errorf("validade perdida: %v", m.ValidadeCNH)
	}
	if m.StatusIndicacao != IndicacaoNaoIndicado {
		t.Errorf("indicação deveria nascer nao_indicado, obteve %q", m.StatusIndicacao)
	}
}

func ptrData(ano, mes, dia int) *time.Time {
	t := time.Date(ano, time.Month(mes), dia, 0, 0, 0, 0, time.UTC)
	return &t
}

// internal/core/reconcile/service_test.go
package reconcile

import (
	"testing"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
)

var chavesMotorista = []string{"cpf", "cnh"}

func candidato(nome, cpf, cnh string) domain.Candidato {
	return domain.Candidato{Campos: map[string]any{"nome": nome, "cpf": cpf, "cnh": cnh}}
}

func TestReconciliar(t *testing.T) {
	svc := NewService()

	t.Run("lote limpo insere tudo na ordem", func(t *testing.T) {
		res := svc.Reconciliar([]domain.Candidato{
			candidato("Ana", "111", "A1"),
			candidato("Bia", "222", "B2"),
		}, nil, chavesMotorista)

		if len(res.Inserir) != 2 || len(res.Pendencias) != 0 {
			t.Fatalf("esperava 2 inserções e 0 pendências, obteve %d e %d", len(res.Inserir), len(res.Pendencias))
		}
		if res.Inserir[0].Texto("nome") != "Ana" || res.Inserir[1].Texto("nome") != "Bia" {
			t.Error("ordem de entrada não foi preservada")
		}
	})

	t.Run("conflito com existente vira pendência com o id original", func(t *testing.T) {
		existentes := []Existente{
			{ID: "reg-1", Chaves: []Chave{{Campo: "cpf", Valor: "111"}, {Campo: "cnh", Valor: "A1"}}},
		}
		res := svc.Reconciliar([]domain.Candidato{candidato("Ana", "111", "ZZ")}, existentes, chavesMotorista)

		if len(res.Pendencias) != 1 {
			t.Fatalf("esperava 1 pendência, obteve %d", len(res.Pendencias))
		}
		p := res.Pendencias[0]
		if p.Reason != "duplicate_cpf" {
			t.Errorf("esperava reason duplicate_cpf, obteve %q", p.Reason)
		}
		if p.OriginalRecordID != "reg-1" {
			t.Errorf("esperava referência a reg-1, obteve %q", p.OriginalRecordID)
		}
	})

	t.Run("primeira ocorrência no lote insere, repetição vira pendência", func(t *testing.T) {
		res := svc.Reconciliar([]domain.Candidato{
			candidato("Ana", "111", "A1"),
			candidato("Bia", "222", "B2"),
			candidato("Ana de novo", "111", "C3"),
		}, nil, chavesMotorista)

		if len(res.Inserir) != 2 {
			t.Fatalf("esperava 2 inserções, obteve %d", len(res.Inserir))
		}
		if len(res.Pendencias) != 1 {
			t.Fatalf("esperava 1 pendência, obteve %d", len(res.Pendencias))
		}
		p := res.Pendencias[0]
		if p.Reason != "batch_duplicate_cpf" {
			t.Errorf("esperava reason batch_duplicate_cpf, obteve %q", p.Reason)
		}
		if p.OriginalRecordID != "" {
			t.Errorf("duplicata interna ao lote não referencia registro, obteve %q", p.OriginalRecordID)
		}
	})

	t.Run("candidato barrado não reserva chave no lote", func(t *testing.T) {
		existentes := []Existente{
			{ID: "reg-1", Chaves: []Chave{{Campo: "cpf", Valor: "111"}}},
		}
		// O primeiro conflita com o existente e vira pendência; o segundo usa
		// a mesma cnh do primeiro, mas como o primeiro não entrou, a cnh está
		// livre.
		res := svc.Reconciliar([]domain.Candidato{
			candidato("Ana", "111", "A1"),
			candidato("Bia", "222", "A1"),
		}, existentes, chavesMotorista)

		if len(res.Inserir) != 1 || res.Inserir[0].Texto("nome") != "Bia" {
			t.Fatalf("esperava apenas Bia inserida, obteve %+v", res.Inserir)
		}
		if len(res.Pendencias) != 1 || res.Pendencias[0].Reason != "duplicate_cpf" {
			t.Fatalf("esperava pendência duplicate_cpf para Ana, obteve %+v", res.Pendencias)
		}
	})

	t.Run("conflito simultâneo concatena motivos", func(t *testing.T) {
		existentes := []Existente{
			{ID: "reg-1", Chaves: []Chave{{Campo: "cpf", Valor: "111"}}},
		}
		res := svc.Reconciliar([]domain.Candidato{
			candidato("Ana", "333", "A1"),
			candidato("Bia", "111", "A1"),
		}, existentes, chavesMotorista)

		if len(res.Pendencias) != 1 {
			t.Fatalf("esperava 1 pendência, obteve %d", len(res.Pendencias))
		}
		p := res.Pendencias[0]
		if p.Reason != "duplicate_cpf, batch_duplicate_cnh" {
			t.Errorf("esperava motivos concatenados na ordem das chaves, obteve %q", p.Reason)
		}
		if p.OriginalRecordID != "reg-1" {
			t.Errorf("referência deve apontar para o registro existente, obteve %q", p.OriginalRecordID)
		}
	})

	t.Run("comparação ignora caixa e espaços", func(t *testing.T) {
		existentes := []Existente{
			{ID: "reg-1", Chaves: []Chave{{Campo: "cnh", Valor: "a1"}}},
		}
		res := svc.Reconciliar([]domain.Candidato{candidato("Ana", "999", " A1 ")}, existentes, chavesMotorista)
		if len(res.Pendencias) != 1 || res.Pendencias[0].Reason != "duplicate_cnh" {
			t.Fatalf("esperava duplicate_cnh após normalização, obteve %+v", res.Pendencias)
		}
	})

	t.Run("chave vazia não conta como duplicata", func(t *testing.T) {
		res := svc.Reconciliar([]domain.Candidato{
			candidato("Ana", "", "A1"),
			candidato("Bia", "", "B2"),
		}, nil, chavesMotorista)
		if len(res.Inserir) != 2 {
			t.Fatalf("cpf vazio não deve colidir, obteve %d inserções", len(res.Inserir))
		}
	})
}

func TestChavesDeCampos(t *testing.T) {
	chaves := ChavesDeCampos(map[string]string{"cpf": " 111 ", "cnh": ""}, chavesMotorista)
	if len(chaves) != 1 {
		t.Fatalf("esperava 1 chave, obteve %d", len(chaves))
	}
	if chaves[0] != (Chave{Campo: "cpf", Valor: "111"}) {
		t.Errorf("chave inesperada: %+v", chaves[0])
	}
}

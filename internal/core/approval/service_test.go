// internal/core/approval/service_test.go
package approval

import (
	"context"
	"errors"
	"testing"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store/memstore"
)

var chavesVeiculo = []string{"placa"}

func novaPendencia(ctx context.Context, t *testing.T, pendencias *memstore.Pendencias, reason, originalID string, campos map[string]any) string {
	t.Helper()
	id, err := pendencias.Criar(ctx, domain.PendenciaAprovacao{
		Status:           domain.StatusPendente,
		Reason:           reason,
		OriginalRecordID: originalID,
		Campos:           campos,
	})
	if err != nil {
		t.Fatal(err)
	}
	return id
}

func TestRejeitar(t *testing.T) {
	ctx := context.Background()
	registros := memstore.NovosRegistros(chavesVeiculo)
	pendencias := memstore.NovasPendencias()
	svc := NewService(registros, pendencias)

	id := novaPendencia(ctx, t, pendencias, "batch_duplicate_placa", "", map[string]any{"placa": "ABC-1234"})

	if err := svc.Rejeitar(ctx, id); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if _, err := pendencias.Buscar(ctx, id); !errors.Is(err, store.ErrNaoEncontrado) {
		t.Error("pendência rejeitada deveria ter sumido")
	}

	t.Run("rejeitar duas vezes falha", func(t *testing.T) {
		if err := svc.Rejeitar(ctx, id); !errors.Is(err, store.ErrNaoEncontrado) {
			t.Errorf("esperava ErrNaoEncontrado, obteve %v", err)
		}
	})
}

func TestAprovarAvulso(t *testing.T) {
	ctx := context.Background()

	t.Run("pendência sem referência vira registro novo", func(t *testing.T) {
		registros := memstore.NovosRegistros(chavesVeiculo)
		pendencias := memstore.NovasPendencias()
		svc := NewService(registros, pendencias)

		id := novaPendencia(ctx, t, pendencias, "batch_duplicate_placa", "", map[string]any{"placa": "ABC-1234", "modelo": "Scania"})

		novoID, err := svc.AprovarAvulso(ctx, id)
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		campos, err := registros.Buscar(ctx, novoID)
		if err != nil {
			t.Fatalf("registro aprovado não encontrado: %v", err)
		}
		if campos["modelo"] != "Scania" {
			t.Errorf("campos não preservados: %v", campos)
		}
		if _, err := pendencias.Buscar(ctx, id); !errors.Is(err, store.ErrNaoEncontrado) {
			t.Error("pendência aprovada deveria ter sumido")
		}
	})

	t.Run("duplicata verdadeira é recusada", func(t *testing.T) {
		registros := memstore.NovosRegistros(chavesVeiculo)
		pendencias := memstore.NovasPendencias()
		svc := NewService(registros, pendencias)

		origID, _ := registros.InserirCampos(ctx, map[string]any{"placa": "ABC-1234"}, nil)
		id := novaPendencia(ctx, t, pendencias, "duplicate_placa", origID, map[string]any{"placa": "ABC-1234"})

		if _, err := svc.AprovarAvulso(ctx, id); !errors.Is(err, ErrDuplicataRequerEscolha) {
			t.Errorf("esperava ErrDuplicataRequerEscolha, obteve %v", err)
		}
		if _, err := pendencias.Buscar(ctx, id); err != nil {
			t.Error("pendência recusada deve continuar intacta")
		}
	})
}

func TestResolverDuplicata(t *testing.T) {
	ctx := context.Background()

	t.Run("keep_existing só remove a pendência", func(t *testing.T) {
		registros := memstore.NovosRegistros(chavesVeiculo)
		pendencias := memstore.NovasPendencias()
		svc := NewService(registros, pendencias)

		origID, _ := registros.InserirCampos(ctx, map[string]any{"placa": "ABC-1234", "modelo": "Scania"}, nil)
		id := novaPendencia(ctx, t, pendencias, "duplicate_placa", origID, map[string]any{"placa": "ABC-1234", "modelo": "Volvo"})

		if err := svc.ResolverDuplicata(ctx, id, ManterExistente); err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		campos, _ := registros.Buscar(ctx, origID)
		if campos["modelo"] != "Scania" {
			t.Errorf("keep_existing não pode alterar o registro, obteve %v", campos)
		}
		if _, err := pendencias.Buscar(ctx, id); !errors.Is(err, store.ErrNaoEncontrado) {
			t.Error("pendência resolvida deveria ter sumido")
		}
	})

	t.Run("keep_new sobrescreve preservando o id", func(t *testing.T) {
		registros := memstore.NovosRegistros(chavesVeiculo)
		pendencias := memstore.NovasPendencias()
		svc := NewService(registros, pendencias)

		origID, _ := registros.InserirCampos(ctx, map[string]any{"placa": "ABC-1234", "modelo": "Scania"}, nil)
		id := novaPendencia(ctx, t, pendencias, "duplicate_placa", origID, map[string]any{"placa": "ABC-1234", "modelo": "Volvo"})

		if err := svc.ResolverDuplicata(ctx, id, ManterNovo); err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		campos, err := registros.Buscar(ctx, origID)
		if err != nil {
			t.Fatalf("registro original sumiu: %v", err)
		}
		if campos["modelo"] != "Volvo" {
			t.Errorf("keep_new deveria sobrescrever os campos, obteve %v", campos)
		}
	})

	t.Run("pendência sem referência é recusada", func(t *testing.T) {
		registros := memstore.NovosRegistros(chavesVeiculo)
		pendencias := memstore.NovasPendencias()
		svc := NewService(registros, pendencias)

		id := novaPendencia(ctx, t, pendencias, "batch_duplicate_placa", "", map[string]any{"placa": "ABC-1234"})

		if err := svc.ResolverDuplicata(ctx, id, ManterNovo); !errors.Is(err, ErrNaoEhDuplicata) {
			t.Errorf("esperava ErrNaoEhDuplicata, obteve %v", err)
		}
	})

	t.Run("referência quebrada falha fechada", func(t *testing.T) {
		registros := memstore.NovosRegistros(chavesVeiculo)
		pendencias := memstore.NovasPendencias()
		svc := NewService(registros, pendencias)

		id := novaPendencia(ctx, t, pendencias, "duplicate_placa", "nao-existe", map[string]any{"placa": "ABC-1234"})

		if err := svc.ResolverDuplicata(ctx, id, ManterNovo); !errors.Is(err, ErrReferenciaInvalida) {
			t.Errorf("esperava ErrReferenciaInvalida, obteve %v", err)
		}
		if _, err := pendencias.Buscar(ctx, id); err != nil {
			t.Error("falha fechada não pode remover a pendência")
		}
	})
}

func TestAprovarEmLote(t *testing.T) {
	ctx := context.Background()
	registros := memstore.NovosRegistros(chavesVeiculo)
	pendencias := memstore.NovasPendencias()
	svc := NewService(registros, pendencias)

	origID, _ := registros.InserirCampos(ctx, map[string]any{"placa": "ABC-1234"}, nil)
	limpa1 := novaPendencia(ctx, t, pendencias, "batch_duplicate_placa", "", map[string]any{"placa": "DEF-5678"})
	duplicata := novaPendencia(ctx, t, pendencias, "duplicate_placa", origID, map[string]any{"placa": "ABC-1234"})
	limpa2 := novaPendencia(ctx, t, pendencias, "batch_duplicate_placa", "", map[string]any{"placa": "GHI-9012"})

	res := svc.AprovarEmLote(ctx, []string{limpa1, duplicata, limpa2, "fantasma"})

	if res.Aplicados != 2 {
		t.Errorf("esperava 2 aplicados, obteve %d", res.Aplicados)
	}
	if res.Ignorados != 1 || len(res.IgnoradosIDs) != 1 || res.IgnoradosIDs[0] != duplicata {
		t.Errorf("duplicata deveria ser pulada com id reportado, obteve %+v", res)
	}
	if len(res.Erros) != 1 {
		t.Errorf("id inexistente deveria acumular erro, obteve %v", res.Erros)
	}
	if _, err := pendencias.Buscar(ctx, duplicata); err != nil {
		t.Error("duplicata pulada deve continuar pendente")
	}
}

func TestRejeitarEmLote(t *testing.T) {
	ctx := context.Background()
	registros := memstore.NovosRegistros(chavesVeiculo)
	pendencias := memstore.NovasPendencias()
	svc := NewService(registros, pendencias)

	origID, _ := registros.InserirCampos(ctx, map[string]any{"placa": "ABC-1234"}, nil)
	a := novaPendencia(ctx, t, pendencias, "batch_duplicate_placa", "", map[string]any{"placa": "DEF-5678"})
	b := novaPendencia(ctx, t, pendencias, "duplicate_placa", origID, map[string]any{"placa": "ABC-1234"})

	res := svc.RejeitarEmLote(ctx, []string{a, b, "fantasma"})

	if res.Aplicados != 2 {
		t.Errorf("rejeição em lote não pula duplicatas, esperava 2, obteve %d", res.Aplicados)
	}
	if len(res.Erros) != 1 {
		t.Errorf("esperava 1 erro para o id inexistente, obteve %v", res.Erros)
	}
	if _, err := registros.Buscar(ctx, origID); err != nil {
		t.Error("rejeitar não pode tocar nos registros persistidos")
	}
}

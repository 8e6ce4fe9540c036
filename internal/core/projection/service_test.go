// internal/core/projection/service_test.go
package projection

import (
	"reflect"
	"testing"
)

func registrado(id, chave string) Item {
	return Item{ID: id, Tipo: Registrado, ChaveExibicao: chave, Campos: map[string]any{}}
}

func pendente(id, chave, reason, originalID string) Item {
	return Item{ID: id, Tipo: Pendente, ChaveExibicao: chave, Reason: reason, OriginalRecordID: originalID, Campos: map[string]any{}}
}

func ids(itens []Item) []string {
	var saida []string
	for _, i := range itens {
		saida = append(saida, i.ID)
	}
	return saida
}

func TestProjetar(t *testing.T) {
	svc := NewService()

	t.Run("duplicata aninha logo abaixo do registro original", func(t *testing.T) {
		regs := []Item{registrado("r2", "Carlos"), registrado("r1", "Ana")}
		pends := []Item{
			pendente("p1", "Ana Paula", "duplicate_cpf", "r1"),
			pendente("p2", "Zeca", "batch_duplicate_cpf", ""),
		}

		saida := svc.Projetar(regs, pends)
		quer := []string{"r1", "p1", "r2", "p2"}
		if !reflect.DeepEqual(ids(saida), quer) {
			t.Errorf("ordem esperada %v, obteve %v", quer, ids(saida))
		}
	})

	t.Run("tamanho é registros mais pendências", func(t *testing.T) {
		regs := []Item{registrado("r1", "Ana"), registrado("r2", "Bia")}
		pends := []Item{
			pendente("p1", "Ana 2", "duplicate_cpf", "r1"),
			pendente("p2", "Ana 3", "duplicate_cpf", "r1"),
			pendente("p3", "Caio", "batch_duplicate_cpf", ""),
		}
		saida := svc.Projetar(regs, pends)
		if len(saida) != 5 {
			t.Errorf("esperava 5 itens, obteve %d", len(saida))
		}
	})

	t.Run("ordenação ignora acentos e maiúsculas", func(t *testing.T) {
		regs := []Item{registrado("r1", "Édson"), registrado("r2", "carla"), registrado("r3", "Bruno")}
		saida := svc.Projetar(regs, nil)
		quer := []string{"r3", "r2", "r1"}
		if !reflect.DeepEqual(ids(saida), quer) {
			t.Errorf("ordem esperada %v, obteve %v", quer, ids(saida))
		}
	})

	t.Run("referência quebrada vai para o final", func(t *testing.T) {
		regs := []Item{registrado("r1", "Ana")}
		pends := []Item{pendente("p1", "Bia", "duplicate_cpf", "sumiu")}
		saida := svc.Projetar(regs, pends)
		quer := []string{"r1", "p1"}
		if !reflect.DeepEqual(ids(saida), quer) {
			t.Errorf("ordem esperada %v, obteve %v", quer, ids(saida))
		}
	})

	t.Run("mesma entrada produz a mesma saída", func(t *testing.T) {
		regs := []Item{registrado("r1", "Ana"), registrado("r2", "ana")}
		pends := []Item{pendente("p1", "x", "duplicate_cpf", "r2"), pendente("p2", "y", "", "")}
		a := svc.Projetar(regs, pends)
		b := svc.Projetar(regs, pends)
		if !reflect.DeepEqual(ids(a), ids(b)) {
			t.Errorf("projeção não é determinística: %v vs %v", ids(a), ids(b))
		}
	})
}

func TestAplicarVisao(t *testing.T) {
	svc := NewService()

	base := []Item{
		{ID: "r1", Tipo: Registrado, ChaveExibicao: "Ana", Campos: map[string]any{"transportadora": "Alfa", "prioridade": 2, "nome": "Ana"}},
		{ID: "p1", Tipo: Pendente, ChaveExibicao: "Ana Paula", Reason: "duplicate_cpf", OriginalRecordID: "r1", Campos: map[string]any{"transportadora": "Beta", "nome": "Ana Paula"}},
		{ID: "r2", Tipo: Registrado, ChaveExibicao: "Caio", Campos: map[string]any{"transportadora": "Alfa", "prioridade": 10, "nome": "Caio"}},
		{ID: "p2", Tipo: Pendente, ChaveExibicao: "Zeca", Reason: "batch_duplicate_cpf", Campos: map[string]any{"transportadora": "Gama", "nome": "Zeca"}},
	}

	t.Run("categoria registrados", func(t *testing.T) {
		saida := svc.AplicarVisao(base, ViewState{Categoria: CategoriaRegistrados})
		if !reflect.DeepEqual(ids(saida), []string{"r1", "r2"}) {
			t.Errorf("obteve %v", ids(saida))
		}
	})

	t.Run("categoria duplicatas exige reason", func(t *testing.T) {
		saida := svc.AplicarVisao(base, ViewState{Categoria: CategoriaDuplicatas})
		if !reflect.DeepEqual(ids(saida), []string{"p1", "p2"}) {
			t.Errorf("obteve %v", ids(saida))
		}
	})

	t.Run("categoria selecionados restringe aos ids marcados", func(t *testing.T) {
		saida := svc.AplicarVisao(base, ViewState{
			Categoria:    CategoriaSelecionados,
			Selecionados: map[string]bool{"r2": true, "p2": true},
		})
		if !reflect.DeepEqual(ids(saida), []string{"r2", "p2"}) {
			t.Errorf("obteve %v", ids(saida))
		}
	})

	t.Run("categoria selecionados sem ids devolve lista vazia", func(t *testing.T) {
		if saida := svc.AplicarVisao(base, ViewState{Categoria: CategoriaSelecionados}); len(saida) != 0 {
			t.Errorf("obteve %v, esperado vazio", ids(saida))
		}
	})

	t.Run("filtro por campo é igualdade exata", func(t *testing.T) {
		saida := svc.AplicarVisao(base, ViewState{FiltroCampo: "transportadora", FiltroValor: "Alfa"})
		if !reflect.DeepEqual(ids(saida), []string{"r1", "r2"}) {
			t.Errorf("obteve %v", ids(saida))
		}
	})

	t.Run("busca por substring sem acentos", func(t *testing.T) {
		saida := svc.AplicarVisao(base, ViewState{Busca: "ANA", CamposBusca: []string{"nome"}})
		if !reflect.DeepEqual(ids(saida), []string{"r1", "p1"}) {
			t.Errorf("obteve %v", ids(saida))
		}
	})

	t.Run("ordenação numérica não é lexicográfica", func(t *testing.T) {
		saida := svc.AplicarVisao(base, ViewState{Categoria: CategoriaRegistrados, OrdenarPor: "prioridade", Direcao: Descendente})
		// Lexicograficamente "2" > "10"; numericamente 10 > 2.
		if !reflect.DeepEqual(ids(saida), []string{"r2", "r1"}) {
			t.Errorf("obteve %v", ids(saida))
		}
	})

	t.Run("entrada não é modificada", func(t *testing.T) {
		antes := ids(base)
		svc.AplicarVisao(base, ViewState{Categoria: CategoriaPendentes, OrdenarPor: "nome", Direcao: Descendente})
		if !reflect.DeepEqual(ids(base), antes) {
			t.Error("AplicarVisao alterou a lista de entrada")
		}
	})
}

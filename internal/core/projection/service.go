// internal/core/projection/service.go
package projection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TipoItem distingue registros persistidos de pendências na lista combinada.
type TipoItem string

const (
	Registrado TipoItem = "registrado"
	Pendente   TipoItem = "pendente"
)

// Item é uma linha da lista combinada. ChaveExibicao é o campo natural de
// ordenação (nome do motorista, placa do veículo).
type Item struct {
	ID               string         `json:"id"`
	Tipo             TipoItem       `json:"tipo"`
	ChaveExibicao    string         `json:"chave_exibicao"`
	Reason           string         `json:"reason,omitempty"`
	OriginalRecordID string         `json:"original_record_id,omitempty"`
	Campos           map[string]any `json:"campos"`
}

// Categoria de filtragem da lista combinada.
type Categoria string

const (
	CategoriaTodos        Categoria = "todos"
	CategoriaRegistrados  Categoria = "registrados"
	CategoriaPendentes    Categoria = "pendentes"
	CategoriaDuplicatas   Categoria = "duplicatas"
	CategoriaSelecionados Categoria = "selecionados"
)

// Direcao de ordenação.
type Direcao string

const (
	Ascendente  Direcao = "asc"
	Descendente Direcao = "desc"
)

// ViewState concentra todo o estado de visualização de uma lista: termo de
// busca, categoria, filtro por campo, coluna e direção de ordenação e ids
// selecionados (consultados pela CategoriaSelecionados, base das ações em
// lote). É passado explicitamente à projeção, nunca guardado em estado
// implícito.
type ViewState struct {
	Busca        string          `json:"busca"`
	CamposBusca  []string        `json:"campos_busca"`
	Categoria    Categoria       `json:"categoria"`
	FiltroCampo  string          `json:"filtro_campo"`
	FiltroValor  string          `json:"filtro_valor"`
	OrdenarPor   string          `json:"ordenar_por"`
	Direcao      Direcao         `json:"direcao"`
	Selecionados map[string]bool `json:"selecionados,omitempty"`
}

// Service monta a lista combinada de registros e pendências e aplica filtros
// e ordenação de forma não destrutiva.
type Service interface {
	Projetar(registrados, pendentes []Item) []Item
	AplicarVisao(itens []Item, v ViewState) []Item
}

type service struct{}

// NewService cria uma nova instância do projetor de listas.
func NewService() Service {
	return &service{}
}

// Projetar ordena os registros persistidos pela chave de exibição (sem
// distinção de maiúsculas ou acentos), encaixa cada pendência duplicata
// imediatamente abaixo do registro original e anexa ao final as pendências
// sem referência (duplicatas internas de lote), também ordenadas. O
// resultado é estável: entradas iguais repetem a mesma saída.
func (s *service) Projetar(registrados, pendentes []Item) []Item {
	regs := make([]Item, len(registrados))
	copy(regs, registrados)
	sort.SliceStable(regs, func(i, j int) bool {
		return chaveOrdenacao(regs[i]) < chaveOrdenacao(regs[j])
	})

	porOriginal := make(map[string][]Item)
	var soltas []Item
	for _, p := range pendentes {
		if p.OriginalRecordID != "" {
			porOriginal[p.OriginalRecordID] = append(porOriginal[p.OriginalRecordID], p)
		} else {
			soltas = append(soltas, p)
		}
	}
	for id := range porOriginal {
		grupo := porOriginal[id]
		sort.SliceStable(grupo, func(i, j int) bool {
			return chaveOrdenacao(grupo[i]) < chaveOrdenacao(grupo[j])
		})
		porOriginal[id] = grupo
	}
	sort.SliceStable(soltas, func(i, j int) bool {
		return chaveOrdenacao(soltas[i]) < chaveOrdenacao(soltas[j])
	})

	saida := make([]Item, 0, len(regs)+len(pendentes))
	aninhadas := make(map[string]bool)
	for _, r := range regs {
		saida = append(saida, r)
		for _, p := range porOriginal[r.ID] {
			saida = append(saida, p)
			aninhadas[p.ID] = true
		}
	}
	// Pendências cuja referência não está na lista persistida (referência
	// quebrada) não podem ser aninhadas; vão para o final junto das soltas.
	var cauda []Item
	for _, grupo := range porOriginal {
		for _, p := range grupo {
			if !aninhadas[p.ID] {
				cauda = append(cauda, p)
			}
		}
	}
	cauda = append(cauda, soltas...)
	sort.SliceStable(cauda, func(i, j int) bool {
		return chaveOrdenacao(cauda[i]) < chaveOrdenacao(cauda[j])
	})
	return append(saida, cauda...)
}

// AplicarVisao filtra e ordena a lista projetada conforme o ViewState, sem
// modificar a entrada.
func (s *service) AplicarVisao(itens []Item, v ViewState) []Item {
	saida := make([]Item, 0, len(itens))
	busca := dobrarTexto(v.Busca)
	for _, item := range itens {
		if !categoriaAceita(item, v) {
			continue
		}
		if v.FiltroCampo != "" && v.FiltroValor != "" {
			if valorTexto(item, v.FiltroCampo) != v.FiltroValor {
				continue
			}
		}
		if busca != "" && !buscaAceita(item, busca, v.CamposBusca) {
			continue
		}
		saida = append(saida, item)
	}

	if v.OrdenarPor != "" {
		sort.SliceStable(saida, func(i, j int) bool {
			menor := comparar(saida[i], saida[j], v.OrdenarPor)
			if v.Direcao == Descendente {
				return !menor && !iguais(saida[i], saida[j], v.OrdenarPor)
			}
			return menor
		})
	}
	return saida
}

func categoriaAceita(item Item, v ViewState) bool {
	switch v.Categoria {
	case CategoriaRegistrados:
		return item.Tipo == Registrado
	case CategoriaPendentes:
		return item.Tipo == Pendente
	case CategoriaDuplicatas:
		return item.Tipo == Pendente && item.Reason != ""
	case CategoriaSelecionados:
		return v.Selecionados[item.ID]
	default:
		return true
	}
}

func buscaAceita(item Item, busca string, campos []string) bool {
	if len(campos) == 0 {
		return strings.Contains(dobrarTexto(item.ChaveExibicao), busca)
	}
	for _, campo := range campos {
		if strings.Contains(dobrarTexto(valorTexto(item, campo)), busca) {
			return true
		}
	}
	return false
}

func valorTexto(item Item, campo string) string {
	v, ok := item.Campos[campo]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// comparar decide a precedência pelo campo: comparação numérica quando os
// dois valores são números, senão lexicográfica sem acentos/maiúsculas.
func comparar(a, b Item, campo string) bool {
	va, vb := valorTexto(a, campo), valorTexto(b, campo)
	na, errA := strconv.ParseFloat(strings.ReplaceAll(va, ",", "."), 64)
	nb, errB := strconv.ParseFloat(strings.ReplaceAll(vb, ",", "."), 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return dobrarTexto(va) < dobrarTexto(vb)
}

func iguais(a, b Item, campo string) bool {
	return dobrarTexto(valorTexto(a, campo)) == dobrarTexto(valorTexto(b, campo))
}

func chaveOrdenacao(item Item) string {
	return dobrarTexto(item.ChaveExibicao)
}

// dobrarTexto remove acentos e põe em minúsculas para comparação.
func dobrarTexto(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, s)
	return strings.ToLower(strings.TrimSpace(result))
}

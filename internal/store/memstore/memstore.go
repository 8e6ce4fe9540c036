// internal/store/memstore/memstore.go
package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/reconcile"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

type registro struct {
	Campos map[string]any
	Brutos map[string]string
}

// Registros é uma implementação em memória da coleção de registros de uma
// entidade, usada nos testes e em execução local sem Firestore.
type Registros struct {
	mu             sync.Mutex
	chavesNaturais []string
	dados          map[string]registro
	ordem          []string
}

// NovosRegistros cria a coleção com as chaves naturais da entidade.
func NovosRegistros(chavesNaturais []string) *Registros {
	return &Registros{
		chavesNaturais: chavesNaturais,
		dados:          make(map[string]registro),
	}
}

func (r *Registros) InserirCampos(_ context.Context, campos map[string]any, brutos map[string]string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := uuid.NewString()
	r.dados[id] = registro{Campos: clonarCampos(campos), Brutos: clonarBrutos(brutos)}
	r.ordem = append(r.ordem, id)
	return id, nil
}

func (r *Registros) InserirCandidato(ctx context.Context, c domain.Candidato) (string, error) {
	return r.InserirCampos(ctx, c.Campos, c.Brutos)
}

func (r *Registros) SobrescreverCampos(_ context.Context, id string, campos map[string]any, brutos map[string]string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dados[id]; !ok {
		return store.ErrNaoEncontrado
	}
	r.dados[id] = registro{Campos: clonarCampos(campos), Brutos: clonarBrutos(brutos)}
	return nil
}

func (r *Registros) Existe(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.dados[id]
	return ok, nil
}

func (r *Registros) Buscar(_ context.Context, id string) (map[string]any, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.dados[id]
	if !ok {
		return nil, store.ErrNaoEncontrado
	}
	return clonarCampos(reg.Campos), nil
}

func (r *Registros) Existentes(_ context.Context) ([]reconcile.Existente, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var saida []reconcile.Existente
	for _, id := range r.ordem {
		reg, ok := r.dados[id]
		if !ok {
			continue
		}
		campos := make(map[string]string)
		for _, chave := range r.chavesNaturais {
			if v, ok := reg.Campos[chave].(string); ok {
				campos[chave] = v
			}
		}
		saida = append(saida, reconcile.Existente{
			ID:     id,
			Chaves: reconcile.ChavesDeCampos(campos, r.chavesNaturais),
		})
	}
	return saida, nil
}

// Pendencias é a coleção em memória de entradas aguardando aprovação.
type Pendencias struct {
	mu    sync.Mutex
	dados map[string]domain.PendenciaAprovacao
}

func NovasPendencias() *Pendencias {
	return &Pendencias{dados: make(map[string]domain.PendenciaAprovacao)}
}

func (p *Pendencias) Criar(_ context.Context, pend domain.PendenciaAprovacao) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := uuid.NewString()
	pend.ID = id
	p.dados[id] = pend
	return id, nil
}

func (p *Pendencias) Buscar(_ context.Context, id string) (*domain.PendenciaAprovacao, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	pend, ok := p.dados[id]
	if !ok {
		return nil, store.ErrNaoEncontrado
	}
	return &pend, nil
}

func (p *Pendencias) Listar(_ context.Context) ([]domain.PendenciaAprovacao, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	var saida []domain.PendenciaAprovacao
	for _, pend := range p.dados {
		saida = append(saida, pend)
	}
	return saida, nil
}

func (p *Pendencias) Excluir(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.dados[id]; !ok {
		return store.ErrNaoEncontrado
	}
	delete(p.dados, id)
	return nil
}

func clonarCampos(campos map[string]any) map[string]any {
	c := make(map[string]any, len(campos))
	for k, v := range campos {
		c[k] = v
	}
	return c
}

func clonarBrutos(brutos map[string]string) map[string]string {
	if brutos == nil {
		return nil
	}
	c := make(map[string]string, len(brutos))
	for k, v := range brutos {
		c[k] = v
	}
	return c
}

// internal/core/approval/service.go
package approval

import (
	"context"
	"errors"
	"fmt"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

// Escolha de resolução para uma duplicata verdadeira.
type Escolha string

const (
	ManterExistente Escolha = "keep_existing"
	ManterNovo      Escolha = "keep_new"
)

var (
	// ErrDuplicataRequerEscolha impede a aprovação avulsa de uma pendência
	// que conflita com um registro existente: inserir às cegas criaria a
	// duplicata que a triagem evitou.
	ErrDuplicataRequerEscolha = errors.New("pendência conflita com registro existente; use a resolução de duplicata")

	// ErrReferenciaInvalida indica back-reference quebrada: a pendência
	// aponta para um registro que não existe mais. A operação falha fechada.
	ErrReferenciaInvalida = errors.New("registro original referenciado pela pendência não foi encontrado")

	// ErrNaoEhDuplicata indica tentativa de resolução de duplicata em uma
	// pendência sem referência a registro existente.
	ErrNaoEhDuplicata = errors.New("pendência não referencia registro existente")
)

// RegistroStore é a visão do workflow sobre a coleção de registros de
// primeira classe.
type RegistroStore interface {
	Existe(ctx context.Context, id string) (bool, error)
	InserirCampos(ctx context.Context, campos map[string]any, brutos map[string]string) (string, error)
	SobrescreverCampos(ctx context.Context, id string, campos map[string]any, brutos map[string]string) error
}

// PendenciaStore é a visão do workflow sobre a coleção de pendências.
type PendenciaStore interface {
	Buscar(ctx context.Context, id string) (*domain.PendenciaAprovacao, error)
	Excluir(ctx context.Context, id string) error
}

// Service resolve pendências de aprovação. Todo desfecho (aprovar, rejeitar,
// manter-existente, manter-novo) é terminal e remove a pendência; o único
// estado observável é "pending" ou "resolvida" (a linha some).
type Service interface {
	Rejeitar(ctx context.Context, id string) error
	AprovarAvulso(ctx context.Context, id string) (string, error)
	ResolverDuplicata(ctx context.Context, id string, escolha Escolha) error
	AprovarEmLote(ctx context.Context, ids []string) domain.ResultadoLote
	RejeitarEmLote(ctx context.Context, ids []string) domain.ResultadoLote
}

type service struct {
	registros  RegistroStore
	pendencias PendenciaStore
}

// NewService cria o workflow de aprovação sobre as duas coleções da entidade.
func NewService(registros RegistroStore, pendencias PendenciaStore) Service {
	return &service{registros: registros, pendencias: pendencias}
}

// Rejeitar descarta a pendência sem tocar nos registros persistidos.
func (s *service) Rejeitar(ctx context.Context, id string) error {
	if err := s.pendencias.Excluir(ctx, id); err != nil {
		return fmt.Errorf("erro ao rejeitar pendência: %w", err)
	}
	return nil
}

// AprovarAvulso insere a pendência como registro novo. Válido apenas quando
// não há referência a registro existente; nesse caso recusa com
// ErrDuplicataRequerEscolha em vez de inserir a duplicata em silêncio.
func (s *service) AprovarAvulso(ctx context.Context, id string) (string, error) {
	pend, err := s.pendencias.Buscar(ctx, id)
	if err != nil {
		return "", fmt.Errorf("erro ao buscar pendência: %w", err)
	}
	if pend.EhDuplicataDeExistente() {
		return "", ErrDuplicataRequerEscolha
	}

	novoID, err := s.registros.InserirCampos(ctx, pend.Campos, pend.Brutos)
	if err != nil {
		return "", fmt.Errorf("erro ao inserir registro aprovado: %w", err)
	}
	if err := s.pendencias.Excluir(ctx, id); err != nil {
		return novoID, fmt.Errorf("registro inserido, mas a pendência não pôde ser removida: %w", err)
	}
	return novoID, nil
}

// ResolverDuplicata aplica a escolha do administrador para uma duplicata
// verdadeira. keep_existing só remove a pendência; keep_new sobrescreve os
// campos de negócio do registro existente preservando o id. Referência
// quebrada falha fechada, sem mutação parcial.
func (s *service) ResolverDuplicata(ctx context.Context, id string, escolha Escolha) error {
	pend, err := s.pendencias.Buscar(ctx, id)
	if err != nil {
		return fmt.Errorf("erro ao buscar pendência: %w", err)
	}
	if !pend.EhDuplicataDeExistente() {
		return ErrNaoEhDuplicata
	}

	existe, err := s.registros.Existe(ctx, pend.OriginalRecordID)
	if err != nil {
		return fmt.Errorf("erro ao verificar registro original: %w", err)
	}
	if !existe {
		return fmt.Errorf("%w (id %s)", ErrReferenciaInvalida, pend.OriginalRecordID)
	}

	switch escolha {
	case ManterExistente:
		// Nada a fazer no registro persistido.
	case ManterNovo:
		if err := s.registros.SobrescreverCampos(ctx, pend.OriginalRecordID, pend.Campos, pend.Brutos); err != nil {
			return fmt.Errorf("erro ao sobrescrever registro existente: %w", err)
		}
	default:
		return fmt.Errorf("escolha de resolução inválida: %q", escolha)
	}

	if err := s.pendencias.Excluir(ctx, id); err != nil {
		return fmt.Errorf("escolha aplicada, mas a pendência não pôde ser removida: %w", err)
	}
	return nil
}

// AprovarEmLote aprova as pendências uma a uma, em sequência, de melhor
// esforço. Duplicatas verdadeiras são puladas (a resolução exige decisão
// humana) e seus ids voltam em IgnoradosIDs; a falha de um item não aborta
// os demais.
func (s *service) AprovarEmLote(ctx context.Context, ids []string) domain.ResultadoLote {
	var res domain.ResultadoLote
	for _, id := range ids {
		pend, err := s.pendencias.Buscar(ctx, id)
		if err != nil {
			res.Erros = append(res.Erros, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if pend.EhDuplicataDeExistente() {
			res.Ignorados++
			res.IgnoradosIDs = append(res.IgnoradosIDs, id)
			continue
		}
		if _, err := s.registros.InserirCampos(ctx, pend.Campos, pend.Brutos); err != nil {
			res.Erros = append(res.Erros, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if err := s.pendencias.Excluir(ctx, id); err != nil {
			res.Erros = append(res.Erros, fmt.Sprintf("%s: inserido, mas pendência não removida: %v", id, err))
		}
		res.Aplicados++
	}
	return res
}

// RejeitarEmLote remove todas as pendências referenciadas em uma passada.
// Rejeição não tem ambiguidade de duplicata, então não há itens pulados.
func (s *service) RejeitarEmLote(ctx context.Context, ids []string) domain.ResultadoLote {
	var res domain.ResultadoLote
	for _, id := range ids {
		if err := s.pendencias.Excluir(ctx, id); err != nil {
			if errors.Is(err, store.ErrNaoEncontrado) {
				res.Erros = append(res.Erros, fmt.Sprintf("%s: pendência não encontrada", id))
			} else {
				res.Erros = append(res.Erros, fmt.Sprintf("%s: %v", id, err))
			}
			continue
		}
		res.Aplicados++
	}
	return res
}

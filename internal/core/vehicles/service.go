// internal/core/vehicles/service.go
package vehicles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/bulkimport"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/projection"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/reconcile"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
)

var chavesNaturais = []string{"placa"}

// ErrPlacaObrigatoria bloqueia veículo sem placa.
var ErrPlacaObrigatoria = errors.New("placa é obrigatória")

// Store é a visão do serviço sobre a coleção de veículos.
type Store interface {
	Listar(ctx context.Context) ([]domain.Veiculo, error)
	Buscar(ctx context.Context, id string) (*domain.Veiculo, error)
	Criar(ctx context.Context, v domain.Veiculo) (string, error)
	Atualizar(ctx context.Context, id string, v domain.Veiculo) error
	Excluir(ctx context.Context, id string) error
	ExcluirLote(ctx context.Context, ids []string) error
	Existentes(ctx context.Context) ([]reconcile.Existente, error)
}

// PendenciaStore é a visão do serviço sobre as pendências de veículos.
type PendenciaStore interface {
	Listar(ctx context.Context) ([]domain.PendenciaAprovacao, error)
	Criar(ctx context.Context, p domain.PendenciaAprovacao) (string, error)
}

// Submissao é o desfecho de um cadastro avulso de veículo.
type Submissao struct {
	Inserido    bool   `json:"inserido"`
	ID          string `json:"id,omitempty"`
	PendenciaID string `json:"pendencia_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Service concentra as operações de veículos.
type Service interface {
	ListarCombinado(ctx context.Context, v projection.ViewState) ([]projection.Item, error)
	Buscar(ctx context.Context, id string) (*domain.Veiculo, error)
	Criar(ctx context.Context, v domain.Veiculo) (string, error)
	Atualizar(ctx context.Context, id string, v domain.Veiculo) error
	Excluir(ctx context.Context, id string) error
	ExcluirLote(ctx context.Context, ids []string) error
	Submeter(ctx context.Context, v domain.Veiculo) (Submissao, error)
}

type service struct {
	registros     Store
	pendencias    PendenciaStore
	projetor      projection.Service
	reconciliador reconcile.Service
	agora         func() time.Time
}

// NewService cria o serviço de veículos.
func NewService(registros Store, pendencias PendenciaStore) Service {
	return &service{
		registros:     registros,
		pendencias:    pendencias,
		projetor:      projection.NewService(),
		reconciliador: reconcile.NewService(),
		agora:         time.Now,
	}
}

func (s *service) validar(v *domain.Veiculo) error {
	v.Placa = bulkimport.NormalizarPlaca(strings.TrimSpace(v.Placa))
	if v.Placa == "" {
		return ErrPlacaObrigatoria
	}
	return nil
}

func (s *service) Criar(ctx context.Context, v domain.Veiculo) (string, error) {
	if err := s.validar(&v); err != nil {
		return "", err
	}
	return s.registros.Criar(ctx, v)
}

func (s *service) Atualizar(ctx context.Context, id string, v domain.Veiculo) error {
	if err := s.validar(&v); err != nil {
		return err
	}
	return s.registros.Atualizar(ctx, id, v)
}

func (s *service) Buscar(ctx context.Context, id string) (*domain.Veiculo, error) {
	return s.registros.Buscar(ctx, id)
}

func (s *service) Excluir(ctx context.Context, id string) error {
	return s.registros.Excluir(ctx, id)
}

func (s *service) ExcluirLote(ctx context.Context, ids []string) error {
	return s.registros.ExcluirLote(ctx, ids)
}

func (s *service) ListarCombinado(ctx context.Context, v projection.ViewState) ([]projection.Item, error) {
	veiculos, err := s.registros.Listar(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar veículos: %w", err)
	}
	pendentes, err := s.pendencias.Listar(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pendências: %w", err)
	}

	var registrados []projection.Item
	for _, vc := range veiculos {
		campos := map[string]any{
			"placa":          vc.Placa,
			"modelo":         vc.Modelo,
			"transportadora": vc.Transportadora,
			"tecnologias":    vc.Tecnologias,
		}
		if vc.Prioridade != nil {
			campos["prioridade"] = *vc.Prioridade
		} else if vc.PrioridadeTexto != "" {
			campos["prioridade"] = vc.PrioridadeTexto
		}
		if vc.Bloqueador != nil {
			campos["bloqueador"] = *vc.Bloqueador
		} else if vc.BloqueadorTexto != "" {
			campos["bloqueador"] = vc.BloqueadorTexto
		}
		registrados = append(registrados, projection.Item{
			ID:            vc.ID,
			Tipo:          projection.Registrado,
			ChaveExibicao: vc.Placa,
			Campos:        campos,
		})
	}

	var itensPendentes []projection.Item
	for _, p := range pendentes {
		itensPendentes = append(itensPendentes, projection.Item{
			ID:               p.ID,
			Tipo:             projection.Pendente,
			ChaveExibicao:    p.Texto("placa"),
			Reason:           p.Reason,
			OriginalRecordID: p.OriginalRecordID,
			Campos:           p.Campos,
		})
	}

	if len(v.CamposBusca) == 0 {
		v.CamposBusca = []string{"placa", "modelo", "transportadora"}
	}
	return s.projetor.AplicarVisao(s.projetor.Projetar(registrados, itensPendentes), v), nil
}

func (s *service) Submeter(ctx context.Context, v domain.Veiculo) (Submissao, error) {
	if err := s.validar(&v); err != nil {
		return Submissao{}, err
	}
	existentes, err := s.registros.Existentes(ctx)
	if err != nil {
		return Submissao{}, fmt.Errorf("erro ao consultar registros existentes: %w", err)
	}

	cand := domain.CamposDeVeiculo(v)
	resultado := s.reconciliador.Reconciliar([]domain.Candidato{cand}, existentes, chavesNaturais)

	if len(resultado.Inserir) == 1 {
		id, err := s.registros.Criar(ctx, v)
		if err != nil {
			return Submissao{}, err
		}
		return Submissao{Inserido: true, ID: id}, nil
	}

	pend := resultado.Pendencias[0]
	id, err := s.pendencias.Criar(ctx, domain.PendenciaAprovacao{
		Status:           domain.StatusPendente,
		Reason:           pend.Reason,
		OriginalRecordID: pend.OriginalRecordID,
		Campos:           cand.Campos,
		Brutos:           cand.Brutos,
		CriadoEm:         s.agora(),
	})
	if err != nil {
		return Submissao{}, fmt.Errorf("erro ao registrar pendência: %w", err)
	}
	return Submissao{PendenciaID: id, Reason: pend.Reason}, nil
}

// internal/core/drivers/service.go
package drivers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/projection"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/reconcile"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/status"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
)

var chavesNaturais = []string{"cpf", "cnh"}

// ErrCamposObrigatorios bloqueia a criação/edição sem os campos mínimos.
var ErrCamposObrigatorios = errors.New("nome, cpf e cnh são obrigatórios")

// ErrIndicacaoInvalida indica um status_indicacao fora do conjunto aceito.
var ErrIndicacaoInvalida = errors.New("status de indicação inválido")

// Store é a visão do serviço sobre a coleção de motoristas.
type Store interface {
	Listar(ctx context.Context) ([]domain.Motorista, error)
	Buscar(ctx context.Context, id string) (*domain.Motorista, error)
	Criar(ctx context.Context, m domain.Motorista) (string, error)
	Atualizar(ctx context.Context, id string, m domain.Motorista) error
	AtualizarIndicacao(ctx context.Context, id, statusIndicacao, reason string) error
	Excluir(ctx context.Context, id string) error
	ExcluirLote(ctx context.Context, ids []string) error
	Existentes(ctx context.Context) ([]reconcile.Existente, error)
}

// PendenciaStore é a visão do serviço sobre as pendências de motoristas.
type PendenciaStore interface {
	Listar(ctx context.Context) ([]domain.PendenciaAprovacao, error)
	Criar(ctx context.Context, p domain.PendenciaAprovacao) (string, error)
}

// MotoristaAnotado é um motorista com os status derivados calculados na
// leitura (nunca persistidos).
type MotoristaAnotado struct {
	domain.Motorista
	StatusCNH      status.Classificacao `json:"status_cnh"`
	StatusOmnilink status.Classificacao `json:"status_omnilink"`
}

// Submissao é o desfecho de um cadastro avulso: ou virou registro direto, ou
// ficou aguardando aprovação com o motivo da duplicidade.
type Submissao struct {
	Inserido    bool   `json:"inserido"`
	ID          string `json:"id,omitempty"`
	PendenciaID string `json:"pendencia_id,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Service concentra as operações de motoristas: CRUD, atualização rápida de
// indicação, lista combinada (registrados + pendentes) e submissão avulsa,
// que passa pela mesma reconciliação da importação em lote.
type Service interface {
	ListarCombinado(ctx context.Context, v projection.ViewState) ([]projection.Item, error)
	Buscar(ctx context.Context, id string) (*MotoristaAnotado, error)
	Criar(ctx context.Context, m domain.Motorista) (string, error)
	Atualizar(ctx context.Context, id string, m domain.Motorista) error
	AtualizarIndicacao(ctx context.Context, id, statusIndicacao, reason string) error
	Excluir(ctx context.Context, id string) error
	ExcluirLote(ctx context.Context, ids []string) error
	Submeter(ctx context.Context, m domain.Motorista) (Submissao, error)
}

type service struct {
	registros     Store
	pendencias    PendenciaStore
	classificador status.Service
	projetor      projection.Service
	reconciliador reconcile.Service
	agora         func() time.Time
}

// NewService cria o serviço de motoristas.
func NewService(registros Store, pendencias PendenciaStore) Service {
	return &service{
		registros:     registros,
		pendencias:    pendencias,
		classificador: status.NewService(),
		projetor:      projection.NewService(),
		reconciliador: reconcile.NewService(),
		agora:         time.Now,
	}
}

func (s *service) validar(m *domain.Motorista) error {
	m.Nome = strings.TrimSpace(m.Nome)
	m.CPF = strings.TrimSpace(m.CPF)
	m.CNH = strings.TrimSpace(m.CNH)
	if m.Nome == "" || m.CPF == "" || m.CNH == "" {
		return ErrCamposObrigatorios
	}
	if m.StatusIndicacao == "" {
		m.StatusIndicacao = domain.IndicacaoNaoIndicado
	}
	if !indicacaoValida(m.StatusIndicacao) {
		return ErrIndicacaoInvalida
	}
	// reason_nao_indicacao só tem significado quando não indicado.
	if m.StatusIndicacao != domain.IndicacaoNaoIndicado {
		m.ReasonNaoIndicacao = ""
	}
	return nil
}

func indicacaoValida(v string) bool {
	return v == domain.IndicacaoIndicado || v == domain.IndicacaoRetificado || v == domain.IndicacaoNaoIndicado
}

func (s *service) Criar(ctx context.Context, m domain.Motorista) (string, error) {
	if err := s.validar(&m); err != nil {
		return "", err
	}
	return s.registros.Criar(ctx, m)
}

func (s *service) Atualizar(ctx context.Context, id string, m domain.Motorista) error {
	if err := s.validar(&m); err != nil {
		return err
	}
	return s.registros.Atualizar(ctx, id, m)
}

func (s *service) AtualizarIndicacao(ctx context.Context, id, statusIndicacao, reason string) error {
	if !indicacaoValida(statusIndicacao) {
		return ErrIndicacaoInvalida
	}
	if statusIndicacao != domain.IndicacaoNaoIndicado {
		reason = ""
	}
	return s.registros.AtualizarIndicacao(ctx, id, statusIndicacao, reason)
}

func (s *service) Buscar(ctx context.Context, id string) (*MotoristaAnotado, error) {
	m, err := s.registros.Buscar(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.anotar(*m), nil
}

func (s *service) anotar(m domain.Motorista) *MotoristaAnotado {
	hoje := s.agora()
	return &MotoristaAnotado{
		Motorista:      m,
		StatusCNH:      s.classificador.ClassificarCNH(m.ValidadeCNH, hoje),
		StatusOmnilink: s.classificador.ClassificarOmnilink(m.DataCadastroOmnilink, hoje),
	}
}

func (s *service) Excluir(ctx context.Context, id string) error {
	return s.registros.Excluir(ctx, id)
}

func (s *service) ExcluirLote(ctx context.Context, ids []string) error {
	return s.registros.ExcluirLote(ctx, ids)
}

// ListarCombinado monta a lista única de registrados e pendentes, com as
// pendências duplicatas aninhadas sob o registro original, e aplica o estado
// de visualização pedido.
func (s *service) ListarCombinado(ctx context.Context, v projection.ViewState) ([]projection.Item, error) {
	motoristas, err := s.registros.Listar(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar motoristas: %w", err)
	}
	pendentes, err := s.pendencias.Listar(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar pendências: %w", err)
	}

	var registrados []projection.Item
	for _, m := range motoristas {
		anotado := s.anotar(m)
		registrados = append(registrados, projection.Item{
			ID:            m.ID,
			Tipo:          projection.Registrado,
			ChaveExibicao: m.Nome,
			Campos: map[string]any{
				"nome":             m.Nome,
				"cpf":              m.CPF,
				"cnh":              m.CNH,
				"telefone":         m.Telefone,
				"transportadora":   m.Transportadora,
				"status_indicacao": m.StatusIndicacao,
				"status_cnh":       anotado.StatusCNH.Status,
				"status_omnilink":  anotado.StatusOmnilink.Status,
			},
		})
	}

	var itensPendentes []projection.Item
	for _, p := range pendentes {
		itensPendentes = append(itensPendentes, projection.Item{
			ID:               p.ID,
			Tipo:             projection.Pendente,
			ChaveExibicao:    p.Texto("nome"),
			Reason:           p.Reason,
			OriginalRecordID: p.OriginalRecordID,
			Campos:           p.Campos,
		})
	}

	if len(v.CamposBusca) == 0 {
		v.CamposBusca = []string{"nome", "cpf", "cnh", "transportadora"}
	}
	return s.projetor.AplicarVisao(s.projetor.Projetar(registrados, itensPendentes), v), nil
}

// Submeter cadastra um motorista fora do fluxo administrativo: o registro só
// entra direto se não conflitar com nada; duplicatas viram pendência para
// triagem, nunca inserção silenciosa.
func (s *service) Submeter(ctx context.Context, m domain.Motorista) (Submissao, error) {
	if err := s.validar(&m); err != nil {
		return Submissao{}, err
	}
	existentes, err := s.registros.Existentes(ctx)
	if err != nil {
		return Submissao{}, fmt.Errorf("erro ao consultar registros existentes: %w", err)
	}

	cand := domain.CamposDeMotorista(m)
	resultado := s.reconciliador.Reconciliar([]domain.Candidato{cand}, existentes, chavesNaturais)

	if len(resultado.Inserir) == 1 {
		id, err := s.registros.Criar(ctx, m)
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

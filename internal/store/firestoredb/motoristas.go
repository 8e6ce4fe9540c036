// internal/store/firestoredb/motoristas.go
package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/core/reconcile"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

// Motoristas persiste a coleção de motoristas no Firestore.
type Motoristas struct {
	client  *firestore.Client
	colecao string
}

var chavesMotorista = []string{"cpf", "cnh"}

// NovosMotoristas cria a store sobre a coleção padrão "motoristas".
func NovosMotoristas(client *firestore.Client) *Motoristas {
	return &Motoristas{client: client, colecao: "motoristas"}
}

func (s *Motoristas) Listar(ctx context.Context) ([]domain.Motorista, error) {
	iter := s.client.Collection(s.colecao).Documents(ctx)
	defer iter.Stop()

	var saida []domain.Motorista
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao listar motoristas: %w", err)
		}
		var m domain.Motorista
		if err := doc.DataTo(&m); err != nil {
			return nil, fmt.Errorf("erro ao ler motorista %s: %w", doc.Ref.ID, err)
		}
		m.ID = doc.Ref.ID
		saida = append(saida, m)
	}
	return saida, nil
}

func (s *Motoristas) Buscar(ctx context.Context, id string) (*domain.Motorista, error) {
	doc, err := s.client.Collection(s.colecao).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNaoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar motorista: %w", err)
	}
	var m domain.Motorista
	if err := doc.DataTo(&m); err != nil {
		return nil, fmt.Errorf("erro ao ler motorista: %w", err)
	}
	m.ID = doc.Ref.ID
	return &m, nil
}

func (s *Motoristas) Criar(ctx context.Context, m domain.Motorista) (string, error) {
	if m.CriadoEm.IsZero() {
		m.CriadoEm = time.Now()
	}
	ref := s.client.Collection(s.colecao).NewDoc()
	if _, err := ref.Set(ctx, m); err != nil {
		return "", fmt.Errorf("erro ao criar motorista: %w", err)
	}
	return ref.ID, nil
}

func (s *Motoristas) Atualizar(ctx context.Context, id string, m domain.Motorista) error {
	atual, err := s.Buscar(ctx, id)
	if err != nil {
		return err
	}
	m.CriadoEm = atual.CriadoEm
	if _, err := s.client.Collection(s.colecao).Doc(id).Set(ctx, m); err != nil {
		return fmt.Errorf("erro ao atualizar motorista: %w", err)
	}
	return nil
}

// AtualizarIndicacao é a atualização rápida de status_indicacao usada nos
// cartões do painel. reason só tem significado quando o status é
// nao_indicado, então é sempre gravado junto (vazio nos demais casos).
func (s *Motoristas) AtualizarIndicacao(ctx context.Context, id, statusIndicacao, reason string) error {
	_, err := s.client.Collection(s.colecao).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status_indicacao", Value: statusIndicacao},
		{Path: "reason_nao_indicacao", Value: reason},
	})
	if status.Code(err) == codes.NotFound {
		return store.ErrNaoEncontrado
	}
	if err != nil {
		return fmt.Errorf("erro ao atualizar indicação: %w", err)
	}
	return nil
}

func (s *Motoristas) Excluir(ctx context.Context, id string) error {
	_, err := s.client.Collection(s.colecao).Doc(id).Delete(ctx, firestore.Exists)
	if code := status.Code(err); code == codes.NotFound || code == codes.FailedPrecondition {
		return store.ErrNaoEncontrado
	}
	if err != nil {
		return fmt.Errorf("erro ao excluir motorista: %w", err)
	}
	return nil
}

func (s *Motoristas) ExcluirLote(ctx context.Context, ids []string) error {
	bw := s.client.BulkWriter(ctx)
	for _, id := range ids {
		if _, err := bw.Delete(s.client.Collection(s.colecao).Doc(id)); err != nil {
			return fmt.Errorf("erro ao excluir motorista %s: %w", id, err)
		}
	}
	bw.End()
	return nil
}

// Existe confirma a presença do id, usado na checagem de referência da
// resolução de duplicatas.
func (s *Motoristas) Existe(ctx context.Context, id string) (bool, error) {
	_, err := s.client.Collection(s.colecao).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("erro ao verificar motorista: %w", err)
	}
	return true, nil
}

// Existentes devolve id e chaves naturais de todos os motoristas, para a
// reconciliação de importações.
func (s *Motoristas) Existentes(ctx context.Context) ([]reconcile.Existente, error) {
	iter := s.client.Collection(s.colecao).Documents(ctx)
	defer iter.Stop()

	var saida []reconcile.Existente
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao consultar motoristas existentes: %w", err)
		}
		dados := doc.Data()
		campos := make(map[string]string)
		for _, chave := range chavesMotorista {
			if v, ok := dados[chave].(string); ok {
				campos[chave] = v
			}
		}
		saida = append(saida, reconcile.Existente{
			ID:     doc.Ref.ID,
			Chaves: reconcile.ChavesDeCampos(campos, chavesMotorista),
		})
	}
	return saida, nil
}

func (s *Motoristas) InserirCandidato(ctx context.Context, c domain.Candidato) (string, error) {
	return s.InserirCampos(ctx, c.Campos, c.Brutos)
}

func (s *Motoristas) InserirCampos(ctx context.Context, campos map[string]any, brutos map[string]string) (string, error) {
	return s.Criar(ctx, domain.MotoristaDeCampos(campos))
}

// SobrescreverCampos aplica a escolha manter-novo: os campos de negócio da
// pendência substituem os do registro, preservando id, data de criação e o
// status de indicação corrente.
func (s *Motoristas) SobrescreverCampos(ctx context.Context, id string, campos map[string]any, brutos map[string]string) error {
	atual, err := s.Buscar(ctx, id)
	if err != nil {
		return err
	}
	m := domain.MotoristaDeCampos(campos)
	m.StatusIndicacao = atual.StatusIndicacao
	m.ReasonNaoIndicacao = atual.ReasonNaoIndicacao
	m.CriadoEm = atual.CriadoEm
	if _, err := s.client.Collection(s.colecao).Doc(id).Set(ctx, m); err != nil {
		return fmt.Errorf("erro ao sobrescrever motorista: %w", err)
	}
	return nil
}

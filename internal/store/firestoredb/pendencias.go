// internal/store/firestoredb/pendencias.go
package firestoredb

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

// Pendencias persiste as entradas aguardando aprovação de uma entidade.
// Cada entidade tem sua coleção própria (<entidade>_pending_approval).
type Pendencias struct {
	client  *firestore.Client
	colecao string
}

// NovasPendenciasMotoristas cria a store das pendências de motoristas.
func NovasPendenciasMotoristas(client *firestore.Client) *Pendencias {
	return &Pendencias{client: client, colecao: "motoristas_pending_approval"}
}

// NovasPendenciasVeiculos cria a store das pendências de veículos.
func NovasPendenciasVeiculos(client *firestore.Client) *Pendencias {
	return &Pendencias{client: client, colecao: "veiculos_pending_approval"}
}

func (s *Pendencias) Criar(ctx context.Context, p domain.PendenciaAprovacao) (string, error) {
	if p.Status == "" {
		p.Status = domain.StatusPendente
	}
	ref := s.client.Collection(s.colecao).NewDoc()
	if _, err := ref.Set(ctx, p); err != nil {
		return "", fmt.Errorf("erro ao criar pendência: %w", err)
	}
	return ref.ID, nil
}

func (s *Pendencias) Buscar(ctx context.Context, id string) (*domain.PendenciaAprovacao, error) {
	doc, err := s.client.Collection(s.colecao).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNaoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar pendência: %w", err)
	}
	var p domain.PendenciaAprovacao
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("erro ao ler pendência: %w", err)
	}
	p.ID = doc.Ref.ID
	return &p, nil
}

func (s *Pendencias) Listar(ctx context.Context) ([]domain.PendenciaAprovacao, error) {
	iter := s.client.Collection(s.colecao).Documents(ctx)
	defer iter.Stop()

	var saida []domain.PendenciaAprovacao
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao listar pendências: %w", err)
		}
		var p domain.PendenciaAprovacao
		if err := doc.DataTo(&p); err != nil {
			return nil, fmt.Errorf("erro ao ler pendência %s: %w", doc.Ref.ID, err)
		}
		p.ID = doc.Ref.ID
		saida = append(saida, p)
	}
	return saida, nil
}

func (s *Pendencias) Excluir(ctx context.Context, id string) error {
	// A resolução é sempre terminal: a linha some da coleção. Sem a
	// precondição Exists o Delete aceitaria um id fantasma em silêncio.
	_, err := s.client.Collection(s.colecao).Doc(id).Delete(ctx, firestore.Exists)
	if code := status.Code(err); code == codes.NotFound || code == codes.FailedPrecondition {
		return store.ErrNaoEncontrado
	}
	if err != nil {
		return fmt.Errorf("erro ao excluir pendência: %w", err)
	}
	return nil
}

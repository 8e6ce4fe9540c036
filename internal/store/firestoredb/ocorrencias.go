// internal/store/firestoredb/ocorrencias.go
package firestoredb

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

// Ocorrencias persiste os registros de sinistro no Firestore.
type Ocorrencias struct {
	client  *firestore.Client
	colecao string
}

// NovasOcorrencias cria a store sobre a coleção padrão "ocorrencias".
func NovasOcorrencias(client *firestore.Client) *Ocorrencias {
	return &Ocorrencias{client: client, colecao: "ocorrencias"}
}

func (s *Ocorrencias) Criar(ctx context.Context, o domain.Ocorrencia) (string, error) {
	if o.CriadoEm.IsZero() {
		o.CriadoEm = time.Now()
	}
	ref := s.client.Collection(s.colecao).NewDoc()
	if _, err := ref.Set(ctx, o); err != nil {
		return "", fmt.Errorf("erro ao criar ocorrência: %w", err)
	}
	return ref.ID, nil
}

func (s *Ocorrencias) Buscar(ctx context.Context, id string) (*domain.Ocorrencia, error) {
	doc, err := s.client.Collection(s.colecao).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNaoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar ocorrência: %w", err)
	}
	var o domain.Ocorrencia
	if err := doc.DataTo(&o); err != nil {
		return nil, fmt.Errorf("erro ao ler ocorrência: %w", err)
	}
	o.ID = doc.Ref.ID
	return &o, nil
}

func (s *Ocorrencias) Atualizar(ctx context.Context, id string, o domain.Ocorrencia) error {
	atual, err := s.Buscar(ctx, id)
	if err != nil {
		return err
	}
	o.CriadoEm = atual.CriadoEm
	if _, err := s.client.Collection(s.colecao).Doc(id).Set(ctx, o); err != nil {
		return fmt.Errorf("erro ao atualizar ocorrência: %w", err)
	}
	return nil
}

func (s *Ocorrencias) Excluir(ctx context.Context, id string) error {
	_, err := s.client.Collection(s.colecao).Doc(id).Delete(ctx, firestore.Exists)
	if code := status.Code(err); code == codes.NotFound || code == codes.FailedPrecondition {
		return store.ErrNaoEncontrado
	}
	if err != nil {
		return fmt.Errorf("erro ao excluir ocorrência: %w", err)
	}
	return nil
}

// ListarPorPeriodo devolve as ocorrências do intervalo, em ordem de data.
// Datas zeradas removem o limite correspondente.
func (s *Ocorrencias) ListarPorPeriodo(ctx context.Context, de, ate time.Time) ([]domain.Ocorrencia, error) {
	q := s.client.Collection(s.colecao).Query
	if !de.IsZero() {
		q = q.Where("data", ">=", de)
	}
	if !ate.IsZero() {
		q = q.Where("data", "<=", ate)
	}
	iter := q.OrderBy("data", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var saida []domain.Ocorrencia
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao listar ocorrências: %w", err)
		}
		var o domain.Ocorrencia
		if err := doc.DataTo(&o); err != nil {
			return nil, fmt.Errorf("erro ao ler ocorrência %s: %w", doc.Ref.ID, err)
		}
		o.ID = doc.Ref.ID
		saida = append(saida, o)
	}
	return saida, nil
}

// internal/store/firestoredb/veiculos.go
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

// Veiculos persiste a coleção de veículos no Firestore.
type Veiculos struct {
	client  *firestore.Client
	colecao string
}

var chavesVeiculo = []string{"placa"}

// NovosVeiculos cria a store sobre a coleção padrão "veiculos".
func NovosVeiculos(client *firestore.Client) *Veiculos {
	return &Veiculos{client: client, colecao: "veiculos"}
}

func (s *Veiculos) Listar(ctx context.Context) ([]domain.Veiculo, error) {
	iter := s.client.Collection(s.colecao).Documents(ctx)
	defer iter.Stop()

	var saida []domain.Veiculo
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao listar veículos: %w", err)
		}
		var v domain.Veiculo
		if err := doc.DataTo(&v); err != nil {
			return nil, fmt.Errorf("erro ao ler veículo %s: %w", doc.Ref.ID, err)
		}
		v.ID = doc.Ref.ID
		saida = append(saida, v)
	}
	return saida, nil
}

func (s *Veiculos) Buscar(ctx context.Context, id string) (*domain.Veiculo, error) {
	doc, err := s.client.Collection(s.colecao).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, store.ErrNaoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar veículo: %w", err)
	}
	var v domain.Veiculo
	if err := doc.DataTo(&v); err != nil {
		return nil, fmt.Errorf("erro ao ler veículo: %w", err)
	}
	v.ID = doc.Ref.ID
	return &v, nil
}

func (s *Veiculos) Criar(ctx context.Context, v domain.Veiculo) (string, error) {
	if v.CriadoEm.IsZero() {
		v.CriadoEm = time.Now()
	}
	ref := s.client.Collection(s.colecao).NewDoc()
	if _, err := ref.Set(ctx, v); err != nil {
		return "", fmt.Errorf("erro ao criar veículo: %w", err)
	}
	return ref.ID, nil
}

func (s *Veiculos) Atualizar(ctx context.Context, id string, v domain.Veiculo) error {
	atual, err := s.Buscar(ctx, id)
	if err != nil {
		return err
	}
	v.CriadoEm = atual.CriadoEm
	if _, err := s.client.Collection(s.colecao).Doc(id).Set(ctx, v); err != nil {
		return fmt.Errorf("erro ao atualizar veículo: %w", err)
	}
	return nil
}

func (s *Veiculos) Excluir(ctx context.Context, id string) error {
	_, err := s.client.Collection(s.colecao).Doc(id).Delete(ctx, firestore.Exists)
	if code := status.Code(err); code == codes.NotFound || code == codes.FailedPrecondition {
		return store.ErrNaoEncontrado
	}
	if err != nil {
		return fmt.Errorf("erro ao excluir veículo: %w", err)
	}
	return nil
}

func (s *Veiculos) ExcluirLote(ctx context.Context, ids []string) error {
	bw := s.client.BulkWriter(ctx)
	for _, id := range ids {
		if _, err := bw.Delete(s.client.Collection(s.colecao).Doc(id)); err != nil {
			return fmt.Errorf("erro ao excluir veículo %s: %w", id, err)
		}
	}
	bw.End()
	return nil
}

func (s *Veiculos) Existe(ctx context.Context, id string) (bool, error) {
	_, err := s.client.Collection(s.colecao).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("erro ao verificar veículo: %w", err)
	}
	return true, nil
}

func (s *Veiculos) Existentes(ctx context.Context) ([]reconcile.Existente, error) {
	iter := s.client.Collection(s.colecao).Documents(ctx)
	defer iter.Stop()

	var saida []reconcile.Existente
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("erro ao consultar veículos existentes: %w", err)
		}
		dados := doc.Data()
		campos := make(map[string]string)
		for _, chave := range chavesVeiculo {
			if v, ok := dados[chave].(string); ok {
				campos[chave] = v
			}
		}
		saida = append(saida, reconcile.Existente{
			ID:     doc.Ref.ID,
			Chaves: reconcile.ChavesDeCampos(campos, chavesVeiculo),
		})
	}
	return saida, nil
}

func (s *Veiculos) InserirCandidato(ctx context.Context, c domain.Candidato) (string, error) {
	return s.InserirCampos(ctx, c.Campos, c.Brutos)
}

func (s *Veiculos) InserirCampos(ctx context.Context, campos map[string]any, brutos map[string]string) (string, error) {
	return s.Criar(ctx, domain.VeiculoDeCampos(campos, brutos))
}

func (s *Veiculos) SobrescreverCampos(ctx context.Context, id string, campos map[string]any, brutos map[string]string) error {
	atual, err := s.Buscar(ctx, id)
	if err != nil {
		return err
	}
	v := domain.VeiculoDeCampos(campos, brutos)
	v.CriadoEm = atual.CriadoEm
	if _, err := s.client.Collection(s.colecao).Doc(id).Set(ctx, v); err != nil {
		return fmt.Errorf("erro ao sobrescrever veículo: %w", err)
	}
	return nil
}

// internal/core/occurrences/service_test.go
package occurrences

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/store"
)

type fakeStore struct {
	seq   int
	dados map[string]domain.Ocorrencia
}

func novoFakeStore() *fakeStore {
	return &fakeStore{dados: map[string]domain.Ocorrencia{}}
}

func (f *fakeStore) Criar(_ context.Context, o domain.Ocorrencia) (string, error) {
	f.seq++
	o.ID = fmt.Sprintf("o-%d", f.seq)
	f.dados[o.ID] = o
	return o.ID, nil
}

func (f *fakeStore) Buscar(_ context.Context, id string) (*domain.Ocorrencia, error) {
	o, ok := f.dados[id]
	if !ok {
		return nil, store.ErrNaoEncontrado
	}
	return &o, nil
}

func (f *fakeStore) Atualizar(_ context.Context, id string, o domain.Ocorrencia) error {
	if _, ok := f.dados[id]; !ok {
		return store.ErrNaoEncontrado
	}
	o.ID = id
	f.dados[id] = o
	return nil
}

func (f *fakeStore) Excluir(_ context.Context, id string) error {
	if _, ok := f.dados[id]; !ok {
		return store.ErrNaoEncontrado
	}
	delete(f.dados, id)
	return nil
}

func (f *fakeStore) ListarPorPeriodo(_ context.Context, de, ate time.Time) ([]domain.Ocorrencia, error) {
	var saida []domain.Ocorrencia
	for _, o := range f.dados {
		if !o.Data.Before(de) && !o.Data.After(ate) {
			saida = append(saida, o)
		}
	}
	return saida, nil
}

type fakeUploader struct {
	caminhos []string
}

func (f *fakeUploader) Enviar(_ context.Context, caminho string, conteudo io.Reader, _ string) (string, error) {
	io.Copy(io.Discard, conteudo)
	f.caminhos = append(f.caminhos, caminho)
	return "https://storage.example/" + caminho, nil
}

func TestCriar(t *testing.T) {
	ctx := context.Background()
	registros := novoFakeStore()
	svc := NewService(registros, nil)
	data := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)

	t.Run("tipo desconhecido é recusado", func(t *testing.T) {
		_, err := svc.Criar(ctx, domain.Ocorrencia{Tipo: "pane", Data: data})
		if !errors.Is(err, ErrOcorrenciaInvalida) {
			t.Errorf("esperava ErrOcorrenciaInvalida, obteve %v", err)
		}
	})

	t.Run("sem data é recusado", func(t *testing.T) {
		_, err := svc.Criar(ctx, domain.Ocorrencia{Tipo: domain.OcorrenciaRoubo})
		if !errors.Is(err, ErrOcorrenciaInvalida) {
			t.Errorf("esperava ErrOcorrenciaInvalida, obteve %v", err)
		}
	})

	t.Run("status nasce aberta e o tipo é normalizado", func(t *testing.T) {
		id, err := svc.Criar(ctx, domain.Ocorrencia{Tipo: " Roubo ", Data: data})
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		o, _ := registros.Buscar(ctx, id)
		if o.Status != domain.OcorrenciaAberta || o.Tipo != domain.OcorrenciaRoubo {
			t.Errorf("normalização falhou: %+v", o)
		}
	})
}

func TestListarPorPeriodo(t *testing.T) {
	ctx := context.Background()
	registros := novoFakeStore()
	svc := NewService(registros, nil)

	dentro := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	fora := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	svc.Criar(ctx, domain.Ocorrencia{Tipo: domain.OcorrenciaRoubo, Data: dentro})
	svc.Criar(ctx, domain.Ocorrencia{Tipo: domain.OcorrenciaAcidente, Data: fora})

	de := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	ate := time.Date(2026, time.February, 28, 0, 0, 0, 0, time.UTC)
	lista, err := svc.ListarPorPeriodo(ctx, de, ate)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(lista) != 1 || lista[0].Tipo != domain.OcorrenciaRoubo {
		t.Errorf("esperava só o roubo de fevereiro, obteve %+v", lista)
	}

	t.Run("período invertido é recusado", func(t *testing.T) {
		if _, err := svc.ListarPorPeriodo(ctx, ate, de); !errors.Is(err, ErrOcorrenciaInvalida) {
			t.Errorf("esperava ErrOcorrenciaInvalida, obteve %v", err)
		}
	})
}

func TestAnexarArquivo(t *testing.T) {
	ctx := context.Background()
	registros := novoFakeStore()
	uploader := &fakeUploader{}
	svc := NewService(registros, uploader)

	data := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	id, _ := svc.Criar(ctx, domain.Ocorrencia{Tipo: domain.OcorrenciaAcidente, Data: data})

	url, err := svc.AnexarArquivo(ctx, id, "boletim.pdf", "application/pdf", strings.NewReader("conteudo"))
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	o, _ := registros.Buscar(ctx, id)
	if o.AnexoURL != url {
		t.Errorf("URL do anexo não gravada: %q vs %q", o.AnexoURL, url)
	}
	if len(uploader.caminhos) != 1 || !strings.HasPrefix(uploader.caminhos[0], "ocorrencias/"+id+"/") {
		t.Errorf("caminho do upload inesperado: %v", uploader.caminhos)
	}

	t.Run("ocorrência inexistente falha antes do upload", func(t *testing.T) {
		if _, err := svc.AnexarArquivo(ctx, "fantasma", "x.pdf", "application/pdf", strings.NewReader("x")); !errors.Is(err, store.ErrNaoEncontrado) {
			t.Errorf("esperava ErrNaoEncontrado, obteve %v", err)
		}
		if len(uploader.caminhos) != 1 {
			t.Error("upload não deveria ter ocorrido")
		}
	})

	t.Run("sem bucket configurado falha", func(t *testing.T) {
		semBucket := NewService(registros, nil)
		if _, err := semBucket.AnexarArquivo(ctx, id, "x.pdf", "application/pdf", strings.NewReader("x")); err == nil {
			t.Error("esperava erro sem uploader")
		}
	})
}

// internal/core/occurrences/service.go
package occurrences

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/storage"
)

// ErrOcorrenciaInvalida cobre tipo, status ou data fora do esperado.
var ErrOcorrenciaInvalida = errors.New("ocorrência inválida")

// Store é a visão do serviço sobre a coleção de ocorrências.
type Store interface {
	Criar(ctx context.Context, o domain.Ocorrencia) (string, error)
	Buscar(ctx context.Context, id string) (*domain.Ocorrencia, error)
	Atualizar(ctx context.Context, id string, o domain.Ocorrencia) error
	Excluir(ctx context.Context, id string) error
	ListarPorPeriodo(ctx context.Context, de, ate time.Time) ([]domain.Ocorrencia, error)
}

// Service concentra o registro de ocorrências da frota (roubos, acidentes)
// e o anexo de arquivos de evidência.
type Service interface {
	Criar(ctx context.Context, o domain.Ocorrencia) (string, error)
	Buscar(ctx context.Context, id string) (*domain.Ocorrencia, error)
	Atualizar(ctx context.Context, id string, o domain.Ocorrencia) error
	Excluir(ctx context.Context, id string) error
	ListarPorPeriodo(ctx context.Context, de, ate time.Time) ([]domain.Ocorrencia, error)
	AnexarArquivo(ctx context.Context, id, nomeArquivo, contentType string, conteudo io.Reader) (string, error)
}

type service struct {
	registros Store
	uploader  storage.Uploader
}

// NewService cria o serviço de ocorrências. O uploader pode ser nil quando o
// bucket de anexos não está configurado; nesse caso AnexarArquivo falha.
func NewService(registros Store, uploader storage.Uploader) Service {
	return &service{registros: registros, uploader: uploader}
}

func validar(o *domain.Ocorrencia) error {
	o.Tipo = strings.ToLower(strings.TrimSpace(o.Tipo))
	o.Status = strings.ToLower(strings.TrimSpace(o.Status))
	if o.Status == "" {
		o.Status = domain.OcorrenciaAberta
	}
	switch o.Tipo {
	case domain.OcorrenciaRoubo, domain.OcorrenciaAcidente, domain.OcorrenciaOutros:
	default:
		return fmt.Errorf("%w: tipo %q desconhecido", ErrOcorrenciaInvalida, o.Tipo)
	}
	switch o.Status {
	case domain.OcorrenciaAberta, domain.OcorrenciaEmAndamento, domain.OcorrenciaEncerrada:
	default:
		return fmt.Errorf("%w: status %q desconhecido", ErrOcorrenciaInvalida, o.Status)
	}
	if o.Data.IsZero() {
		return fmt.Errorf("%w: data é obrigatória", ErrOcorrenciaInvalida)
	}
	return nil
}

func (s *service) Criar(ctx context.Context, o domain.Ocorrencia) (string, error) {
	if err := validar(&o); err != nil {
		return "", err
	}
	return s.registros.Criar(ctx, o)
}

func (s *service) Buscar(ctx context.Context, id string) (*domain.Ocorrencia, error) {
	return s.registros.Buscar(ctx, id)
}

func (s *service) Atualizar(ctx context.Context, id string, o domain.Ocorrencia) error {
	if err := validar(&o); err != nil {
		return err
	}
	return s.registros.Atualizar(ctx, id, o)
}

func (s *service) Excluir(ctx context.Context, id string) error {
	return s.registros.Excluir(ctx, id)
}

func (s *service) ListarPorPeriodo(ctx context.Context, de, ate time.Time) ([]domain.Ocorrencia, error) {
	if ate.Before(de) {
		return nil, fmt.Errorf("%w: período invertido", ErrOcorrenciaInvalida)
	}
	return s.registros.ListarPorPeriodo(ctx, de, ate)
}

// AnexarArquivo envia o arquivo ao bucket e grava a URL pública na ocorrência.
func (s *service) AnexarArquivo(ctx context.Context, id, nomeArquivo, contentType string, conteudo io.Reader) (string, error) {
	if s.uploader == nil {
		return "", errors.New("bucket de anexos não configurado")
	}
	o, err := s.registros.Buscar(ctx, id)
	if err != nil {
		return "", err
	}

	caminho := path.Join("ocorrencias", id, uuid.NewString()+"_"+path.Base(nomeArquivo))
	url, err := s.uploader.Enviar(ctx, caminho, conteudo, contentType)
	if err != nil {
		return "", fmt.Errorf("erro ao enviar anexo: %w", err)
	}

	o.AnexoURL = url
	if err := s.registros.Atualizar(ctx, id, *o); err != nil {
		return "", fmt.Errorf("erro ao gravar anexo na ocorrência: %w", err)
	}
	return url, nil
}

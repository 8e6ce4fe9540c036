// internal/storage/storage.go
package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go"
)

// Uploader é o colaborador de armazenamento de arquivos (anexos de
// ocorrências, artefatos de relatório). O envio é atômico por arquivo e
// devolve uma URL pública; não há retry aqui.
type Uploader interface {
	Enviar(ctx context.Context, caminho string, conteudo io.Reader, contentType string) (string, error)
}

type firebaseStorage struct {
	bucket *gcs.BucketHandle
	nome   string
}

// NewFirebaseStorage abre o bucket do projeto via Firebase.
func NewFirebaseStorage(ctx context.Context, app *firebase.App, nomeBucket string) (Uploader, error) {
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao inicializar cliente de storage: %w", err)
	}
	bucket, err := client.Bucket(nomeBucket)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir bucket %q: %w", nomeBucket, err)
	}
	return &firebaseStorage{bucket: bucket, nome: nomeBucket}, nil
}

func (s *firebaseStorage) Enviar(ctx context.Context, caminho string, conteudo io.Reader, contentType string) (string, error) {
	wc := s.bucket.Object(caminho).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := io.Copy(wc, conteudo); err != nil {
		wc.Close()
		return "", fmt.Errorf("erro ao enviar arquivo %q: %w", caminho, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("erro ao finalizar envio de %q: %w", caminho, err)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.nome, caminho), nil
}

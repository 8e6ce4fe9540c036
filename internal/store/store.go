// internal/store/store.go
package store

import "errors"

// Sentinelas compartilhadas pelas implementações de persistência (Firestore
// em produção, memória nos testes). Os serviços comparam com errors.Is.
var (
	// ErrNaoEncontrado indica que o id consultado não existe na coleção.
	ErrNaoEncontrado = errors.New("registro não encontrado")
)

// internal/core/auth/service.go
package auth

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/iterator"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
)

// ErrCredenciaisInvalidas cobre tanto usuário inexistente quanto senha errada,
// sem distinguir os dois casos na resposta.
var ErrCredenciaisInvalidas = errors.New("usuário ou senha inválidos")

type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type service struct {
	db        *firestore.Client
	jwtSecret []byte
}

// NewService recebe o segredo de assinatura já resolvido pela configuração
// do processo, o mesmo usado pelo middleware de autenticação.
func NewService(db *firestore.Client, jwtSecret []byte) Service {
	return &service{db: db, jwtSecret: jwtSecret}
}

// User representa a estrutura de um usuário no Firestore.
type User struct {
	Username     string   `firestore:"username"`
	PasswordHash string   `firestore:"passwordHash"`
	Roles        []string `firestore:"roles"`
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	query := s.db.Collection("users").Where("username", "==", username).Limit(1).Documents(ctx)
	defer query.Stop()

	doc, err := query.Next()
	if err == iterator.Done {
		return "", ErrCredenciaisInvalidas
	}
	if err != nil {
		responses.Logger().Error("erro ao consultar usuários", zap.Error(err))
		return "", errors.New("erro ao consultar o banco de dados")
	}

	var user User
	if err := doc.DataTo(&user); err != nil {
		return "", errors.New("erro ao ler dados do usuário")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrCredenciaisInvalidas
	}

	// O token carrega as roles para o PermissionMiddleware decidir o acesso.
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"roles":    user.Roles,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})

	tokenString, err := claims.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.New("erro ao gerar token de acesso")
	}

	return tokenString, nil
}

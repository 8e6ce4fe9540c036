// internal/api/middleware/auth.go
package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/api/responses"
)

const chaveClaims = "claims"

// AuthMiddleware valida o token Bearer do cabeçalho Authorization e guarda
// os claims no contexto da requisição. O segredo vem da configuração do
// processo; vazio, nenhum token é aceito.
func AuthMiddleware(jwtSecret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := validarToken(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			responses.Error(c, http.StatusUnauthorized, err.Error())
			c.Abort()
			return
		}
		c.Set(chaveClaims, claims)
		c.Next()
	}
}

func validarToken(cabecalho string, segredo []byte) (jwt.MapClaims, error) {
	if cabecalho == "" {
		return nil, errors.New("token de autorização não fornecido")
	}
	bruto, ok := strings.CutPrefix(cabecalho, "Bearer ")
	if !ok || bruto == "" {
		return nil, errors.New("formato do token inválido")
	}

	token, err := jwt.Parse(bruto, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de assinatura inesperado: %v", t.Header["alg"])
		}
		return segredo, nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("token inválido ou expirado")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("token inválido ou expirado")
	}
	return claims, nil
}

// PermissionMiddleware deixa passar apenas tokens cuja lista de roles
// contém a role exigida. Pressupõe o AuthMiddleware na cadeia.
func PermissionMiddleware(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !possuiRole(c, role) {
			responses.Error(c, http.StatusForbidden, "acesso negado: permissão necessária ausente")
			c.Abort()
			return
		}
		c.Next()
	}
}

func possuiRole(c *gin.Context, role string) bool {
	valor, ok := c.Get(chaveClaims)
	if !ok {
		return false
	}
	claims, ok := valor.(jwt.MapClaims)
	if !ok {
		return false
	}
	roles, ok := claims["roles"].([]any)
	if !ok {
		return false
	}
	for _, r := range roles {
		if s, ok := r.(string); ok && s == role {
			return true
		}
	}
	return false
}

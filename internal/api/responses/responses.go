// internal/api/responses/responses.go
package responses

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var logger *zap.Logger

// InitLogger inicializa o logger estruturado usado pelos handlers. Deve ser
// chamado uma única vez no início do processo.
func InitLogger() {
	l, err := zap.NewProduction()
	if err != nil {
		panic("não foi possível inicializar o logger: " + err.Error())
	}
	logger = l
}

// Logger expõe o logger global para os poucos pontos fora dos handlers que
// precisam registrar eventos (ex.: inicialização do servidor).
func Logger() *zap.Logger {
	if logger == nil {
		InitLogger()
	}
	return logger
}

// Error registra a falha e responde com o formato JSON de erro padrão da API.
// details é opcional e carrega a mensagem técnica do colaborador externo.
func Error(c *gin.Context, status int, msg string, details ...string) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.FullPath()),
	}
	body := gin.H{"error": msg}
	if len(details) > 0 {
		fields = append(fields, zap.String("details", details[0]))
		body["details"] = details[0]
	}
	Logger().Warn(msg, fields...)
	c.JSON(status, body)
}

// JSON responde com sucesso; mantido aqui para os handlers terem um único
// ponto de saída.
func JSON(c *gin.Context, status int, payload any) {
	c.JSON(status, payload)
}

// internal/api/handlers/occurrence_handler_test.go
package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func contextoComQuery(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ocorrencias?"+rawQuery, nil)
	return c
}

func TestPeriodoFromQuery(t *testing.T) {
	t.Run("padrão é o mês corrente até agora, no mesmo fuso", func(t *testing.T) {
		de, ate, err := periodoFromQuery(contextoComQuery(t, ""))
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		agora := time.Now()
		if de.Location() != ate.Location() {
			t.Errorf("limites em fusos diferentes: %v e %v", de.Location(), ate.Location())
		}
		if de.Year() != agora.Year() || de.Month() != agora.Month() || de.Day() != 1 {
			t.Errorf("início do período deveria ser o primeiro dia do mês, obteve %v", de)
		}
		if de.Hour() != 0 || de.Minute() != 0 {
			t.Errorf("início do período deveria ser meia-noite local, obteve %v", de)
		}
		if ate.Before(de) {
			t.Errorf("janela invertida: de=%v ate=%v", de, ate)
		}
	})

	t.Run("período explícito inclui o dia final inteiro", func(t *testing.T) {
		de, ate, err := periodoFromQuery(contextoComQuery(t, "de=2026-01-10&ate=2026-01-20"))
		if err != nil {
			t.Fatalf("erro inesperado: %v", err)
		}
		esperadoDe := time.Date(2026, time.January, 10, 0, 0, 0, 0, time.Local)
		if !de.Equal(esperadoDe) {
			t.Errorf("de = %v, esperado %v", de, esperadoDe)
		}
		esperadoAte := time.Date(2026, time.January, 20, 23, 59, 59, 0, time.Local)
		if !ate.Equal(esperadoAte) {
			t.Errorf("ate = %v, esperado %v", ate, esperadoAte)
		}
	})

	t.Run("data malformada devolve erro", func(t *testing.T) {
		if _, _, err := periodoFromQuery(contextoComQuery(t, "de=10/01/2026")); err == nil {
			t.Fatal("esperava erro para data fora do formato")
		}
	})
}

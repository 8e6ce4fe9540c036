// internal/core/status/service_test.go
package status

import (
	"testing"
	"time"
)

func dia(ano int, mes time.Month, d int) time.Time {
	return time.Date(ano, mes, d, 0, 0, 0, 0, time.UTC)
}

func TestClassificarCNH(t *testing.T) {
	svc := NewService()
	hoje := dia(2026, time.March, 15)

	t.Run("sem validade retorna desconhecido", func(t *testing.T) {
		c := svc.ClassificarCNH(nil, hoje)
		if c.Status != Desconhecido {
			t.Errorf("esperava %q, obteve %q", Desconhecido, c.Status)
		}
		if c.Validade != nil || c.DiasDiferenca != nil {
			t.Error("classificação desconhecida não deve carregar datas nem diferenças")
		}
	})

	t.Run("validade distante é valida", func(t *testing.T) {
		v := dia(2027, time.January, 10)
		c := svc.ClassificarCNH(&v, hoje)
		if c.Status != CNHValida {
			t.Errorf("esperava %q, obteve %q", CNHValida, c.Status)
		}
	})

	t.Run("dentro da janela de 3 meses é prest_vencer", func(t *testing.T) {
		v := dia(2026, time.May, 1)
		c := svc.ClassificarCNH(&v, hoje)
		if c.Status != CNHPrestVencer {
			t.Errorf("esperava %q, obteve %q", CNHPrestVencer, c.Status)
		}
		if c.DiasDiferenca == nil || *c.DiasDiferenca != 47 {
			t.Errorf("esperava 47 dias de diferença, obteve %v", c.DiasDiferenca)
		}
	})

	t.Run("exatamente 3 meses ainda alerta", func(t *testing.T) {
		v := dia(2026, time.June, 15)
		c := svc.ClassificarCNH(&v, hoje)
		if c.Status != CNHPrestVencer {
			t.Errorf("esperava %q no limite da janela, obteve %q", CNHPrestVencer, c.Status)
		}
	})

	t.Run("um dia além da janela é valida", func(t *testing.T) {
		v := dia(2026, time.June, 16)
		c := svc.ClassificarCNH(&v, hoje)
		if c.Status != CNHValida {
			t.Errorf("esperava %q, obteve %q", CNHValida, c.Status)
		}
	})

	t.Run("validade passada é vencida com dias negativos", func(t *testing.T) {
		v := dia(2026, time.February, 13)
		c := svc.ClassificarCNH(&v, hoje)
		if c.Status != CNHVencida {
			t.Errorf("esperava %q, obteve %q", CNHVencida, c.Status)
		}
		if c.DiasDiferenca == nil || *c.DiasDiferenca != -30 {
			t.Errorf("esperava -30 dias, obteve %v", c.DiasDiferenca)
		}
	})

	t.Run("vence hoje não é vencida", func(t *testing.T) {
		v := hoje
		c := svc.ClassificarCNH(&v, hoje)
		if c.Status != CNHPrestVencer {
			t.Errorf("vencimento hoje deve alertar, obteve %q", c.Status)
		}
	})
}

func TestClassificarOmnilink(t *testing.T) {
	svc := NewService()
	hoje := dia(2026, time.March, 15)

	t.Run("sem cadastro retorna desconhecido", func(t *testing.T) {
		c := svc.ClassificarOmnilink(nil, hoje)
		if c.Status != Desconhecido {
			t.Errorf("esperava %q, obteve %q", Desconhecido, c.Status)
		}
	})

	t.Run("validade é cadastro mais um ano", func(t *testing.T) {
		cad := dia(2025, time.June, 1)
		c := svc.ClassificarOmnilink(&cad, hoje)
		if c.Validade == nil || !c.Validade.Equal(dia(2026, time.June, 1)) {
			t.Errorf("esperava validade 2026-06-01, obteve %v", c.Validade)
		}
		if c.Status != OmnilinkPrestVencer {
			t.Errorf("esperava %q, obteve %q", OmnilinkPrestVencer, c.Status)
		}
	})

	t.Run("cadastro recente fica em dia", func(t *testing.T) {
		cad := dia(2026, time.January, 10)
		c := svc.ClassificarOmnilink(&cad, hoje)
		if c.Status != OmnilinkEmDia {
			t.Errorf("esperava %q, obteve %q", OmnilinkEmDia, c.Status)
		}
	})

	t.Run("cadastro antigo fica vencido com meses negativos", func(t *testing.T) {
		cad := dia(2024, time.January, 10)
		c := svc.ClassificarOmnilink(&cad, hoje)
		if c.Status != OmnilinkVencido {
			t.Errorf("esperava %q, obteve %q", OmnilinkVencido, c.Status)
		}
		if c.MesesDiferenca == nil || *c.MesesDiferenca >= 0 {
			t.Errorf("esperava meses negativos, obteve %v", c.MesesDiferenca)
		}
	})
}

func TestMesesEntre(t *testing.T) {
	casos := []struct {
		nome    string
		de, ate time.Time
		quer    int
	}{
		{"mesmo dia", dia(2026, time.March, 15), dia(2026, time.March, 15), 0},
		{"um mes exato", dia(2026, time.March, 15), dia(2026, time.April, 15), 1},
		{"quase um mes", dia(2026, time.March, 15), dia(2026, time.April, 14), 0},
		{"atravessa o ano", dia(2025, time.November, 1), dia(2026, time.February, 1), 3},
		{"passado tem sinal", dia(2026, time.March, 15), dia(2026, time.January, 10), -2},
	}
	for _, c := range casos {
		t.Run(c.nome, func(t *testing.T) {
			if got := mesesEntre(c.de, c.ate); got != c.quer {
				t.Errorf("mesesEntre(%v, %v) = %d, esperava %d", c.de, c.ate, got, c.quer)
			}
		})
	}
}

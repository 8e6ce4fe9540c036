// internal/store/firestoredb/resolvedor.go
package firestoredb

import "context"

// Resolvedor traduz ids de motorista e veículo para nome e placa. Referências
// soltas voltam vazias em vez de erro, para não quebrar relatórios.
type Resolvedor struct {
	motoristas *Motoristas
	veiculos   *Veiculos
}

func NovoResolvedor(motoristas *Motoristas, veiculos *Veiculos) *Resolvedor {
	return &Resolvedor{motoristas: motoristas, veiculos: veiculos}
}

func (r *Resolvedor) NomeMotorista(ctx context.Context, id string) string {
	m, err := r.motoristas.Buscar(ctx, id)
	if err != nil {
		return ""
	}
	return m.Nome
}

func (r *Resolvedor) PlacaVeiculo(ctx context.Context, id string) string {
	v, err := r.veiculos.Buscar(ctx, id)
	if err != nil {
		return ""
	}
	return v.Placa
}

// internal/domain/convert.go
package domain

import "time"

// Conversões entre o mapa de campos normalizados do fluxo de importação e os
// modelos tipados persistidos. A direção mapa → modelo é usada na aprovação
// (inserir/sobrescrever); a direção modelo → candidato, na submissão avulsa
// que passa pela mesma reconciliação do lote.

func texto(campos map[string]any, nome string) string {
	if v, ok := campos[nome].(string); ok {
		return v
	}
	return ""
}

func dataOuNil(campos map[string]any, nome string) *time.Time {
	if v, ok := campos[nome].(time.Time); ok {
		return &v
	}
	return nil
}

// MotoristaDeCampos materializa um Motorista a partir dos campos de um
// candidato ou pendência. Campos ausentes ficam zerados; status_indicacao
// nasce como nao_indicado. Motoristas não têm pares normalizado/bruto, então
// os textos brutos da pendência não entram aqui.
func MotoristaDeCampos(campos map[string]any) Motorista {
	return Motorista{
		Nome:                 texto(campos, "nome"),
		CPF:                  texto(campos, "cpf"),
		CNH:                  texto(campos, "cnh"),
		ValidadeCNH:          dataOuNil(campos, "validade_cnh"),
		DataCadastroOmnilink: dataOuNil(campos, "data_cadastro_omnilink"),
		Telefone:             texto(campos, "telefone"),
		Transportadora:       texto(campos, "transportadora"),
		StatusIndicacao:      IndicacaoNaoIndicado,
	}
}

// VeiculoDeCampos materializa um Veiculo a partir dos campos de um candidato
// ou pendência, preservando os textos brutos dos pares normalizado/bruto.
func VeiculoDeCampos(campos map[string]any, brutos map[string]string) Veiculo {
	v := Veiculo{
		Placa:           texto(campos, "placa"),
		Modelo:          texto(campos, "modelo"),
		Transportadora:  texto(campos, "transportadora"),
		PrioridadeTexto: brutos["prioridade"],
		BloqueadorTexto: brutos["bloqueador"],
	}
	if lista, ok := campos["tecnologias"].([]string); ok {
		v.Tecnologias = lista
	}
	if p, ok := campos["prioridade"].(int); ok {
		v.Prioridade = &p
	}
	if b, ok := campos["bloqueador"].(bool); ok {
		v.Bloqueador = &b
	}
	return v
}

// CamposDeMotorista devolve o mapa de campos de um motorista, no mesmo
// formato produzido pelo parser de importação.
func CamposDeMotorista(m Motorista) Candidato {
	campos := map[string]any{
		"nome": m.Nome,
		"cpf":  m.CPF,
		"cnh":  m.CNH,
	}
	if m.ValidadeCNH != nil {
		campos["validade_cnh"] = *m.ValidadeCNH
	}
	if m.DataCadastroOmnilink != nil {
		campos["data_cadastro_omnilink"] = *m.DataCadastroOmnilink
	}
	if m.Telefone != "" {
		campos["telefone"] = m.Telefone
	}
	if m.Transportadora != "" {
		campos["transportadora"] = m.Transportadora
	}
	return Candidato{Campos: campos}
}

// CamposDeVeiculo devolve o mapa de campos de um veículo, no mesmo formato
// produzido pelo parser de importação.
func CamposDeVeiculo(v Veiculo) Candidato {
	campos := map[string]any{"placa": v.Placa}
	brutos := map[string]string{}
	if v.Modelo != "" {
		campos["modelo"] = v.Modelo
	}
	if v.Transportadora != "" {
		campos["transportadora"] = v.Transportadora
	}
	if len(v.Tecnologias) > 0 {
		campos["tecnologias"] = v.Tecnologias
	}
	if v.Prioridade != nil {
		campos["prioridade"] = *v.Prioridade
	}
	if v.PrioridadeTexto != "" {
		brutos["prioridade"] = v.PrioridadeTexto
	}
	if v.Bloqueador != nil {
		campos["bloqueador"] = *v.Bloqueador
	}
	if v.BloqueadorTexto != "" {
		brutos["bloqueador"] = v.BloqueadorTexto
	}
	if len(brutos) == 0 {
		brutos = nil
	}
	return Candidato{Campos: campos, Brutos: brutos}
}

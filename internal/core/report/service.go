// internal/core/report/service.go
package report

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/LuisEduardoPedra/gestaoFrota/internal/domain"
	"github.com/LuisEduardoPedra/gestaoFrota/internal/storage"
)

// OcorrenciaStore é a fonte de dados do relatório.
type OcorrenciaStore interface {
	ListarPorPeriodo(ctx context.Context, de, ate time.Time) ([]domain.Ocorrencia, error)
}

// Linha é uma ocorrência já resolvida para exibição, com nome do motorista e
// placa em vez dos ids.
type Linha struct {
	Data      time.Time `json:"data"`
	Tipo      string    `json:"tipo"`
	Status    string    `json:"status"`
	Motorista string    `json:"motorista"`
	Placa     string    `json:"placa"`
	Local     string    `json:"local"`
	Descricao string    `json:"descricao"`
}

// Relatorio é o recorte de ocorrências de um período.
type Relatorio struct {
	De       time.Time `json:"de"`
	Ate      time.Time `json:"ate"`
	GeradoEm time.Time `json:"gerado_em"`
	Linhas   []Linha   `json:"linhas"`
}

// Resolvedor traduz ids de motorista e veículo para os textos do relatório.
// Implementado pelos stores; ids não encontrados voltam vazios, nunca erro,
// para o relatório não quebrar por referência solta.
type Resolvedor interface {
	NomeMotorista(ctx context.Context, id string) string
	PlacaVeiculo(ctx context.Context, id string) string
}

// Service gera o relatório de ocorrências nos três formatos de saída:
// planilha xlsx, mensagem de WhatsApp e publicação no bucket.
type Service interface {
	Gerar(ctx context.Context, de, ate time.Time) (Relatorio, error)
	GerarPlanilha(r Relatorio) ([]byte, error)
	MensagemWhatsApp(r Relatorio) string
	Publicar(ctx context.Context, r Relatorio) (string, error)
}

type service struct {
	ocorrencias OcorrenciaStore
	resolvedor  Resolvedor
	uploader    storage.Uploader
	agora       func() time.Time
}

// NewService cria o serviço de relatórios. O uploader pode ser nil quando o
// bucket não está configurado; nesse caso Publicar falha.
func NewService(ocorrencias OcorrenciaStore, resolvedor Resolvedor, uploader storage.Uploader) Service {
	return &service{
		ocorrencias: ocorrencias,
		resolvedor:  resolvedor,
		uploader:    uploader,
		agora:       time.Now,
	}
}

func (s *service) Gerar(ctx context.Context, de, ate time.Time) (Relatorio, error) {
	lista, err := s.ocorrencias.ListarPorPeriodo(ctx, de, ate)
	if err != nil {
		return Relatorio{}, fmt.Errorf("erro ao listar ocorrências do período: %w", err)
	}

	r := Relatorio{De: de, Ate: ate, GeradoEm: s.agora()}
	for _, o := range lista {
		linha := Linha{
			Data:      o.Data,
			Tipo:      o.Tipo,
			Status:    o.Status,
			Local:     o.Local,
			Descricao: o.Descricao,
		}
		if o.MotoristaID != "" {
			linha.Motorista = s.resolvedor.NomeMotorista(ctx, o.MotoristaID)
		}
		if o.VeiculoID != "" {
			linha.Placa = s.resolvedor.PlacaVeiculo(ctx, o.VeiculoID)
		}
		r.Linhas = append(r.Linhas, linha)
	}
	return r, nil
}

var cabecalhos = []string{"Data", "Tipo", "Status", "Motorista", "Placa", "Local", "Descrição"}

// GerarPlanilha monta o xlsx do relatório, uma ocorrência por linha.
func (s *service) GerarPlanilha(r Relatorio) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Ocorrências"
	f.SetSheetName("Sheet1", sheet)

	for i, h := range cabecalhos {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, l := range r.Linhas {
		valores := []any{
			l.Data.Format("02/01/2006"),
			l.Tipo,
			l.Status,
			l.Motorista,
			l.Placa,
			l.Local,
			l.Descricao,
		}
		for j, v := range valores {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar planilha: %w", err)
	}
	return buf.Bytes(), nil
}

// MensagemWhatsApp monta o texto de compartilhamento do relatório. A saída é
// determinística para o mesmo relatório.
func (s *service) MensagemWhatsApp(r Relatorio) string {
	var b strings.Builder
	b.WriteString("*Relatório de Ocorrências*\n")
	fmt.Fprintf(&b, "Período: %s a %s\n", r.De.Format("02/01/2006"), r.Ate.Format("02/01/2006"))

	if len(r.Linhas) == 0 {
		b.WriteString("\nNenhuma ocorrência no período.\n")
	}
	for _, l := range r.Linhas {
		b.WriteString("\n")
		fmt.Fprintf(&b, "*%s* - %s (%s)\n", strings.ToUpper(l.Tipo), l.Data.Format("02/01/2006"), l.Status)
		if l.Placa != "" {
			fmt.Fprintf(&b, "Placa: %s\n", l.Placa)
		}
		if l.Motorista != "" {
			fmt.Fprintf(&b, "Motorista: %s\n", l.Motorista)
		}
		if l.Local != "" {
			fmt.Fprintf(&b, "Local: %s\n", l.Local)
		}
		if l.Descricao != "" {
			fmt.Fprintf(&b, "%s\n", l.Descricao)
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Total: %d ocorrências", len(r.Linhas))
	return b.String()
}

// Publicar grava a planilha do relatório no bucket e devolve a URL pública.
func (s *service) Publicar(ctx context.Context, r Relatorio) (string, error) {
	if s.uploader == nil {
		return "", fmt.Errorf("bucket de relatórios não configurado")
	}
	conteudo, err := s.GerarPlanilha(r)
	if err != nil {
		return "", err
	}
	caminho := fmt.Sprintf("relatorios/ocorrencias_%s_%s.xlsx", r.De.Format("20060102"), r.Ate.Format("20060102"))
	url, err := s.uploader.Enviar(ctx, caminho, bytes.NewReader(conteudo), "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err != nil {
		return "", fmt.Errorf("erro ao publicar relatório: %w", err)
	}
	return url, nil
}

package infra

// pdf.go: printable order sheet ("hoja de pedido") using go-pdf/fpdf.
// Generates an A4 sheet with the order header fields and a fases table, the
// document that production centers pin to the physical job.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Fraancoboss/WTRACKER/internal/dto"

	"github.com/go-pdf/fpdf"
)

// GenerarHojaPedido writes the order sheet PDF for a pedido into storagePath
// (created if needed) and returns the absolute path to the generated file.
func GenerarHojaPedido(p *dto.PedidoResponse, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("pedido_%s.pdf", p.ID)
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "WTRACKER", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Hoja de Pedido", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	// ── Order fields ─────────────────────────────────────────────────────────
	campo := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(contentW-45, 7, value, "", 1, "L", false, 0, "")
	}
	campo("Pedido:", p.ID)
	campo("Centro / Cliente:", p.Centro)
	campo("Material:", p.Material)
	campo("Fecha de entrada:", p.FechaEntrada)
	campo("Fecha de vencimiento:", p.FechaVencimiento)
	campo("Estado:", p.Estado)
	transporte := "No"
	if p.Transporte {
		transporte = "Sí"
	}
	campo("Transporte:", transporte)
	if p.Incidencias != nil && *p.Incidencias != "" {
		campo("Incidencias:", *p.Incidencias)
	}

	pdf.Ln(4)
	pdf.Line(15, pdf.GetY(), pageW-15, pdf.GetY())
	pdf.Ln(4)

	// ── Fases table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.25 // tipo
	col2 := contentW * 0.20 // estado
	col3 := contentW * 0.175 // inicio
	col4 := contentW * 0.175 // fin
	col5 := contentW * 0.20 // observaciones

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 7, "Fase", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 7, "Estado", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "Inicio", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, "Fin", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col5, 7, "Observaciones", "B", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	if len(p.Fases) == 0 {
		pdf.CellFormat(contentW, 7, "Sin fases registradas", "", 1, "L", false, 0, "")
	}
	for _, f := range p.Fases {
		inicio, fin, obs := "-", "-", ""
		if f.FechaInicio != nil {
			inicio = *f.FechaInicio
		}
		if f.FechaFin != nil {
			fin = *f.FechaFin
		}
		if f.Observaciones != nil {
			obs = *f.Observaciones
			if len(obs) > 28 {
				obs = obs[:27] + "…"
			}
		}
		pdf.CellFormat(col1, 7, f.Tipo, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 7, f.Estado, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 7, inicio, "", 0, "L", false, 0, "")
		pdf.CellFormat(col4, 7, fin, "", 0, "L", false, 0, "")
		pdf.CellFormat(col5, 7, obs, "", 1, "L", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}

	return filePath, nil
}

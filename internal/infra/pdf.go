package infra

// pdf.go renders the report endpoints as A4 PDFs with go-pdf/fpdf.
// Core fonts are cp1252, so every string goes through the unicode translator.

import (
	"fmt"
	"io"

	"evidencias/internal/dto"

	"github.com/go-pdf/fpdf"
)

type columna struct {
	titulo string
	ancho  float64
	align  string
}

func nuevoReporte(titulo string) (*fpdf.Fpdf, func(string) string) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 14)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-10)
		pdf.SetFont("Helvetica", "I", 7)
		pdf.CellFormat(0, 4, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(titulo), "", 1, "L", false, 0, "")
	return pdf, tr
}

func encabezado(pdf *fpdf.Fpdf, tr func(string) string, cols []columna) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.ancho, 6, tr(c.titulo), "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 8)
}

func fila(pdf *fpdf.Fpdf, tr func(string) string, cols []columna, valores ...string) {
	for i, c := range cols {
		v := truncar(valores[i], int(c.ancho/1.7))
		pdf.CellFormat(c.ancho, 5, tr(v), "1", 0, c.align, false, 0, "")
	}
	pdf.Ln(-1)
}

func truncar(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func valor(p *string) string {
	if p == nil {
		return "-"
	}
	return *p
}

// WriteReporteAprobacionesPDF renders the approvals report to w.
func WriteReporteAprobacionesPDF(w io.Writer, rep *dto.ReporteAprobacionesResponse) error {
	pdf, tr := nuevoReporte("Reporte de aprobaciones y rechazos")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr("Fecha de generación: "+rep.GeneradoEn.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr(fmt.Sprintf("Filtros: Estado = %s, Desde = %s, Hasta = %s",
		rep.Filtros["estado"], orTodos(rep.Filtros["desde"]), orTodos(rep.Filtros["hasta"]))), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Pendientes: %d   Aprobados: %d   Rechazados: %d",
		rep.Totales["pendiente"], rep.Totales["aprobado"], rep.Totales["rechazado"]), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	cols := []columna{
		{"#", 8, "C"},
		{"Código", 28, "L"},
		{"Técnico", 30, "L"},
		{"Registro", 22, "C"},
		{"Estado", 22, "C"},
		{"Aprobador", 28, "L"},
		{"Justificación", 48, "L"},
	}
	encabezado(pdf, tr, cols)
	for i, e := range rep.Expedientes {
		fila(pdf, tr, cols,
			fmt.Sprintf("%d", i+1),
			e.Codigo,
			e.TecnicoUsername,
			e.FechaRegistro.Format("02/01/2006"),
			e.Estado,
			orGuion(e.AprobadorUsername),
			valor(e.Justificacion),
		)
	}
	if len(rep.Expedientes) == 0 {
		pdf.CellFormat(0, 6, tr("No hay expedientes para los filtros seleccionados."), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: aprobaciones: %w", err)
	}
	return nil
}

// WriteReporteIndiciosPDF renders the evidence report to w.
func WriteReporteIndiciosPDF(w io.Writer, rep *dto.ReporteIndiciosResponse) error {
	pdf, tr := nuevoReporte("Reporte de indicios")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 5, tr("Fecha de generación: "+rep.GeneradoEn.Format("02/01/2006 15:04")), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, tr("Expediente: "+rep.Filtros["expediente"]), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Total: %d", rep.Total), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	cols := []columna{
		{"#", 8, "C"},
		{"Expediente", 26, "L"},
		{"Descripción", 50, "L"},
		{"Color", 20, "L"},
		{"Tamaño", 20, "L"},
		{"Peso", 16, "R"},
		{"Ubicación", 46, "L"},
	}
	encabezado(pdf, tr, cols)
	for i, ind := range rep.Indicios {
		peso := "-"
		if ind.Peso.Valid {
			peso = ind.Peso.Decimal.StringFixed(3)
		}
		fila(pdf, tr, cols,
			fmt.Sprintf("%d", i+1),
			ind.ExpedienteCodigo,
			ind.Descripcion,
			valor(ind.Color),
			valor(ind.Tamano),
			peso,
			valor(ind.Ubicacion),
		)
	}
	if len(rep.Indicios) == 0 {
		pdf.CellFormat(0, 6, tr("No hay indicios registrados."), "", 1, "L", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: indicios: %w", err)
	}
	return nil
}

func orTodos(s string) string {
	if s == "" {
		return "Todos"
	}
	return s
}

func orGuion(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

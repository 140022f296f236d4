package infra

// pdf.go — comprobante de compra en PDF con go-pdf/fpdf.
// Genera un comprobante A5 con:
//   - Encabezado del negocio
//   - Número de compra y fecha
//   - Tabla de detalles (producto, cantidad, precio unitario, subtotal)
//   - Total en negrita

import (
	"bytes"
	"fmt"

	"github.com/Juan-JM/proyecto2/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerarComprobantePDF renders a purchase receipt and returns the PDF bytes,
// ready to stream on an HTTP response.
func GenerarComprobantePDF(compra *model.Compra) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20 // total margins = 20mm

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(contentW, 8, "Comercial", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Comprobante de Compra a Proveedor", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	// ── Compra info ──────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, fmt.Sprintf("Compra %s", compra.ID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 4, compra.FechaCompra.Format("02/01/2006  15:04"), "", 1, "L", false, 0, "")
	if compra.Usuario != nil {
		pdf.CellFormat(contentW, 4, "Registrada por: "+compra.Usuario.Nombre, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Detalle header ───────────────────────────────────────────────────────
	col1 := contentW * 0.44 // producto
	col2 := contentW * 0.14 // cantidad
	col3 := contentW * 0.20 // precio unitario
	col4 := contentW * 0.22 // subtotal

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 5, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 5, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 5, "P. Unit", "B", 0, "R", false, 0, "")
	pdf.CellFormat(col4, 5, "Subtotal", "B", 1, "R", false, 0, "")

	// ── Detalle rows ─────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "", 8)
	for _, det := range compra.Detalles {
		nombre := ""
		if det.Producto != nil {
			nombre = det.Producto.Nombre
		}
		if len(nombre) > 26 {
			nombre = nombre[:25] + "…"
		}
		subtotal := det.PrecioUnitario.Mul(decimal.NewFromInt(int64(det.Cantidad)))
		pdf.CellFormat(col1, 5, nombre, "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", det.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+det.PrecioUnitario.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.CellFormat(col4, 5, "$"+subtotal.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2+col3, 7, "TOTAL:", "", 0, "L", false, 0, "")
	pdf.CellFormat(col4, 7, "$"+compra.Total.StringFixed(2), "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

package worker

// alerta_worker.go
// Processes low-stock alert jobs from QueueAlertaStock and notifies the
// inventory mailbox via SMTP.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Juan-JM/proyecto2/internal/infra"

	"github.com/rs/zerolog/log"
)

// AlertaStockPayload is the job envelope sent to QueueAlertaStock.
type AlertaStockPayload struct {
	ProductoID  string `json:"producto_id"`
	Producto    string `json:"producto"`
	Stock       int    `json:"stock"`
	StockMinimo int    `json:"stock_minimo"`
}

// AlertaWorker sends low-stock notification emails.
type AlertaWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewAlertaWorker(mailer *infra.Mailer, to string) *AlertaWorker {
	return &AlertaWorker{mailer: mailer, to: to}
}

// Process sends the alert email for one low-stock event.
func (w *AlertaWorker) Process(_ context.Context, raw json.RawMessage) {
	var payload AlertaStockPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("alerta_worker: invalid payload")
		return
	}
	if w.to == "" {
		log.Warn().Msg("alerta_worker: no alert email configured — skipping")
		return
	}

	subject := fmt.Sprintf("Stock bajo: %s", payload.Producto)
	body := fmt.Sprintf(
		"El producto %q (%s) quedó con stock %d, por debajo del mínimo configurado (%d).\n\nRevise el inventario y programe una reposición.",
		payload.Producto, payload.ProductoID, payload.Stock, payload.StockMinimo,
	)

	if err := w.mailer.SendAlerta(w.to, subject, body); err != nil {
		log.Error().Err(err).Str("producto_id", payload.ProductoID).Msg("alerta_worker: failed to send email")
		return
	}
	log.Info().Str("producto_id", payload.ProductoID).Int("stock", payload.Stock).Msg("alerta_worker: alert sent")
}

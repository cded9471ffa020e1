package worker

// receipt_worker.go
// Processes receipt jobs from QueueReceipts: generates the PDF ticket for a
// completed sale and, when the customer left an email, sends it via SMTP.
// SMTP goes through a circuit breaker and retries with exponential backoff
// (max 3 attempts); exhausted jobs land in the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/artmorais77/backend-orise/internal/infra"
	"github.com/artmorais77/backend-orise/internal/repository"
)

// ReceiptJobPayload is the job envelope sent to QueueReceipts.
type ReceiptJobPayload struct {
	SaleID        string `json:"sale_id"`
	CustomerEmail string `json:"customer_email,omitempty"`
}

// ReceiptWorker turns completed sales into PDF receipts and delivers them.
type ReceiptWorker struct {
	sales          repository.SaleRepository
	users          repository.UserRepository
	mailer         *infra.Mailer
	breaker        *infra.CircuitBreaker
	pdfStoragePath string
}

func NewReceiptWorker(
	sales repository.SaleRepository,
	users repository.UserRepository,
	mailer *infra.Mailer,
	breaker *infra.CircuitBreaker,
	pdfStoragePath string,
) *ReceiptWorker {
	return &ReceiptWorker{
		sales:          sales,
		users:          users,
		mailer:         mailer,
		breaker:        breaker,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single receipt job:
//  1. Parse ReceiptJobPayload from the job envelope
//  2. Fetch the sale (with items) from DB
//  3. Generate the PDF ticket
//  4. If a customer email was given, send it via SMTP with retry; after the
//     third failure the job is parked in the DLQ
//
// priorAttempts is non-zero when the job was redriven from the DLQ.
func (w *ReceiptWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage, priorAttempts int) {
	var payload ReceiptJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("receipt_worker: invalid payload")
		return
	}

	saleID, err := uuid.Parse(payload.SaleID)
	if err != nil {
		log.Error().Str("sale_id", payload.SaleID).Msg("receipt_worker: invalid sale_id")
		return
	}

	sale, err := w.sales.FindByID(ctx, saleID)
	if err != nil {
		log.Error().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: sale not found")
		return
	}

	storeName := "Orise"
	if store, err := w.users.FindStoreByID(ctx, sale.StoreID); err == nil {
		storeName = store.Name
	}

	pdfPath, err := infra.GenerateReceiptPDF(sale, storeName, w.pdfStoragePath)
	if err != nil {
		log.Warn().Err(err).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generation failed")
		return
	}
	log.Info().Str("pdf", pdfPath).Str("sale_id", payload.SaleID).Msg("receipt_worker: PDF generated")

	if payload.CustomerEmail == "" {
		return
	}

	subject := fmt.Sprintf("Comprovante %s — Venda #%d", storeName, sale.Code)
	body := fmt.Sprintf("Segue em anexo o comprovante da sua compra.\nTotal: R$%s", sale.Total.StringFixed(2))

	const maxAttempts = 3
	sendErr := withRetry(ctx, maxAttempts, func(attempt int) error {
		err := w.breaker.Execute(func() error {
			return w.mailer.SendReceipt(payload.CustomerEmail, subject, body, pdfPath)
		})
		if err != nil {
			log.Warn().
				Err(err).
				Int("attempt", attempt+1).
				Str("sale_id", payload.SaleID).
				Msg("receipt_worker: SMTP attempt failed, retrying")
		}
		return err
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Str("sale_id", payload.SaleID).Msg("receipt_worker: email failed after all retries")
		SendToDLQ(ctx, rdb, QueueReceipts, "receipt", raw, sendErr.Error(), priorAttempts+maxAttempts)
		return
	}
	log.Info().Str("to", payload.CustomerEmail).Str("sale_id", payload.SaleID).Msg("receipt_worker: receipt sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

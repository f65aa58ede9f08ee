package api

import (
	"errors"
	"io"
	"net/http"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/infra/logging"
	"art-gallery-paywall/internal/infra/metrics"
	"art-gallery-paywall/internal/infra/payment"
	"art-gallery-paywall/internal/usecase"
)

// Stripe documents 64KB payloads; 1MB leaves generous headroom while still
// bounding what an unauthenticated caller can make us buffer.
const maxWebhookBody = 1 << 20

// handleStripeWebhook is the single ingress for provider truth. The signature
// check is the endpoint's authentication; every verified event is acknowledged
// with 200 (including duplicates and ignored types) so the provider stops
// retrying. Only a persistence failure returns 500, which asks for a retry.
func (h *Handler) handleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	log := logging.With(r.Context(), h.log)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unreadable payload", nil)
		return
	}

	ev, err := payment.VerifyAndParse(body, r.Header.Get("Stripe-Signature"), h.webhookSecret)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			metrics.IncWebhookSignatureFailure()
			log.Warn().Err(err).Msg("webhook signature verification failed")
			writeError(w, http.StatusBadRequest, "Invalid signature", nil)
			return
		}
		log.Warn().Err(err).Msg("webhook payload malformed")
		writeError(w, http.StatusBadRequest, "Malformed payload", nil)
		return
	}

	outcome, err := h.webhooks.Ingest(r.Context(), ev)
	if err != nil {
		metrics.IncWebhookEvent(ev.RawType, "error")
		log.Error().Err(err).Str("event_id", ev.ID).Msg("webhook ingest failed")
		writeError(w, http.StatusInternalServerError, "Event processing failed", nil)
		return
	}

	metrics.IncWebhookEvent(ev.RawType, string(outcome))
	if outcome == usecase.IngestApplied {
		h.recordApplied(ev)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (h *Handler) recordApplied(ev *model.ProviderEvent) {
	switch ev.Kind {
	case model.ProviderEventPaymentSucceeded:
		metrics.IncPurchase(string(ev.Payment.Kind))
		metrics.AddPurchaseRevenue(ev.Payment.Currency, ev.Payment.AmountPence)
	case model.ProviderEventSubscriptionUpsert:
		status := string(model.SubscriptionStatusInactive)
		if ev.Subscription.Active {
			status = string(model.SubscriptionStatusActive)
		}
		metrics.IncSubscriptionUpserted(status)
	case model.ProviderEventSubscriptionDeleted:
		metrics.IncSubscriptionUpserted(string(model.SubscriptionStatusInactive))
	}
}

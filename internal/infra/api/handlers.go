package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"art-gallery-paywall/internal/domain"
	"art-gallery-paywall/internal/domain/model"
	"art-gallery-paywall/internal/domain/ports/repository"
	"art-gallery-paywall/internal/infra/logging"
	"art-gallery-paywall/internal/infra/metrics"
	"art-gallery-paywall/internal/infra/redis"
	"art-gallery-paywall/internal/usecase"
)

const maxRequestBody = 64 << 10 // JSON request bodies are tiny

// Handler carries the use cases behind the JSON endpoints. All price and
// entitlement decisions happen in the use cases; the handler only decodes,
// dispatches and maps errors to status codes.
type Handler struct {
	intents      usecase.IntentUseCase
	webhooks     usecase.WebhookUseCase
	entitlements usecase.EntitlementUseCase
	artworks     repository.ArtworkRepository

	limiter       *redis.RateLimiter
	intentLimit   int
	webhookSecret string

	log *zerolog.Logger
}

func NewHandler(
	intents usecase.IntentUseCase,
	webhooks usecase.WebhookUseCase,
	entitlements usecase.EntitlementUseCase,
	artworks repository.ArtworkRepository,
	limiter *redis.RateLimiter,
	intentLimit int,
	webhookSecret string,
	logger *zerolog.Logger,
) *Handler {
	l := logger.With().Str("component", "API").Logger()
	return &Handler{
		intents:       intents,
		webhooks:      webhooks,
		entitlements:  entitlements,
		artworks:      artworks,
		limiter:       limiter,
		intentLimit:   intentLimit,
		webhookSecret: webhookSecret,
		log:           &l,
	}
}

type createIntentRequest struct {
	Kind         string  `json:"kind"`
	ArtworkID    string  `json:"artworkId"`
	UserID       string  `json:"userId"`
	ClaimedPrice float64 `json:"claimedPrice"`
	Quantity     int     `json:"quantity"`
}

type artworkSummary struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

type createIntentResponse struct {
	ClientSecret string          `json:"clientSecret"`
	Artwork      *artworkSummary `json:"artwork,omitempty"`
}

func (h *Handler) createPaymentIntent(w http.ResponseWriter, r *http.Request) {
	if !h.allowIntent(w, r) {
		return
	}

	var req createIntentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	userID := req.UserID
	if sub := logging.UserID(r.Context()); sub != "" {
		userID = sub
	}

	res, err := h.intents.CreateIntent(r.Context(), usecase.CreateIntentRequest{
		Kind:         model.PurchaseKind(req.Kind),
		ArtworkID:    req.ArtworkID,
		UserID:       userID,
		ClaimedPrice: req.ClaimedPrice,
		Quantity:     req.Quantity,
	})
	if err != nil {
		h.intentError(w, r, req.Kind, err)
		return
	}

	metrics.IncIntent(req.Kind, "created")
	out := createIntentResponse{ClientSecret: res.ClientSecret}
	if res.Artwork != nil {
		out.Artwork = &artworkSummary{ID: res.Artwork.ID, Price: res.Artwork.Price()}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) intentError(w http.ResponseWriter, r *http.Request, kind string, err error) {
	var mismatch *domain.PriceMismatchError
	switch {
	case errors.As(err, &mismatch):
		metrics.IncIntent(kind, "price_mismatch")
		writeError(w, http.StatusBadRequest, "Price mismatch", map[string]any{
			"expected": mismatch.Expected,
			"received": mismatch.Claimed,
		})
	case errors.Is(err, domain.ErrInvalidArgument):
		metrics.IncIntent(kind, "rejected")
		writeError(w, http.StatusBadRequest, "Missing required parameters", nil)
	case errors.Is(err, domain.ErrNotFound):
		metrics.IncIntent(kind, "rejected")
		writeError(w, http.StatusNotFound, "Artwork not found", nil)
	default:
		metrics.IncIntent(kind, "failed")
		logging.With(r.Context(), h.log).Error().Err(err).Msg("intent creation failed")
		writeError(w, http.StatusInternalServerError, "Payment processing failed", nil)
	}
}

type createSubscriptionRequest struct {
	UserID       string `json:"userId"`
	Email        string `json:"email"`
	Type         string `json:"subscriptionType"`
	IsDiscounted bool   `json:"isDiscounted"`
}

type createSubscriptionResponse struct {
	ClientSecret   string `json:"clientSecret"`
	SubscriptionID string `json:"subscriptionId"`
}

func (h *Handler) createSubscription(w http.ResponseWriter, r *http.Request) {
	if !h.allowIntent(w, r) {
		return
	}

	var req createSubscriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	userID := req.UserID
	if sub := logging.UserID(r.Context()); sub != "" {
		userID = sub
	}
	email := req.Email
	if e := emailFrom(r.Context()); e != "" {
		email = e
	}

	res, err := h.intents.CreateSubscription(r.Context(), userID, email, model.SubscriptionType(req.Type), req.IsDiscounted)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidArgument):
			metrics.IncIntent(string(model.PurchaseKindSubscription), "rejected")
			writeError(w, http.StatusBadRequest, "Missing required parameters", nil)
		default:
			metrics.IncIntent(string(model.PurchaseKindSubscription), "failed")
			logging.With(r.Context(), h.log).Error().Err(err).Msg("subscription creation failed")
			writeError(w, http.StatusInternalServerError, "Payment processing failed", nil)
		}
		return
	}

	metrics.IncIntent(string(model.PurchaseKindSubscription), "created")
	writeJSON(w, http.StatusOK, createSubscriptionResponse{
		ClientSecret:   res.ClientSecret,
		SubscriptionID: res.ProviderSubscriptionID,
	})
}

type entitlementResponse struct {
	PurchasedArtworkIDs []string `json:"purchasedArtworkIds"`
	HasLifetimeAccess   bool     `json:"hasLifetimeAccess"`
	SubscriptionActive  bool     `json:"subscriptionActive"`
}

func (h *Handler) getEntitlements(w http.ResponseWriter, r *http.Request) {
	userID := logging.UserID(r.Context())
	if userID == "" {
		userID = r.URL.Query().Get("userId")
	}
	if userID == "" {
		writeError(w, http.StatusBadRequest, "Missing required parameters", nil)
		return
	}

	st, err := h.entitlements.Fetch(r.Context(), userID)
	if err != nil {
		logging.With(r.Context(), h.log).Error().Err(err).Msg("entitlement fetch failed")
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
		return
	}

	ids := make([]string, 0, len(st.PurchasedArtworkIDs))
	for id := range st.PurchasedArtworkIDs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	writeJSON(w, http.StatusOK, entitlementResponse{
		PurchasedArtworkIDs: ids,
		HasLifetimeAccess:   st.HasLifetimeAccess,
		SubscriptionActive:  st.SubscriptionActive,
	})
}

type artworkResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	ImageURL   string  `json:"imageUrl"`
	BlurredURL string  `json:"blurredUrl"`
	Price      float64 `json:"price"`
}

func (h *Handler) listArtworks(w http.ResponseWriter, r *http.Request) {
	arts, err := h.artworks.ListAll(r.Context(), nil)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		logging.With(r.Context(), h.log).Error().Err(err).Msg("artwork listing failed")
		writeError(w, http.StatusInternalServerError, "Internal error", nil)
		return
	}

	out := make([]artworkResponse, 0, len(arts))
	for _, a := range arts {
		out = append(out, artworkResponse{
			ID:         a.ID,
			Title:      a.Title,
			ImageURL:   a.ImageURL,
			BlurredURL: a.BlurredURL,
			Price:      a.Price(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"artworks": out})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// allowIntent applies the per-address rate limit to intent-shaped endpoints.
// A limiter failure fails open: losing Redis should not block checkout.
func (h *Handler) allowIntent(w http.ResponseWriter, r *http.Request) bool {
	if h.limiter == nil || h.intentLimit <= 0 {
		return true
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	ok, err := h.limiter.Allow(r.Context(), redis.IntentKey(host), h.intentLimit, time.Minute)
	if err != nil {
		logging.With(r.Context(), h.log).Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	if !ok {
		writeError(w, http.StatusTooManyRequests, "Too many requests", nil)
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	dec := json.NewDecoder(r.Body)
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string, details map[string]any) {
	body := map[string]any{"error": msg}
	for k, v := range details {
		body[k] = v
	}
	writeJSON(w, status, body)
}

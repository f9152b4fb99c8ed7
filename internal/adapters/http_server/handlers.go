// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"p2p_estate/internal/app"
	"p2p_estate/internal/domain"
	"p2p_estate/internal/fees"
)

const maxBodyBytes = 1 << 20

type Handlers struct {
	D       *app.DashboardService
	Sellers SellerLookup
	Now     func() time.Time
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	if h.Now == nil {
		h.Now = time.Now
	}
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/fees", h.getFees)
	s.mux.Get("/v1/add-ons", h.listAddOns)
	s.mux.Post("/v1/savings", h.postSavings)

	s.mux.Group(func(r chi.Router) {
		r.Use(Session(h.Sellers))
		r.Get("/v1/me/dashboard", h.getDashboard)
		r.Get("/v1/me/actions", h.getActions)
		r.Get("/v1/properties/{id}/actions", h.getPropertyActions)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrCorruptRecord):
		log.Error().Err(err).Msg("stored data rejected")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Invalid input", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Forbidden", "")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "")
	default:
		log.Error().Err(err).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

// writeJSON writes v with an ETag and honours If-None-Match.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write body")
	}
}

// ---- fees ----

// manView mirrors yen amounts in 10,000-yen units for display.
type manView struct {
	Price       decimal.Decimal `json:"price"`
	StandardFee decimal.Decimal `json:"standard_fee"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Savings     decimal.Decimal `json:"savings"`
}

type feeResponse struct {
	fees.Breakdown
	Savings decimal.Decimal `json:"savings"`
	Man     manView         `json:"man"`
}

func (h *Handlers) getFees(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("price")
	if raw == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid input", "price is required")
		return
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid input", "price must be a number")
		return
	}
	price, err := fees.PriceFromFloat(v)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := fees.Calculate(price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, feeResponse{
		Breakdown: b,
		Savings:   b.Savings(),
		Man: manView{
			Price:       fees.ToMan(decimal.NewFromInt(b.Price)),
			StandardFee: fees.ToMan(b.StandardFee),
			PlatformFee: fees.ToMan(b.PlatformFee),
			Savings:     fees.ToMan(b.Savings()),
		},
	})
}

func (h *Handlers) listAddOns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, h.D.Catalog().AddOns())
}

// ---- savings ----

type savingsRequest struct {
	Properties []struct {
		ID     int64   `json:"id"`
		Price  float64 `json:"price"`
		Status string  `json:"status"`
	} `json:"properties"`
	AddOns []string `json:"add_ons"`
}

func (h *Handlers) postSavings(w http.ResponseWriter, r *http.Request) {
	var req savingsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", err.Error())
		return
	}
	if dec.More() {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "unexpected data after JSON object")
		return
	}
	props := make([]domain.Property, 0, len(req.Properties))
	for i, in := range req.Properties {
		price, err := fees.PriceFromFloat(in.Price)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid input", "properties["+strconv.Itoa(i)+"]: "+err.Error())
			return
		}
		st, err := domain.ParseStatus(in.Status)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid input", "properties["+strconv.Itoa(i)+"]: "+err.Error())
			return
		}
		props = append(props, domain.Property{ID: in.ID, Price: price, Status: st})
	}
	s, err := h.D.Catalog().Savings(props, req.AddOns)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s); err != nil {
		log.Error().Err(err).Msg("failed to write savings body")
	}
}

// ---- seller views ----

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

func (h *Handlers) getDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := domain.SessionFrom(r.Context())
	d, err := h.D.Dashboard(r.Context(), sess.SellerID, splitList(r.URL.Query().Get("add_ons")), h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, d)
}

func (h *Handlers) getActions(w http.ResponseWriter, r *http.Request) {
	sess, _ := domain.SessionFrom(r.Context())
	out, err := h.D.Actions(r.Context(), sess.SellerID, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) getPropertyActions(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	sess, _ := domain.SessionFrom(r.Context())
	a, err := h.D.PropertyActions(r.Context(), sess, id, h.Now())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, r, a)
}

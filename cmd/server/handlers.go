package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/collabglam/contractflow/internal/domain"
	"github.com/collabglam/contractflow/internal/platform/auth"
	"github.com/collabglam/contractflow/internal/platform/httpserver"
	"github.com/collabglam/contractflow/internal/repo"
	"github.com/collabglam/contractflow/internal/service/contracts"
)

// apiHandler is deliberately thin: decode, delegate, encode. All guards and
// state decisions live in the contracts service.
type apiHandler struct {
	service *contracts.Service
}

func (h *apiHandler) register(mux *http.ServeMux, protect func(http.Handler) http.Handler) {
	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, protect(fn))
	}

	handle("POST /v1/contracts", h.initiate)
	handle("GET /v1/contracts", h.list)
	handle("GET /v1/contracts/{id}", h.get)
	handle("POST /v1/contracts/{id}/view", h.markViewed)
	handle("POST /v1/contracts/{id}/confirm/brand", h.brandConfirm)
	handle("POST /v1/contracts/{id}/confirm/influencer", h.influencerConfirm)
	handle("PATCH /v1/contracts/{id}/brand", h.brandUpdate)
	handle("PATCH /v1/contracts/{id}/influencer", h.influencerUpdate)
	handle("PATCH /v1/contracts/{id}/admin", h.adminUpdate)
	handle("POST /v1/contracts/{id}/finalize", h.finalize)
	handle("POST /v1/contracts/{id}/sign", h.sign)
	handle("POST /v1/contracts/{id}/reject", h.reject)
	handle("POST /v1/contracts/{id}/resend", h.resend)
	handle("GET /v1/contracts/{id}/preview", h.preview)
	handle("GET /v1/contracts/{id}/document", h.document)
}

func actorID(r *http.Request) string {
	if identity, ok := auth.IdentityFromContext(r.Context()); ok {
		return identity.Subject
	}
	return "anonymous"
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpserver.WriteError(w, domain.ValidationFailed("invalid request body: %s", err.Error()))
		return false
	}
	return true
}

func (h *apiHandler) initiate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		BrandID      string `json:"brand_id"`
		InfluencerID string `json:"influencer_id"`
		CampaignID   string `json:"campaign_id"`
		Draft        bool   `json:"draft"`
	}
	if !decode(w, r, &body) {
		return
	}
	c, err := h.service.Initiate(r.Context(), contracts.InitiateInput{
		BrandID:      body.BrandID,
		InfluencerID: body.InfluencerID,
		CampaignID:   body.CampaignID,
		ActorUserID:  actorID(r),
		Draft:        body.Draft,
	})
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusCreated, c)
}

func (h *apiHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.service.List(r.Context(), repo.ContractFilter{
		BrandID:      q.Get("brand_id"),
		InfluencerID: q.Get("influencer_id"),
		CampaignID:   q.Get("campaign_id"),
		Status:       domain.NormalizeStatus(q.Get("status")),
	})
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, map[string]any{"contracts": out})
}

func (h *apiHandler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) markViewed(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if !decode(w, r, &body) {
		return
	}
	role := domain.Role(body.Role)
	if role == "" {
		role = domain.RoleInfluencer
	}
	c, err := h.service.MarkViewed(r.Context(), r.PathValue("id"), role, actorID(r))
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) brandConfirm(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.BrandConfirm(r.Context(), r.PathValue("id"), actorID(r))
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

type influencerPatchRequest struct {
	LegalName    *string `json:"legal_name"`
	TaxID        *string `json:"tax_id"`
	AddressLine1 *string `json:"address_line1"`
	AddressLine2 *string `json:"address_line2"`
	City         *string `json:"city"`
	Region       *string `json:"region"`
	PostalCode   *string `json:"postal_code"`
	Country      *string `json:"country"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	Handle       *string `json:"handle"`
}

func (b influencerPatchRequest) patch() domain.InfluencerPatch {
	return domain.InfluencerPatch{
		LegalName:    b.LegalName,
		TaxID:        b.TaxID,
		AddressLine1: b.AddressLine1,
		AddressLine2: b.AddressLine2,
		City:         b.City,
		Region:       b.Region,
		PostalCode:   b.PostalCode,
		Country:      b.Country,
		Email:        b.Email,
		Phone:        b.Phone,
		Handle:       b.Handle,
	}
}

func (h *apiHandler) influencerConfirm(w http.ResponseWriter, r *http.Request) {
	var body influencerPatchRequest
	if !decode(w, r, &body) {
		return
	}
	c, err := h.service.InfluencerConfirm(r.Context(), r.PathValue("id"), actorID(r), body.patch())
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) brandUpdate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CampaignTitle *string              `json:"campaign_title"`
		Platforms     []string             `json:"platforms"`
		GoLiveStart   *time.Time           `json:"go_live_start"`
		GoLiveEnd     *time.Time           `json:"go_live_end"`
		FeeMinorUnits *int64               `json:"fee_minor_units"`
		Currency      *string              `json:"currency"`
		Usage         *domain.UsageBundle  `json:"usage"`
		Deliverables  []domain.Deliverable `json:"deliverables"`
	}
	if !decode(w, r, &body) {
		return
	}
	c, err := h.service.BrandUpdateFields(r.Context(), r.PathValue("id"), actorID(r), domain.BrandPatch{
		CampaignTitle: body.CampaignTitle,
		Platforms:     body.Platforms,
		GoLiveStart:   body.GoLiveStart,
		GoLiveEnd:     body.GoLiveEnd,
		FeeMinorUnits: body.FeeMinorUnits,
		Currency:      body.Currency,
		Usage:         body.Usage,
		Deliverables:  body.Deliverables,
	})
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) influencerUpdate(w http.ResponseWriter, r *http.Request) {
	var body influencerPatchRequest
	if !decode(w, r, &body) {
		return
	}
	c, err := h.service.InfluencerUpdateFields(r.Context(), r.PathValue("id"), actorID(r), body.patch())
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) adminUpdate(w http.ResponseWriter, r *http.Request) {
	// Without an authenticator there is no identity; that only happens in
	// local setups, where admin ops stay open.
	identity, authed := auth.IdentityFromContext(r.Context())
	actor := domain.RoleBrand
	if !authed || identity.HasRole("admin") || identity.HasRole("collabglam") {
		actor = domain.RoleAdmin
	}

	var body struct {
		Timezone              *string           `json:"timezone"`
		Jurisdiction          *string           `json:"jurisdiction"`
		LegalTemplateText     *string           `json:"legal_template_text"`
		FeePolicy             *domain.FeePolicy `json:"fee_policy"`
		EffectiveDateTimezone *string           `json:"effective_date_timezone"`
	}
	if !decode(w, r, &body) {
		return
	}
	c, err := h.service.AdminUpdate(r.Context(), r.PathValue("id"), actor, actorID(r), domain.AdminPatch{
		Timezone:              body.Timezone,
		Jurisdiction:          body.Jurisdiction,
		LegalTemplateText:     body.LegalTemplateText,
		FeePolicy:             body.FeePolicy,
		EffectiveDateTimezone: body.EffectiveDateTimezone,
	})
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) finalize(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if !decode(w, r, &body) {
		return
	}
	role := domain.Role(body.Role)
	if role == "" {
		role = domain.RoleBrand
	}
	c, err := h.service.Finalize(r.Context(), r.PathValue("id"), role, actorID(r))
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) sign(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role                  string     `json:"role"`
		Name                  string     `json:"name"`
		Email                 string     `json:"email"`
		ImageDataURL          string     `json:"sig_image_data_url"`
		EffectiveDateOverride *time.Time `json:"effective_date_override"`
	}
	if !decode(w, r, &body) {
		return
	}

	in := contracts.SignInput{
		Role:         domain.Role(body.Role),
		UserID:       actorID(r),
		Name:         body.Name,
		Email:        body.Email,
		ImageDataURL: body.ImageDataURL,
	}
	// Only platform staff may pin the effective date.
	if body.EffectiveDateOverride != nil {
		identity, authed := auth.IdentityFromContext(r.Context())
		if authed && !identity.HasRole("admin") && !identity.HasRole("collabglam") {
			httpserver.WriteError(w, domain.Forbidden("effective date override requires the admin role"))
			return
		}
		in.EffectiveDateOverride = body.EffectiveDateOverride
	}

	c, err := h.service.Sign(r.Context(), r.PathValue("id"), in)
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) reject(w http.ResponseWriter, r *http.Request) {
	var body struct {
		InfluencerID string `json:"influencer_id"`
		Reason       string `json:"reason"`
	}
	if !decode(w, r, &body) {
		return
	}
	c, err := h.service.Reject(r.Context(), r.PathValue("id"), contracts.RejectInput{
		ActorUserID:  actorID(r),
		InfluencerID: body.InfluencerID,
		Reason:       body.Reason,
	})
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusOK, c)
}

func (h *apiHandler) resend(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Resend(r.Context(), r.PathValue("id"), actorID(r))
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	httpserver.WriteJSON(w, http.StatusCreated, map[string]any{
		"parent": res.Parent,
		"child":  res.Child,
	})
}

func (h *apiHandler) preview(w http.ResponseWriter, r *http.Request) {
	html, err := h.service.RenderPreview(r.Context(), r.PathValue("id"), r.URL.Query().Get("tz"))
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(html))
}

func (h *apiHandler) document(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := h.service.ExportDocument(r.Context(), r.PathValue("id"), r.URL.Query().Get("tz"))
	if err != nil {
		httpserver.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

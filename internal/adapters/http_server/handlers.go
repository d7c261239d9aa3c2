package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"hotel_listing/internal/app"
	"hotel_listing/internal/domain"
	"hotel_listing/internal/form"
)

type Handlers struct {
	Q         *app.QueryService
	Drafts    *app.DraftService
	Locations domain.LocationProvider
	Auth      func(http.Handler) http.Handler
	MaxUpload int64
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(defaultTimeout))
		r.Get("/v1/locations/countries", h.listCountries)
		r.Get("/v1/locations/countries/{country}/states", h.listStates)
		r.Get("/v1/locations/countries/{country}/states/{state}/cities", h.listCities)
		r.Get("/v1/hotels", h.listHotels)
		r.Get("/v1/hotels/{id}", h.getHotel)
	})

	s.mux.Route("/v1/drafts", func(r chi.Router) {
		r.Use(h.Auth)
		r.With(Timeout(defaultTimeout)).Post("/", h.openDraft)
		r.Route("/{id}", func(r chi.Router) {
			r.With(Timeout(uploadTimeout)).Post("/image", h.uploadImage)
			r.Group(func(r chi.Router) {
				r.Use(Timeout(defaultTimeout))
				r.Get("/", h.getDraft)
				r.Patch("/", h.patchDraft)
				r.Delete("/", h.discardDraft)
				r.Put("/country", h.selectLocation((*form.HotelForm).SelectCountry))
				r.Put("/state", h.selectLocation((*form.HotelForm).SelectState))
				r.Put("/city", h.selectLocation((*form.HotelForm).SelectCity))
				r.Delete("/image", h.deleteImage)
				r.Post("/submit", h.submitDraft)
			})
		})
	})
}

// ---- responses ----

type problem struct {
	Type   string            `json:"type"`
	Title  string            `json:"title"`
	Status int               `json:"status"`
	Detail string            `json:"detail,omitempty"`
	Errors map[string]string `json:"errors,omitempty"`
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	writeProblemBody(w, problem{Type: "about:blank", Title: title, Status: status, Detail: detail})
}

func writeProblemBody(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// writeError maps service and form errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *form.ValidationError
	switch {
	case errors.As(err, &verr):
		writeProblemBody(w, problem{
			Type: "about:blank", Title: "Invalid Draft", Status: http.StatusUnprocessableEntity,
			Detail: "fix the highlighted fields and submit again", Errors: verr.Fields,
		})
	case errors.Is(err, domain.ErrUnauthenticated):
		writeProblem(w, http.StatusUnauthorized, "Not Authenticated", "")
	case errors.Is(err, domain.ErrForbidden):
		writeProblem(w, http.StatusForbidden, "Access Denied", "")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, form.ErrBusy), errors.Is(err, form.ErrLocked):
		writeProblem(w, http.StatusConflict, "Busy", err.Error())
	case errors.Is(err, form.ErrInvalidTransition), errors.Is(err, form.ErrDisabled), errors.Is(err, form.ErrNoImage):
		writeProblem(w, http.StatusConflict, "Not Allowed", err.Error())
	case errors.Is(err, form.ErrUnknownOption), errors.Is(err, form.ErrUnknownField):
		writeProblem(w, http.StatusBadRequest, "Invalid Value", err.Error())
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
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
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

// ---- locations ----

func (h *Handlers) listCountries(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, h.Locations.Countries())
}

func (h *Handlers) listStates(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, h.Locations.States(chi.URLParam(r, "country")))
}

func (h *Handlers) listCities(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, h.Locations.Cities(chi.URLParam(r, "country"), chi.URLParam(r, "state")))
}

// ---- hotels ----

func (h *Handlers) getHotel(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	resp, err := h.Q.GetHotel(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "hotel not found")
			return
		}
		writeError(w, r, err)
		return
	}
	writeCached(w, r, resp)
}

func (h *Handlers) listHotels(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := domain.HotelsQuery{Limit: 20}
	if ls := qs.Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 100 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 100")
			return
		}
		q.Limit = l
	}
	if s := strings.TrimSpace(qs.Get("q")); s != "" {
		q.Q = &s
	}
	if c := strings.ToUpper(strings.TrimSpace(qs.Get("country"))); c != "" {
		q.Country = &c
	}
	page, err := h.Q.ListHotels(r.Context(), q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, page)
}

// ---- drafts ----

type draftResponse struct {
	form.View
	Outcome       form.Outcome        `json:"outcome,omitempty"`
	Notifications []form.Notification `json:"notifications"`
}

// respond drains pending notifications, persists the snapshot and writes the
// current view.
func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, f *form.HotelForm, status int, o form.Outcome) {
	ns := f.DrainNotifications()
	if err := h.Drafts.Save(r.Context(), f); err != nil {
		log.Error().Err(err).Str("draft", f.ID()).Msg("draft snapshot failed")
	}
	writeJSON(w, status, draftResponse{View: f.View(), Outcome: o, Notifications: ns})
}

func (h *Handlers) draft(w http.ResponseWriter, r *http.Request) (*form.HotelForm, bool) {
	f, err := h.Drafts.Get(r.Context(), UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return f, true
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return false
	}
	return true
}

type openRequest struct {
	HotelID *int64 `json:"hotelId"`
}

func (h *Handlers) openDraft(w http.ResponseWriter, r *http.Request) {
	var req openRequest
	if !decode(w, r, &req) {
		return
	}
	f, err := h.Drafts.Open(r.Context(), UserID(r.Context()), req.HotelID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/drafts/"+f.ID())
	h.respond(w, r, f, http.StatusCreated, "")
}

func (h *Handlers) getDraft(w http.ResponseWriter, r *http.Request) {
	if f, ok := h.draft(w, r); ok {
		h.respond(w, r, f, http.StatusOK, "")
	}
}

func (h *Handlers) discardDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.Drafts.Discard(r.Context(), UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type patchRequest struct {
	Title               *string         `json:"title"`
	Description         *string         `json:"description"`
	LocationDescription *string         `json:"locationDescription"`
	Amenities           map[string]bool `json:"amenities"`
	Image               *string         `json:"image"`
}

func (h *Handlers) patchDraft(w http.ResponseWriter, r *http.Request) {
	f, ok := h.draft(w, r)
	if !ok {
		return
	}
	var req patchRequest
	if !decode(w, r, &req) {
		return
	}
	err := f.Apply(form.Patch{
		Title:               req.Title,
		Description:         req.Description,
		LocationDescription: req.LocationDescription,
		Amenities:           req.Amenities,
	})
	if err == nil && req.Image != nil {
		err = f.SetImage(*req.Image)
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, f, http.StatusOK, "")
}

type selectRequest struct {
	Value string `json:"value"`
}

func (h *Handlers) selectLocation(sel func(*form.HotelForm, string) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := h.draft(w, r)
		if !ok {
			return
		}
		var req selectRequest
		if !decode(w, r, &req) {
			return
		}
		if err := sel(f, strings.TrimSpace(req.Value)); err != nil {
			writeError(w, r, err)
			return
		}
		h.respond(w, r, f, http.StatusOK, "")
	}
}

func (h *Handlers) uploadImage(w http.ResponseWriter, r *http.Request) {
	f, ok := h.draft(w, r)
	if !ok {
		return
	}
	limit := h.MaxUpload
	if limit <= 0 {
		limit = 4 << 20
	}
	// room for the multipart envelope on top of the file itself
	r.Body = http.MaxBytesReader(w, r.Body, limit+64<<10)
	file, hdr, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeProblem(w, http.StatusRequestEntityTooLarge, "File Too Large", "image exceeds "+strconv.FormatInt(limit>>20, 10)+"MB")
			return
		}
		writeProblem(w, http.StatusBadRequest, "Invalid Upload", "multipart field \"file\" is required")
		return
	}
	defer file.Close()
	if hdr.Size > limit {
		writeProblem(w, http.StatusRequestEntityTooLarge, "File Too Large", "image exceeds "+strconv.FormatInt(limit>>20, 10)+"MB")
		return
	}

	o, err := f.Upload(r.Context(), domain.UploadFile{
		Name:        hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Body:        file,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, f, http.StatusOK, o)
}

func (h *Handlers) deleteImage(w http.ResponseWriter, r *http.Request) {
	f, ok := h.draft(w, r)
	if !ok {
		return
	}
	o, err := f.DeleteImage(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.respond(w, r, f, http.StatusOK, o)
}

type submitResponse struct {
	HotelID       int64               `json:"hotelId"`
	Created       bool                `json:"created"`
	Location      string              `json:"location"`
	Notifications []form.Notification `json:"notifications"`
}

func (h *Handlers) submitDraft(w http.ResponseWriter, r *http.Request) {
	f, ok := h.draft(w, r)
	if !ok {
		return
	}
	res, err := f.Submit(r.Context())
	if err != nil {
		// validation errors are part of the draft state; keep them
		if saveErr := h.Drafts.Save(r.Context(), f); saveErr != nil {
			log.Error().Err(saveErr).Str("draft", f.ID()).Msg("draft snapshot failed")
		}
		writeError(w, r, err)
		return
	}
	if res.Outcome != form.OutcomeApplied {
		v := f.View()
		ns := f.DrainNotifications()
		if err := h.Drafts.Save(r.Context(), f); err != nil {
			log.Error().Err(err).Str("draft", f.ID()).Msg("draft snapshot failed")
		}
		log.Warn().Str("draft", f.ID()).Str("error", v.LastError).Msg("submit failed")
		writeProblemBody(w, problem{
			Type: "about:blank", Title: notificationTitle(ns, "Something went wrong"),
			Status: http.StatusBadGateway, Detail: v.LastError,
		})
		return
	}

	ns := f.DrainNotifications()
	// the listing is saved; the draft is done
	if err := h.Drafts.Discard(r.Context(), f.OwnerID(), f.ID()); err != nil {
		log.Warn().Err(err).Str("draft", f.ID()).Msg("draft cleanup failed")
	}
	writeJSON(w, http.StatusOK, submitResponse{
		HotelID:       res.HotelID,
		Created:       res.Created,
		Location:      "/hotel/" + strconv.FormatInt(res.HotelID, 10),
		Notifications: ns,
	})
}

func notificationTitle(ns []form.Notification, def string) string {
	for _, n := range ns {
		if n.Kind == form.NotifyError && n.Title != "" {
			return n.Title
		}
	}
	return def
}

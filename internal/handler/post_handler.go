package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/payment"
	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/service"
)

type createPostRequest struct {
	Title         string   `json:"title" validate:"required,max=120"`
	Description   string   `json:"description" validate:"required,max=4000"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	Category      string   `json:"category" validate:"required,oneof=product service announcement job informational"`
	ContactName   string   `json:"contactName" validate:"required,max=100"`
	ContactPhone  string   `json:"contactPhone" validate:"required"`
	PaymentRef    string   `json:"paymentRef"`
	PaymentMethod string   `json:"paymentMethod" validate:"omitempty,oneof=pix checkout"`
}

type repostRequest struct {
	Phone         string `json:"phone" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"omitempty,oneof=pix checkout"`
}

type firstCheckResponse struct {
	IsFirstPost bool    `json:"isFirstPost"`
	TotalPosts  int     `json:"totalPosts"`
	Price       float64 `json:"price"`
}

type postResponse struct {
	Success bool         `json:"success"`
	Post    *models.Post `json:"post"`
}

type paymentRequiredResponse struct {
	Success         bool                `json:"success"`
	RequiresPayment bool                `json:"requiresPayment"`
	Price           float64             `json:"price"`
	PostData        *models.PostPayload `json:"postData,omitempty"`
	Charge          *payment.Charge     `json:"payment"`
}

func (h *Handlers) CheckFirstPost(w http.ResponseWriter, r *http.Request) {
	rawPhone := r.URL.Query().Get("phone")
	if rawPhone == "" {
		WriteError(w, "phone query parameter is required", http.StatusBadRequest)
		return
	}

	isFirst, total, err := h.QuotaService.IsFirstPost(r.Context(), rawPhone)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	price := h.Cfg.PostPrice
	if isFirst {
		price = 0
	}

	WriteSuccess(w, firstCheckResponse{
		IsFirstPost: isFirst,
		TotalPosts:  total,
		Price:       price,
	}, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.PostService.CreatePost(r.Context(), service.CreatePostRequest{
		PostPayload: models.PostPayload{
			Title:        req.Title,
			Description:  req.Description,
			Price:        req.Price,
			Category:     req.Category,
			ContactName:  req.ContactName,
			ContactPhone: req.ContactPhone,
		},
		PaymentRef:    req.PaymentRef,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if result.Payment != nil {
		WriteSuccess(w, paymentRequiredResponse{
			Success:         false,
			RequiresPayment: true,
			Price:           result.Payment.Price,
			PostData:        result.Payment.PostData,
			Charge:          result.Payment.Charge,
		}, http.StatusPaymentRequired)
		return
	}

	WriteSuccess(w, postResponse{Success: true, Post: result.Post}, http.StatusCreated)
}

func (h *Handlers) RequestRepost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	var req repostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.PostService.RequestRepost(r.Context(), postID, req.Phone, req.PaymentMethod)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if result.Payment != nil {
		WriteSuccess(w, paymentRequiredResponse{
			Success:         false,
			RequiresPayment: true,
			Price:           result.Payment.Price,
			Charge:          result.Payment.Charge,
		}, http.StatusPaymentRequired)
		return
	}

	WriteSuccess(w, postResponse{Success: true, Post: result.Post}, http.StatusOK)
}

func (h *Handlers) ListMyPosts(w http.ResponseWriter, r *http.Request) {
	rawPhone := r.URL.Query().Get("phone")
	if rawPhone == "" {
		WriteError(w, "phone query parameter is required", http.StatusBadRequest)
		return
	}

	views, err := h.PostService.ListByPhone(r.Context(), rawPhone)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{"posts": views}, http.StatusOK)
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	views, err := h.PostService.ListActive(r.Context(), limit, (page-1)*limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"posts": views,
		"page":  page,
		"limit": limit,
	}, http.StatusOK)
}

func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	post, err := h.PostService.GetPost(r.Context(), postID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	view := models.NewPostView(post, time.Now())
	WriteSuccess(w, view, http.StatusOK)
}

func (h *Handlers) AttachMedia(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	// ParseMultipartForm only bounds in-memory buffering; the reader caps the
	// body itself so oversized uploads fail instead of streaming through.
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			WriteError(w, fmt.Sprintf("file too large (max %d MB)",
				h.Cfg.MaxUploadSize/(1024*1024)), http.StatusBadRequest)
		} else {
			WriteError(w, "could not parse upload", http.StatusBadRequest)
		}
		return
	}

	rawPhone := r.FormValue("phone")
	if rawPhone == "" {
		WriteError(w, "phone form field is required", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("media")
	if err != nil {
		WriteError(w, "could not read media file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	allowedTypes := map[string]string{
		"image/jpeg": "image",
		"image/jpg":  "image",
		"image/png":  "image",
		"image/webp": "image",
		"video/mp4":  "video",
		"video/webm": "video",
	}

	contentType := header.Header.Get("Content-Type")
	mediaType, ok := allowedTypes[contentType]
	if !ok {
		WriteError(w, "unsupported media type; allowed: JPEG, PNG, WebP, MP4, WebM", http.StatusBadRequest)
		return
	}

	media, err := h.PostService.AttachMedia(r.Context(), postID, rawPhone,
		header.Filename, mediaType, r.FormValue("aspectRatio"), file, header.Size)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, media, http.StatusCreated)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	rawPhone := r.URL.Query().Get("phone")
	if rawPhone == "" {
		WriteError(w, "phone query parameter is required", http.StatusBadRequest)
		return
	}

	if err := h.PostService.DeletePost(r.Context(), postID, rawPhone); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "post deleted"}, http.StatusOK)
}

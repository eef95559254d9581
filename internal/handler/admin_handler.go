package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/tiagoriveira/jacupemba-ai-sub001/internal/models"
)

func (h *Handlers) ApprovePost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := h.PostService.Approve(r.Context(), postID); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("admin %s approved post %s", AdminID(r.Context()), postID)
	WriteSuccess(w, MessageResponse{Message: "post approved"}, http.StatusOK)
}

func (h *Handlers) RejectPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	if err := h.PostService.Reject(r.Context(), postID); err != nil {
		writeServiceError(w, err)
		return
	}

	log.Printf("admin %s rejected post %s", AdminID(r.Context()), postID)
	WriteSuccess(w, MessageResponse{Message: "post rejected"}, http.StatusOK)
}

func (h *Handlers) ListModeration(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.StatusPending
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	posts, err := h.PostService.ListModeration(r.Context(), status, limit, (page-1)*limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{"posts": posts, "page": page, "limit": limit}, http.StatusOK)
}

func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.StatsRepo.CountByStatus(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteSuccess(w, counts, http.StatusOK)
}

// backend/internal/certificate/handler.go
package certificate

import (
	"encoding/json"
	"net/http"
	"strconv"

	"elearn-quiz/internal/auth"
	"elearn-quiz/internal/models"
	"elearn-quiz/internal/respond"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the student certificate routes on r.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/certificates", h.List).Methods("GET")
	r.HandleFunc("/certificates", h.Issue).Methods("POST")
	r.HandleFunc("/certificates/eligible", h.Eligible).Methods("GET")
	r.HandleFunc("/certificates/{certificateID:[0-9]+}", h.Get).Methods("GET")
}

type issueRequest struct {
	CourseID uint `json:"course_id"`
}

func (h *Handler) Issue(w http.ResponseWriter, r *http.Request) {
	studentID, ok := student(w, r)
	if !ok {
		return
	}

	var req issueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CourseID == 0 {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	cert, err := h.service.Issue(r.Context(), studentID, req.CourseID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, true, "Certificate generated successfully!", cert)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	studentID, ok := student(w, r)
	if !ok {
		return
	}

	certs, err := h.service.List(r.Context(), studentID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", certs)
}

func (h *Handler) Eligible(w http.ResponseWriter, r *http.Request) {
	studentID, ok := student(w, r)
	if !ok {
		return
	}

	courses, err := h.service.Eligible(r.Context(), studentID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", courses)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	studentID, ok := student(w, r)
	if !ok {
		return
	}
	certificateID, err := strconv.ParseUint(mux.Vars(r)["certificateID"], 10, 64)
	if err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid certificate ID", nil)
		return
	}

	cert, err := h.service.Get(r.Context(), studentID, uint(certificateID))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", cert)
}

func student(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok || id.Role != models.RoleStudent {
		respond.JSON(w, http.StatusUnauthorized, false, "Unauthorized", nil)
		return 0, false
	}
	return id.UserID, true
}

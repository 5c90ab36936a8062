// backend/internal/forum/handler.go
package forum

import (
	"encoding/json"
	"net/http"
	"strconv"

	"elearn-quiz/internal/apperr"
	"elearn-quiz/internal/auth"
	"elearn-quiz/internal/respond"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Register mounts the forum routes on r. Any authenticated role may use
// them; r is expected to be behind JWTMiddleware.
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/categories", h.ListCategories).Methods("GET")
	r.HandleFunc("/topics", h.ListTopics).Methods("GET")
	r.HandleFunc("/topics", h.CreateTopic).Methods("POST")
	r.HandleFunc("/topics/{topicID:[0-9]+}", h.GetTopic).Methods("GET")
	r.HandleFunc("/topics/{topicID:[0-9]+}", h.UpdateTopic).Methods("PUT")
	r.HandleFunc("/topics/{topicID:[0-9]+}", h.DeleteTopic).Methods("DELETE")
	r.HandleFunc("/topics/{topicID:[0-9]+}/{action:close|open|pin|unpin}", h.TopicAction).Methods("POST")
	r.HandleFunc("/topics/{topicID:[0-9]+}/reactions", h.React).Methods("POST")
	r.HandleFunc("/topics/{topicID:[0-9]+}/replies", h.AddReply).Methods("POST")
	r.HandleFunc("/replies/{replyID:[0-9]+}", h.UpdateReply).Methods("PUT")
	r.HandleFunc("/replies/{replyID:[0-9]+}", h.DeleteReply).Methods("DELETE")
	r.HandleFunc("/replies/{replyID:[0-9]+}/solution", h.MarkSolution).Methods("POST")
}

var actionMessages = map[string]string{
	"close": "Topic closed successfully",
	"open":  "Topic reopened successfully",
	"pin":   "Topic pinned successfully",
	"unpin": "Topic unpinned successfully",
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "", categories)
}

func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryID, err := optionalNumber(q.Get("category"))
	if err != nil {
		respond.Error(w, apperr.Validation("category must be a number"))
		return
	}
	limit, err := optionalNumber(q.Get("limit"))
	if err != nil {
		respond.Error(w, apperr.Validation("limit must be a number"))
		return
	}

	topics, err := h.service.ListTopics(r.Context(), uint(categoryID), int(limit))
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "", topics)
}

func (h *Handler) GetTopic(w http.ResponseWriter, r *http.Request) {
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}
	topic, err := h.service.GetTopic(r.Context(), topicID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "", topic)
}

func (h *Handler) CreateTopic(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	var in TopicInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	topic, err := h.service.CreateTopic(r.Context(), actor, in)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, true, "Topic created successfully!", topic)
}

func (h *Handler) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}
	var in TopicInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	topic, err := h.service.UpdateTopic(r.Context(), actor, topicID, in)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "Topic updated successfully.", topic)
}

func (h *Handler) TopicAction(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}
	action := mux.Vars(r)["action"]

	topic, err := h.service.ApplyTopicAction(r.Context(), actor, topicID, action)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, actionMessages[action], topic)
}

func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}

	report, err := h.service.DeleteTopic(r.Context(), actor, topicID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "Topic deleted successfully", report)
}

func (h *Handler) React(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}
	var req struct {
		Reaction string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	if err := h.service.React(r.Context(), actor, topicID, req.Reaction); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "Reaction saved", nil)
}

func (h *Handler) AddReply(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	topicID, ok := pathID(w, r, "topicID")
	if !ok {
		return
	}
	var in ReplyInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	reply, err := h.service.AddReply(r.Context(), actor, topicID, in)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, true, "Reply posted successfully!", reply)
}

func (h *Handler) UpdateReply(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	replyID, ok := pathID(w, r, "replyID")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	reply, err := h.service.UpdateReply(r.Context(), actor, replyID, req.Content)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "Reply updated successfully.", reply)
}

func (h *Handler) DeleteReply(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	replyID, ok := pathID(w, r, "replyID")
	if !ok {
		return
	}

	if err := h.service.DeleteReply(r.Context(), actor, replyID); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "Reply deleted successfully", nil)
}

func (h *Handler) MarkSolution(w http.ResponseWriter, r *http.Request) {
	actor, ok := caller(w, r)
	if !ok {
		return
	}
	replyID, ok := pathID(w, r, "replyID")
	if !ok {
		return
	}

	if err := h.service.MarkSolution(r.Context(), actor, replyID); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, true, "Reply marked as solution", nil)
}

func caller(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok {
		respond.JSON(w, http.StatusUnauthorized, false, "You must be logged in to perform this action.", nil)
		return auth.Identity{}, false
	}
	return id, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

func optionalNumber(raw string) (uint64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseUint(raw, 10, 32)
}

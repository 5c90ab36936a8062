// backend/internal/quiz/handler.go
package quiz

import (
	"encoding/json"
	"net/http"
	"strconv"

	"elearn-quiz/internal/apperr"
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

// Register mounts the instructor routes on r. r is expected to be behind
// JWTMiddleware and RequireRole(instructor).
func (h *Handler) Register(r *mux.Router) {
	r.HandleFunc("/courses", h.ListCourses).Methods("GET")
	r.HandleFunc("/courses/{courseID:[0-9]+}", h.GetCourse).Methods("GET")
	r.HandleFunc("/courses/{courseID:[0-9]+}/quizzes", h.ListCourseQuizzes).Methods("GET")
	r.HandleFunc("/courses/{courseID:[0-9]+}/attempts", h.RecentAttempts).Methods("GET")
	r.HandleFunc("/quizzes", h.ListMyQuizzes).Methods("GET")
	r.HandleFunc("/quizzes", h.CreateQuiz).Methods("POST")
	r.HandleFunc("/quizzes/{quizID:[0-9]+}", h.GetQuiz).Methods("GET")
	r.HandleFunc("/quizzes/{quizID:[0-9]+}", h.UpdateQuiz).Methods("PUT")
	r.HandleFunc("/quizzes/{quizID:[0-9]+}", h.DeleteQuiz).Methods("DELETE")
	r.HandleFunc("/quizzes/{quizID:[0-9]+}/questions", h.ListQuestions).Methods("GET")
	r.HandleFunc("/quizzes/{quizID:[0-9]+}/questions", h.AddQuestion).Methods("POST")
}

type addQuestionRequest struct {
	QuestionText string `json:"question_text"`
	Points       int    `json:"points"`
	AnswerForm
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}

	var in QuizInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	quizID, err := h.service.CreateQuiz(r.Context(), instructorID, in)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, true, "Quiz created successfully. Add questions now.", map[string]uint{"quiz_id": quizID})
}

func (h *Handler) UpdateQuiz(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "quizID")
	if !ok {
		return
	}

	var in QuizInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}

	quiz, err := h.service.UpdateQuiz(r.Context(), instructorID, quizID, in)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "Quiz updated successfully", quiz)
}

func (h *Handler) GetQuiz(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "quizID")
	if !ok {
		return
	}

	quiz, err := h.service.GetQuiz(r.Context(), instructorID, quizID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", quiz)
}

func (h *Handler) DeleteQuiz(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "quizID")
	if !ok {
		return
	}

	report, err := h.service.DeleteQuiz(r.Context(), instructorID, quizID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "Quiz has been successfully deleted", report)
}

func (h *Handler) ListMyQuizzes(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}

	quizzes, err := h.service.ListQuizzesForInstructor(r.Context(), instructorID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", quizzes)
}

func (h *Handler) ListCourseQuizzes(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	courseID, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	quizzes, err := h.service.ListQuizzesForCourse(r.Context(), instructorID, courseID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", quizzes)
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "quizID")
	if !ok {
		return
	}

	questions, err := h.service.ListQuestions(r.Context(), instructorID, quizID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", questions)
}

func (h *Handler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	quizID, ok := pathID(w, r, "quizID")
	if !ok {
		return
	}

	var req addQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid request", nil)
		return
	}
	answer, err := req.Answer()
	if err != nil {
		respond.Error(w, err)
		return
	}

	questionID, err := h.service.AddQuestion(r.Context(), instructorID, NewQuestion{
		QuizID: quizID,
		Text:   req.QuestionText,
		Points: req.Points,
		Answer: answer,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, true, "Question added successfully", map[string]uint{"question_id": questionID})
}

func (h *Handler) RecentAttempts(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	courseID, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respond.Error(w, apperr.Validation("limit must be a positive number"))
			return
		}
		limit = n
	}

	attempts, err := h.service.RecentAttempts(r.Context(), instructorID, courseID, limit)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", attempts)
}

func (h *Handler) ListCourses(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	publishedOnly := r.URL.Query().Get("published") == "1"

	courses, err := h.service.ListCourses(r.Context(), instructorID, publishedOnly)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", courses)
}

func (h *Handler) GetCourse(w http.ResponseWriter, r *http.Request) {
	instructorID, ok := instructor(w, r)
	if !ok {
		return
	}
	courseID, ok := pathID(w, r, "courseID")
	if !ok {
		return
	}

	course, err := h.service.GetCourseOverview(r.Context(), instructorID, courseID)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, true, "", course)
}

func instructor(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok || id.Role != models.RoleInstructor {
		respond.JSON(w, http.StatusUnauthorized, false, "Unauthorized", nil)
		return 0, false
	}
	return id.UserID, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 64)
	if err != nil || id == 0 {
		respond.JSON(w, http.StatusBadRequest, false, "Invalid "+name, nil)
		return 0, false
	}
	return uint(id), true
}

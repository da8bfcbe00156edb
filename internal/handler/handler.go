package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/workhive/freelance-service/internal/milestone"
	"github.com/workhive/freelance-service/internal/models"
	"github.com/workhive/freelance-service/internal/service"
)

type Handler struct {
	svc *service.Service
}

func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

func pathInt64(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string      `json:"username"`
		Email    string      `json:"email"`
		Password string      `json:"password"`
		Role     models.Role `json:"role"`
		Skills   []string    `json:"skills"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username, email and password are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleFreelancer
	}
	user, err := h.svc.Register(req.Username, req.Email, req.Password, req.Role, req.Skills)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	token, err := h.svc.Login(req.Email, req.Password)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"token": token})
}

// GetBalance returns the derived wallet balance views
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.svc.GetBalance(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, balance)
}

// ListTransactions returns the wallet ledger, optionally filtered by
// ?status= and ?q= (description substring)
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.svc.ListTransactions(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, txs)
}

// TransactionSummary returns categorized ledger totals
func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.TransactionSummary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// Deposit credits the wallet
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount      float64 `json:"amount"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Description == "" {
		req.Description = "Deposit"
	}
	tx, err := h.svc.Deposit(r.Context(), req.Amount, req.Description)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// Withdraw debits the wallet
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount float64 `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tx, err := h.svc.Withdraw(r.Context(), req.Amount)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, tx)
}

// GetReplenishSettings returns the wallet's auto-replenish policy
func (h *Handler) GetReplenishSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.GetReplenishSettings(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// UpdateReplenishSettings stores the wallet's auto-replenish policy
func (h *Handler) UpdateReplenishSettings(w http.ResponseWriter, r *http.Request) {
	var settings models.AutoReplenishSettings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	saved, err := h.svc.UpdateReplenishSettings(r.Context(), settings)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, saved)
}

// ListProjects returns projects filtered by ?status=
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.ListProjects(models.ProjectStatus(r.URL.Query().Get("status")))
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// RecommendedProjects returns available projects matching the
// freelancer's skills
func (h *Handler) RecommendedProjects(w http.ResponseWriter, r *http.Request) {
	views, err := h.svc.RecommendedProjects(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// CreateProject stores a client's new project listing
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var p models.Project
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if p.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if err := h.svc.CreateProject(r.Context(), &p); err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, p)
}

// Bid records a freelancer's proposal on a project
func (h *Handler) Bid(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	var req struct {
		Amount      float64 `json:"amount"`
		CoverLetter string  `json:"coverLetter"`
		Duration    string  `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.svc.Bid(r.Context(), projectID, req.Amount, req.CoverLetter, req.Duration); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "proposal submitted"})
}

type milestoneOp func(h *Handler, r *http.Request, projectID int64, index int) (*milestone.Receipt, error)

func (h *Handler) milestoneTransition(w http.ResponseWriter, r *http.Request, op milestoneOp) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid milestone index")
		return
	}
	receipt, err := op(h, r, projectID, index)
	if err != nil {
		if errors.Is(err, milestone.ErrIndexOutOfRange) {
			respondError(w, http.StatusNotFound, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, receipt)
}

// RequestMilestoneApproval asks the client to approve a milestone
func (h *Handler) RequestMilestoneApproval(w http.ResponseWriter, r *http.Request) {
	h.milestoneTransition(w, r, func(h *Handler, r *http.Request, projectID int64, index int) (*milestone.Receipt, error) {
		return h.svc.RequestMilestoneApproval(r.Context(), projectID, index)
	})
}

// StartMilestoneReview moves a requested milestone into review
func (h *Handler) StartMilestoneReview(w http.ResponseWriter, r *http.Request) {
	h.milestoneTransition(w, r, func(h *Handler, r *http.Request, projectID int64, index int) (*milestone.Receipt, error) {
		return h.svc.StartMilestoneReview(r.Context(), projectID, index)
	})
}

// ApproveMilestone approves a milestone and releases its escrow
func (h *Handler) ApproveMilestone(w http.ResponseWriter, r *http.Request) {
	h.milestoneTransition(w, r, func(h *Handler, r *http.Request, projectID int64, index int) (*milestone.Receipt, error) {
		return h.svc.ApproveMilestone(r.Context(), projectID, index)
	})
}

// ListReviews returns a freelancer's reviews with derived aggregates
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	freelancerID, err := strconv.ParseInt(r.URL.Query().Get("freelancer_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "freelancer_id is required")
		return
	}
	views, err := h.svc.ListReviews(freelancerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, views)
}

// CreateReview stores a client review
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var review models.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := h.svc.CreateReview(r.Context(), &review)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, view)
}

// FreelancerRating returns a freelancer's overall score
func (h *Handler) FreelancerRating(w http.ResponseWriter, r *http.Request) {
	freelancerID, err := strconv.ParseInt(r.URL.Query().Get("freelancer_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "freelancer_id is required")
		return
	}
	rating, err := h.svc.FreelancerRating(freelancerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]float64{"rating": rating})
}

// Earnings returns the monthly earnings feed and its sum
func (h *Handler) Earnings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.EarningsSummary(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// ListMessages returns a project's chat history
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	msgs, err := h.svc.ListMessages(projectID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, msgs)
}

// SendMessage stores a chat message
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	projectID, err := pathInt64(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	msg, err := h.svc.SendMessage(r.Context(), projectID, req.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusCreated, msg)
}

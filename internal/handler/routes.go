package handler

import (
	"github.com/gorilla/mux"

	"github.com/workhive/freelance-service/internal/config"
	"github.com/workhive/freelance-service/internal/middleware"
)

// Routes builds the full REST surface. Registration and login are
// public; everything else requires a Bearer token.
func (h *Handler) Routes(cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/wallet/balance", h.GetBalance).Methods("GET")
	authRouter.HandleFunc("/wallet/deposit", h.Deposit).Methods("POST")
	authRouter.HandleFunc("/wallet/withdraw", h.Withdraw).Methods("POST")
	authRouter.HandleFunc("/wallet/replenish", h.GetReplenishSettings).Methods("GET")
	authRouter.HandleFunc("/wallet/replenish", h.UpdateReplenishSettings).Methods("PUT")
	authRouter.HandleFunc("/transactions", h.ListTransactions).Methods("GET")
	authRouter.HandleFunc("/transactions/summary", h.TransactionSummary).Methods("GET")

	authRouter.HandleFunc("/projects", h.ListProjects).Methods("GET")
	authRouter.HandleFunc("/projects", h.CreateProject).Methods("POST")
	authRouter.HandleFunc("/projects/recommended", h.RecommendedProjects).Methods("GET")
	authRouter.HandleFunc("/projects/{id:[0-9]+}/bid", h.Bid).Methods("POST")
	authRouter.HandleFunc("/projects/{id:[0-9]+}/milestones/{index:[0-9]+}/request-approval", h.RequestMilestoneApproval).Methods("POST")
	authRouter.HandleFunc("/projects/{id:[0-9]+}/milestones/{index:[0-9]+}/review", h.StartMilestoneReview).Methods("POST")
	authRouter.HandleFunc("/projects/{id:[0-9]+}/milestones/{index:[0-9]+}/approve", h.ApproveMilestone).Methods("POST")
	authRouter.HandleFunc("/projects/{id:[0-9]+}/messages", h.ListMessages).Methods("GET")
	authRouter.HandleFunc("/projects/{id:[0-9]+}/messages", h.SendMessage).Methods("POST")

	authRouter.HandleFunc("/reviews", h.ListReviews).Methods("GET")
	authRouter.HandleFunc("/reviews", h.CreateReview).Methods("POST")
	authRouter.HandleFunc("/reviews/aggregate", h.FreelancerRating).Methods("GET")

	authRouter.HandleFunc("/earnings", h.Earnings).Methods("GET")

	return r
}

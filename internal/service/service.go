package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/workhive/freelance-service/internal/config"
	"github.com/workhive/freelance-service/internal/ledger"
	"github.com/workhive/freelance-service/internal/matching"
	"github.com/workhive/freelance-service/internal/middleware"
	"github.com/workhive/freelance-service/internal/milestone"
	"github.com/workhive/freelance-service/internal/models"
	"github.com/workhive/freelance-service/internal/utils"
)

// Store is what the service needs from the persistence layer.
type Store interface {
	CreateUser(user *models.User) error
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)

	CreateWallet(wallet *models.Wallet) error
	FindWalletByUserID(userID int64) (*models.Wallet, error)
	CreateTransaction(tx *models.Transaction) error
	ListTransactions(walletID int64) ([]models.Transaction, error)
	GetReplenishSettings(walletID int64) (*models.AutoReplenishSettings, error)
	SaveReplenishSettings(s *models.AutoReplenishSettings) error

	CreateProject(p *models.Project) error
	ListProjects(status models.ProjectStatus) ([]models.Project, error)
	FindProjectByID(id int64) (*models.Project, error)
	PlaceBid(projectID, freelancerID int64) error
	TransitionMilestone(projectID int64, position int, from, to models.ApprovalStatus) (bool, error)

	CreateReview(review *models.Review) error
	ListReviews(freelancerID int64) ([]models.Review, error)
	ListEarnings(userID int64) ([]models.MonthlyEarning, error)

	CreateMessage(m *models.Message) error
	ListMessages(projectID int64) ([]models.Message, error)
}

// Notifier sends best-effort user notifications.
type Notifier interface {
	SendApprovalRequested(to, clientName, projectTitle, milestoneTitle string) error
	SendEscrowReleased(to, freelancerName, milestoneTitle string, amount, balance float64) error
	SendTopUpNotification(to, username string, amount, balance float64) error
}

// Converter normalizes currency-tagged amounts to USD.
type Converter interface {
	ConvertToUSD(amount float64, currency string) (float64, error)
}

// Service handles business logic
type Service struct {
	store    Store
	log      *logrus.Logger
	config   *config.Config
	notifier Notifier
	rates    Converter
}

// NewService initializes a new service
func NewService(store Store, log *logrus.Logger, cfg *config.Config, notifier Notifier, rates Converter) *Service {
	return &Service{store: store, log: log, config: cfg, notifier: notifier, rates: rates}
}

// Register creates a new user with hashed password and an empty wallet
func (s *Service) Register(username, email, password string, role models.Role, skills []string) (*models.User, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Role:         role,
		Skills:       skills,
		PasswordHash: string(hashedPassword),
	}

	if err := s.store.CreateUser(user); err != nil {
		return nil, err
	}

	wallet := &models.Wallet{UserID: user.ID, Currency: "USD"}
	if err := s.store.CreateWallet(wallet); err != nil {
		return nil, err
	}

	s.log.Infof("User registered: %s (%s)", user.Email, user.Role)
	return user, nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(email, password string) (string, error) {
	user, err := s.store.FindUserByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   fmt.Sprintf("%d", user.ID),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	})
	tokenString, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.log.Infof("User logged in: %s", user.Email)
	return tokenString, nil
}

func (s *Service) userFromContext(ctx context.Context) (*models.User, error) {
	idStr, ok := middleware.UserID(ctx)
	if !ok {
		return nil, fmt.Errorf("user ID not found in context")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", err)
	}
	return s.store.FindUserByID(id)
}

// GetBalance derives the wallet balance views from the ledger
func (s *Service) GetBalance(ctx context.Context) (*models.Balance, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.FindWalletByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(wallet.ID)
	if err != nil {
		return nil, err
	}
	b := ledger.ComputeBalance(txs)
	return &b, nil
}

// ListTransactions returns the wallet ledger with optional filters
func (s *Service) ListTransactions(ctx context.Context, statusFilter, textFilter string) ([]models.Transaction, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.FindWalletByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(wallet.ID)
	if err != nil {
		return nil, err
	}
	return ledger.FilterTransactions(txs, statusFilter, textFilter), nil
}

// TransactionSummary returns the categorized totals over the wallet
// ledger
func (s *Service) TransactionSummary(ctx context.Context) (*ledger.Summary, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.FindWalletByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(wallet.ID)
	if err != nil {
		return nil, err
	}
	summary := ledger.Summarize(txs)
	return &summary, nil
}

// Deposit appends a completed credit transaction to the wallet ledger
func (s *Service) Deposit(ctx context.Context, amount float64, description string) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("deposit amount must be positive")
	}
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.FindWalletByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		Type:        models.DirectionCredit,
		Amount:      amount,
		Description: description,
		Status:      models.TxCompleted,
	}
	if err := s.store.CreateTransaction(tx); err != nil {
		return nil, err
	}
	s.log.Infof("Deposit of %.2f to wallet %d", amount, wallet.ID)
	return tx, nil
}

// Withdraw appends a debit transaction after checking the available
// balance
func (s *Service) Withdraw(ctx context.Context, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive")
	}
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.FindWalletByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(wallet.ID)
	if err != nil {
		return nil, err
	}
	if b := ledger.ComputeBalance(txs); b.Available < amount {
		return nil, fmt.Errorf("insufficient balance: available %.2f, requested %.2f", b.Available, amount)
	}
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		Type:        models.DirectionDebit,
		Amount:      amount,
		Description: "Withdrawal",
		Status:      models.TxWithdrawn,
	}
	if err := s.store.CreateTransaction(tx); err != nil {
		return nil, err
	}
	s.log.Infof("Withdrawal of %.2f from wallet %d", amount, wallet.ID)
	return tx, nil
}

// GetReplenishSettings returns the wallet's auto-replenish policy
func (s *Service) GetReplenishSettings(ctx context.Context) (*models.AutoReplenishSettings, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.FindWalletByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	return s.store.GetReplenishSettings(wallet.ID)
}

// UpdateReplenishSettings validates and stores the auto-replenish policy
func (s *Service) UpdateReplenishSettings(ctx context.Context, settings models.AutoReplenishSettings) (*models.AutoReplenishSettings, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	wallet, err := s.store.FindWalletByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	settings.WalletID = wallet.ID
	if err := s.store.SaveReplenishSettings(&settings); err != nil {
		return nil, err
	}
	s.log.Infof("Replenish settings updated for wallet %d (enabled=%v)", wallet.ID, settings.Enabled)
	return &settings, nil
}

// ProjectView is a project with its derived progress and earnings.
type ProjectView struct {
	models.Project
	Progress int     `json:"progress"`
	Earned   float64 `json:"earned"`
}

func projectView(p models.Project) ProjectView {
	mode := milestone.EarnApprovedOnly
	if p.Status == models.ProjectCompleted {
		mode = milestone.EarnAll
	}
	return ProjectView{
		Project:  p,
		Progress: milestone.ComputeProgress(p.Milestones, p.Status),
		Earned:   milestone.ComputeEarned(p.Milestones, mode),
	}
}

// ListProjects returns projects by status with derived fields attached
func (s *Service) ListProjects(status models.ProjectStatus) ([]ProjectView, error) {
	projects, err := s.store.ListProjects(status)
	if err != nil {
		return nil, err
	}
	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		views = append(views, projectView(p))
	}
	return views, nil
}

// RecommendedProjects returns available projects whose skill tags
// overlap the freelancer's skills
func (s *Service) RecommendedProjects(ctx context.Context) ([]ProjectView, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	projects, err := s.store.ListProjects(models.ProjectAvailable)
	if err != nil {
		return nil, err
	}
	views := []ProjectView{}
	for _, p := range projects {
		if matching.MatchesSkillSet(user.Skills, p.Skills) {
			views = append(views, projectView(p))
		}
	}
	return views, nil
}

// CreateProject stores a client's new project listing
func (s *Service) CreateProject(ctx context.Context, p *models.Project) error {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return err
	}
	p.ClientID = user.ID
	if p.Status == "" {
		p.Status = models.ProjectAvailable
	}
	if err := s.store.CreateProject(p); err != nil {
		return err
	}
	s.log.Infof("Project created: %q by user %d", p.Title, user.ID)
	return nil
}

// Bid records a freelancer's proposal on a project
func (s *Service) Bid(ctx context.Context, projectID int64, amount float64, coverLetter, duration string) error {
	if amount <= 0 {
		return fmt.Errorf("bid amount must be positive")
	}
	user, err := s.userFromContext(ctx)
	if err != nil {
		return err
	}
	if err := s.store.PlaceBid(projectID, user.ID); err != nil {
		return err
	}
	s.log.Infof("Bid placed on project %d by user %d (%.2f, %s)", projectID, user.ID, amount, duration)
	return nil
}

// RequestMilestoneApproval moves a pending milestone to requested and
// notifies the project's client. Repeated requests are no-ops.
func (s *Service) RequestMilestoneApproval(ctx context.Context, projectID int64, index int) (*milestone.Receipt, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	project, err := s.store.FindProjectByID(projectID)
	if err != nil {
		return nil, err
	}

	_, receipt, err := milestone.RequestApproval(project.Milestones, index)
	if err != nil {
		return nil, err
	}
	if !receipt.Transitioned {
		return &receipt, nil
	}

	// conditional update: a concurrent request loses the race and
	// observes a no-op, same as the pure engine
	changed, err := s.store.TransitionMilestone(projectID, index, receipt.From, receipt.To)
	if err != nil {
		return nil, err
	}
	if !changed {
		receipt.Transitioned = false
		receipt.To = receipt.From
		return &receipt, nil
	}

	s.log.Infof("Approval requested for milestone %q on project %d by user %d", receipt.Title, projectID, user.ID)
	if client, err := s.store.FindUserByID(project.ClientID); err == nil {
		if err := s.notifier.SendApprovalRequested(client.Email, client.Username, project.Title, receipt.Title); err != nil {
			s.log.Warnf("Approval notification failed: %v", err)
		}
	}
	return &receipt, nil
}

// StartMilestoneReview moves a requested milestone into review
func (s *Service) StartMilestoneReview(ctx context.Context, projectID int64, index int) (*milestone.Receipt, error) {
	project, err := s.store.FindProjectByID(projectID)
	if err != nil {
		return nil, err
	}
	_, receipt, err := milestone.StartReview(project.Milestones, index)
	if err != nil {
		return nil, err
	}
	if !receipt.Transitioned {
		return &receipt, nil
	}
	changed, err := s.store.TransitionMilestone(projectID, index, receipt.From, receipt.To)
	if err != nil {
		return nil, err
	}
	if !changed {
		receipt.Transitioned = false
		receipt.To = receipt.From
	}
	return &receipt, nil
}

// ApproveMilestone approves an in-review milestone and releases its
// escrow: the milestone price is converted to USD and credited to the
// freelancer's wallet ledger. The notification is best-effort.
func (s *Service) ApproveMilestone(ctx context.Context, projectID int64, index int) (*milestone.Receipt, error) {
	project, err := s.store.FindProjectByID(projectID)
	if err != nil {
		return nil, err
	}

	_, receipt, err := milestone.Approve(project.Milestones, index)
	if err != nil {
		return nil, err
	}
	if !receipt.Transitioned {
		return &receipt, nil
	}

	changed, err := s.store.TransitionMilestone(projectID, index, receipt.From, receipt.To)
	if err != nil {
		return nil, err
	}
	if !changed {
		receipt.Transitioned = false
		receipt.To = receipt.From
		return &receipt, nil
	}

	if project.FreelancerID != 0 {
		if err := s.releaseEscrow(project, project.Milestones[index]); err != nil {
			// the approval itself stands; the payout failure is logged
			// for manual follow-up
			s.log.Errorf("Escrow release failed for project %d milestone %d: %v", projectID, index, err)
		}
	}
	s.log.Infof("Milestone %q approved on project %d", receipt.Title, projectID)
	return &receipt, nil
}

func (s *Service) releaseEscrow(project *models.Project, m models.Milestone) error {
	amount := utils.ParseAmount(m.Price)
	if amount <= 0 {
		return nil
	}
	amount, err := s.rates.ConvertToUSD(amount, currencyTag(m.Price))
	if err != nil {
		return fmt.Errorf("failed to convert milestone price: %w", err)
	}

	wallet, err := s.store.FindWalletByUserID(project.FreelancerID)
	if err != nil {
		return err
	}
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		WalletID:    wallet.ID,
		Type:        models.DirectionCredit,
		Amount:      amount,
		Description: fmt.Sprintf("Milestone payment: %s (%s)", m.Title, project.Title),
		Status:      models.TxCompleted,
	}
	if err := s.store.CreateTransaction(tx); err != nil {
		return err
	}

	txs, err := s.store.ListTransactions(wallet.ID)
	if err != nil {
		return err
	}
	balance := ledger.ComputeBalance(txs)

	if freelancer, err := s.store.FindUserByID(project.FreelancerID); err == nil {
		if err := s.notifier.SendEscrowReleased(freelancer.Email, freelancer.Username, m.Title, amount, balance.Available); err != nil {
			s.log.Warnf("Escrow release notification failed: %v", err)
		}
	}
	return nil
}

// currencyTag extracts the alphabetic currency prefix of a price
// string, if any ("PKR 1,000" -> "PKR", "$300" -> "").
func currencyTag(price string) string {
	tag := ""
	for _, r := range price {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' {
			tag += string(r)
			continue
		}
		break
	}
	return tag
}

// ReviewView is a review with its derived aggregate rating.
type ReviewView struct {
	models.Review
	Aggregate float64 `json:"aggregate"`
}

// CreateReview validates and stores a client review
func (s *Service) CreateReview(ctx context.Context, review *models.Review) (*ReviewView, error) {
	for _, v := range append([]float64{review.Communication, review.Quality, review.Punctuality}, review.MilestoneRatings...) {
		if v < 0 || v > 5 {
			return nil, fmt.Errorf("ratings must be between 0 and 5")
		}
	}
	if _, err := s.userFromContext(ctx); err != nil {
		return nil, err
	}
	if err := s.store.CreateReview(review); err != nil {
		return nil, err
	}
	s.log.Infof("Review created for freelancer %d on project %d", review.FreelancerID, review.ProjectID)
	return &ReviewView{Review: *review, Aggregate: milestone.ComputeAggregateRating(*review)}, nil
}

// ListReviews returns a freelancer's reviews with derived aggregates
func (s *Service) ListReviews(freelancerID int64) ([]ReviewView, error) {
	reviews, err := s.store.ListReviews(freelancerID)
	if err != nil {
		return nil, err
	}
	views := make([]ReviewView, 0, len(reviews))
	for _, r := range reviews {
		views = append(views, ReviewView{Review: r, Aggregate: milestone.ComputeAggregateRating(r)})
	}
	return views, nil
}

// FreelancerRating is the overall score shown on a freelancer profile
func (s *Service) FreelancerRating(freelancerID int64) (float64, error) {
	reviews, err := s.store.ListReviews(freelancerID)
	if err != nil {
		return 0, err
	}
	return milestone.OverallRating(reviews), nil
}

// EarningsSummary returns the monthly earnings feed with its display sum
func (s *Service) EarningsSummary(ctx context.Context) (*models.EarningsSummary, error) {
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	months, err := s.store.ListEarnings(user.ID)
	if err != nil {
		return nil, err
	}
	summary := &models.EarningsSummary{Months: months}
	for _, m := range months {
		summary.Total += utils.CoerceAmount(m.Amount)
	}
	return summary, nil
}

// SendMessage stores a chat message; delivery beyond persistence is
// best-effort and unacknowledged
func (s *Service) SendMessage(ctx context.Context, projectID int64, body string) (*models.Message, error) {
	if body == "" {
		return nil, fmt.Errorf("message body is required")
	}
	user, err := s.userFromContext(ctx)
	if err != nil {
		return nil, err
	}
	msg := &models.Message{
		ID:        uuid.NewString(),
		ProjectID: projectID,
		SenderID:  user.ID,
		Body:      body,
	}
	if err := s.store.CreateMessage(msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns a project's chat history
func (s *Service) ListMessages(projectID int64) ([]models.Message, error) {
	return s.store.ListMessages(projectID)
}

// Package repository provides database operations for the
// marketplace. It expects the following schema to exist:
//
//	marketplace.users(id, username, email, role, skills, password_hash, created_at, updated_at)
//	marketplace.wallets(id, user_id, currency, created_at, updated_at)
//	marketplace.replenish_settings(wallet_id, enabled, threshold, top_up_amount)
//	marketplace.transactions(id, wallet_id, type, amount, description, created_at, status)
//	marketplace.projects(id, client_id, freelancer_id, title, description, budget,
//	                     deadline, status, proposal_status, proposals, skills)
//	marketplace.milestones(id, project_id, position, title, duration, price, status,
//	                       communication, quality, punctuality)
//	marketplace.reviews(id, project_id, freelancer_id, communication, quality,
//	                    punctuality, milestone_ratings, comment, created_at)
//	marketplace.earnings(user_id, month, amount)
//	marketplace.messages(id, project_id, sender_id, body, sent_at)
//
// Transactions are append-only: there is no update or delete path for
// ledger rows.
package repository

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/workhive/freelance-service/internal/models"
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database
func (r *Repository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO marketplace.users (username, email, role, skills, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, user.Username, user.Email, user.Role, pq.Array(user.Skills), user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByEmail retrieves a user by email
func (r *Repository) FindUserByEmail(email string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, role, skills, password_hash, created_at
		FROM marketplace.users
		WHERE email = $1`
	err := r.db.QueryRow(query, email).
		Scan(&user.ID, &user.Username, &user.Email, &user.Role, pq.Array(&user.Skills), &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// FindUserByID retrieves a user by id
func (r *Repository) FindUserByID(id int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, username, email, role, skills, password_hash, created_at
		FROM marketplace.users
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&user.ID, &user.Username, &user.Email, &user.Role, pq.Array(&user.Skills), &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// CreateWallet creates a wallet for a user
func (r *Repository) CreateWallet(wallet *models.Wallet) error {
	query := `
		INSERT INTO marketplace.wallets (user_id, currency, created_at, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(query, wallet.UserID, wallet.Currency).
		Scan(&wallet.ID, &wallet.CreatedAt, &wallet.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

// FindWalletByUserID retrieves a user's wallet
func (r *Repository) FindWalletByUserID(userID int64) (*models.Wallet, error) {
	wallet := &models.Wallet{}
	query := `
		SELECT id, user_id, currency, created_at, updated_at
		FROM marketplace.wallets
		WHERE user_id = $1`
	err := r.db.QueryRow(query, userID).
		Scan(&wallet.ID, &wallet.UserID, &wallet.Currency, &wallet.CreatedAt, &wallet.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("wallet not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet: %w", err)
	}
	return wallet, nil
}

// FindUserByWalletID retrieves the owner of a wallet
func (r *Repository) FindUserByWalletID(walletID int64) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT u.id, u.username, u.email, u.role, u.skills, u.password_hash, u.created_at
		FROM marketplace.users u
		JOIN marketplace.wallets w ON w.user_id = u.id
		WHERE w.id = $1`
	err := r.db.QueryRow(query, walletID).
		Scan(&user.ID, &user.Username, &user.Email, &user.Role, pq.Array(&user.Skills), &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find wallet owner: %w", err)
	}
	return user, nil
}

// CreateTransaction appends a row to the wallet ledger
func (r *Repository) CreateTransaction(tx *models.Transaction) error {
	query := `
		INSERT INTO marketplace.transactions (id, wallet_id, type, amount, description, created_at, status)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, $6)
		RETURNING created_at`
	err := r.db.QueryRow(query, tx.ID, tx.WalletID, tx.Type, tx.Amount, tx.Description, tx.Status).
		Scan(&tx.Date)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ListTransactions returns the full ledger for a wallet, oldest first
func (r *Repository) ListTransactions(walletID int64) ([]models.Transaction, error) {
	query := `
		SELECT id, wallet_id, type, amount, description, created_at, status
		FROM marketplace.transactions
		WHERE wallet_id = $1
		ORDER BY created_at, id`
	rows, err := r.db.Query(query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.WalletID, &tx.Type, &tx.Amount, &tx.Description, &tx.Date, &tx.Status); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	return txs, nil
}

// GetReplenishSettings returns a wallet's auto-replenish policy,
// defaulting to disabled when none is stored
func (r *Repository) GetReplenishSettings(walletID int64) (*models.AutoReplenishSettings, error) {
	s := &models.AutoReplenishSettings{WalletID: walletID}
	query := `
		SELECT enabled, threshold, top_up_amount
		FROM marketplace.replenish_settings
		WHERE wallet_id = $1`
	err := r.db.QueryRow(query, walletID).Scan(&s.Enabled, &s.Threshold, &s.TopUpAmount)
	if err == sql.ErrNoRows {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get replenish settings: %w", err)
	}
	return s, nil
}

// SaveReplenishSettings upserts a wallet's auto-replenish policy
func (r *Repository) SaveReplenishSettings(s *models.AutoReplenishSettings) error {
	query := `
		INSERT INTO marketplace.replenish_settings (wallet_id, enabled, threshold, top_up_amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (wallet_id) DO UPDATE
		SET enabled = $2, threshold = $3, top_up_amount = $4`
	if _, err := r.db.Exec(query, s.WalletID, s.Enabled, s.Threshold, s.TopUpAmount); err != nil {
		return fmt.Errorf("failed to save replenish settings: %w", err)
	}
	return nil
}

// ListReplenishWallets returns every wallet with auto-replenish
// enabled, for the periodic sweep
func (r *Repository) ListReplenishWallets() ([]models.AutoReplenishSettings, error) {
	query := `
		SELECT wallet_id, enabled, threshold, top_up_amount
		FROM marketplace.replenish_settings
		WHERE enabled = TRUE`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list replenish wallets: %w", err)
	}
	defer rows.Close()

	settings := []models.AutoReplenishSettings{}
	for rows.Next() {
		var s models.AutoReplenishSettings
		if err := rows.Scan(&s.WalletID, &s.Enabled, &s.Threshold, &s.TopUpAmount); err != nil {
			return nil, fmt.Errorf("failed to scan replenish settings: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read replenish settings: %w", err)
	}
	return settings, nil
}

// CreateProject stores a project with its ordered milestones
func (r *Repository) CreateProject(p *models.Project) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO marketplace.projects (client_id, title, description, budget, deadline, status, proposals, skills)
		VALUES ($1, $2, $3, $4, $5, $6, 0, $7)
		RETURNING id`
	err = tx.QueryRow(query, p.ClientID, p.Title, p.Description, p.Budget, p.Deadline, p.Status, pq.Array(p.Skills)).
		Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	for i := range p.Milestones {
		m := &p.Milestones[i]
		m.ProjectID = p.ID
		m.Position = i
		if m.Status == "" {
			m.Status = models.ApprovalPending
		}
		err = tx.QueryRow(`
			INSERT INTO marketplace.milestones (project_id, position, title, duration, price, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id`,
			m.ProjectID, m.Position, m.Title, m.Duration, m.Price, m.Status).Scan(&m.ID)
		if err != nil {
			return fmt.Errorf("failed to create milestone %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit project: %w", err)
	}
	return nil
}

// ListProjects returns projects filtered by status ("" for all),
// each with its ordered milestones
func (r *Repository) ListProjects(status models.ProjectStatus) ([]models.Project, error) {
	query := `
		SELECT id, client_id, COALESCE(freelancer_id, 0), title, description, budget,
		       deadline, status, COALESCE(proposal_status, ''), proposals, skills
		FROM marketplace.projects
		WHERE ($1 = '' OR status = $1)
		ORDER BY id`
	rows, err := r.db.Query(query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		var p models.Project
		if err := rows.Scan(&p.ID, &p.ClientID, &p.FreelancerID, &p.Title, &p.Description, &p.Budget,
			&p.Deadline, &p.Status, &p.ProposalStatus, &p.Proposals, pq.Array(&p.Skills)); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read projects: %w", err)
	}

	for i := range projects {
		ms, err := r.listMilestones(projects[i].ID)
		if err != nil {
			return nil, err
		}
		projects[i].Milestones = ms
	}
	return projects, nil
}

// FindProjectByID returns one project with its ordered milestones
func (r *Repository) FindProjectByID(id int64) (*models.Project, error) {
	p := &models.Project{}
	query := `
		SELECT id, client_id, COALESCE(freelancer_id, 0), title, description, budget,
		       deadline, status, COALESCE(proposal_status, ''), proposals, skills
		FROM marketplace.projects
		WHERE id = $1`
	err := r.db.QueryRow(query, id).
		Scan(&p.ID, &p.ClientID, &p.FreelancerID, &p.Title, &p.Description, &p.Budget,
			&p.Deadline, &p.Status, &p.ProposalStatus, &p.Proposals, pq.Array(&p.Skills))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find project: %w", err)
	}
	ms, err := r.listMilestones(p.ID)
	if err != nil {
		return nil, err
	}
	p.Milestones = ms
	return p, nil
}

func (r *Repository) listMilestones(projectID int64) ([]models.Milestone, error) {
	query := `
		SELECT id, project_id, position, title, duration, price, status,
		       COALESCE(communication, 0), COALESCE(quality, 0), COALESCE(punctuality, 0)
		FROM marketplace.milestones
		WHERE project_id = $1
		ORDER BY position`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list milestones: %w", err)
	}
	defer rows.Close()

	ms := []models.Milestone{}
	for rows.Next() {
		var m models.Milestone
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Position, &m.Title, &m.Duration, &m.Price, &m.Status,
			&m.Communication, &m.Quality, &m.Punctuality); err != nil {
			return nil, fmt.Errorf("failed to scan milestone: %w", err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read milestones: %w", err)
	}
	return ms, nil
}

// PlaceBid records a freelancer's proposal on a project
func (r *Repository) PlaceBid(projectID, freelancerID int64) error {
	query := `
		UPDATE marketplace.projects
		SET proposals = proposals + 1,
		    status = 'proposal',
		    proposal_status = 'pending',
		    freelancer_id = $2
		WHERE id = $1`
	res, err := r.db.Exec(query, projectID, freelancerID)
	if err != nil {
		return fmt.Errorf("failed to place bid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project not found")
	}
	return nil
}

// TransitionMilestone moves a milestone from one approval status to
// the next with a conditional update, so concurrent requests on the
// same milestone cannot double-transition. Returns true when the row
// actually changed.
func (r *Repository) TransitionMilestone(projectID int64, position int, from, to models.ApprovalStatus) (bool, error) {
	query := `
		UPDATE marketplace.milestones
		SET status = $4
		WHERE project_id = $1 AND position = $2 AND status = $3`
	res, err := r.db.Exec(query, projectID, position, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to transition milestone: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read transition result: %w", err)
	}
	return n > 0, nil
}

// CreateReview stores a review
func (r *Repository) CreateReview(review *models.Review) error {
	query := `
		INSERT INTO marketplace.reviews (project_id, freelancer_id, communication, quality, punctuality, milestone_ratings, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRow(query, review.ProjectID, review.FreelancerID,
		review.Communication, review.Quality, review.Punctuality,
		pq.Array(review.MilestoneRatings), review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

// ListReviews returns all reviews for a freelancer, newest first
func (r *Repository) ListReviews(freelancerID int64) ([]models.Review, error) {
	query := `
		SELECT id, project_id, freelancer_id, communication, quality, punctuality, milestone_ratings, comment, created_at
		FROM marketplace.reviews
		WHERE freelancer_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.Query(query, freelancerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rv models.Review
		if err := rows.Scan(&rv.ID, &rv.ProjectID, &rv.FreelancerID, &rv.Communication, &rv.Quality,
			&rv.Punctuality, pq.Array(&rv.MilestoneRatings), &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}
	return reviews, nil
}

// ListEarnings returns a user's monthly earnings feed
func (r *Repository) ListEarnings(userID int64) ([]models.MonthlyEarning, error) {
	query := `
		SELECT month, amount
		FROM marketplace.earnings
		WHERE user_id = $1
		ORDER BY month`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list earnings: %w", err)
	}
	defer rows.Close()

	earnings := []models.MonthlyEarning{}
	for rows.Next() {
		var e models.MonthlyEarning
		if err := rows.Scan(&e.Month, &e.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan earning: %w", err)
		}
		earnings = append(earnings, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read earnings: %w", err)
	}
	return earnings, nil
}

// CreateMessage stores a chat message
func (r *Repository) CreateMessage(m *models.Message) error {
	query := `
		INSERT INTO marketplace.messages (id, project_id, sender_id, body, sent_at)
		VALUES ($1, $2, $3, $4, CURRENT_TIMESTAMP)
		RETURNING sent_at`
	if err := r.db.QueryRow(query, m.ID, m.ProjectID, m.SenderID, m.Body).Scan(&m.SentAt); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListMessages returns a project's chat history in insertion order
func (r *Repository) ListMessages(projectID int64) ([]models.Message, error) {
	query := `
		SELECT id, project_id, sender_id, body, sent_at
		FROM marketplace.messages
		WHERE project_id = $1
		ORDER BY sent_at, id`
	rows, err := r.db.Query(query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.SenderID, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	return msgs, nil
}

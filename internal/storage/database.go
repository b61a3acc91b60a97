package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/yourusername/intakeserver/internal/config"
	"github.com/yourusername/intakeserver/internal/models"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Database provides database operations for the application
type Database struct {
	db *sqlx.DB
}

// NewDatabase connects to Postgres and applies the schema.
func NewDatabase(cfg config.DBConfig) (*Database, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	d := &Database{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Close closes the database connection
func (d *Database) Close() error {
	return d.db.Close()
}

// GetDB returns the underlying database connection
func (d *Database) GetDB() *sqlx.DB {
	return d.db
}

func (d *Database) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS subscriptions (
	id         TEXT PRIMARY KEY,
	address    TEXT NOT NULL,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS subscriptions_address_lower_idx
	ON subscriptions (LOWER(address));

CREATE TABLE IF NOT EXISTS received_emails (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL REFERENCES users(id),
	from_address TEXT NOT NULL,
	to_address   TEXT NOT NULL,
	reply_to     TEXT NOT NULL DEFAULT '',
	subject      TEXT NOT NULL DEFAULT '',
	html         TEXT NOT NULL DEFAULT '',
	type         TEXT NOT NULL DEFAULT 'non-article',
	reply        TEXT,
	created_at   TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS library_items (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL REFERENCES users(id),
	from_address      TEXT NOT NULL,
	email             TEXT NOT NULL,
	title             TEXT NOT NULL DEFAULT '',
	content           TEXT NOT NULL DEFAULT '',
	url               TEXT NOT NULL,
	author            TEXT NOT NULL DEFAULT '',
	received_email_id TEXT NOT NULL UNIQUE REFERENCES received_emails(id),
	created_at        TIMESTAMPTZ NOT NULL
);
`
	_, err := d.db.Exec(schema)
	return err
}

// User related methods

// CreateUser creates a new user
func (d *Database) CreateUser(user models.User) error {
	_, err := d.db.Exec(`
		INSERT INTO users (id, email, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Email, user.PasswordHash, user.IsActive, user.CreatedAt, user.UpdatedAt)

	return err
}

// GetUserByEmail gets a user by email
func (d *Database) GetUserByEmail(email string) (models.User, error) {
	var user models.User
	err := d.db.Get(&user, "SELECT * FROM users WHERE email = $1", email)
	return user, err
}

// GetUserByID gets a user by ID
func (d *Database) GetUserByID(id string) (models.User, error) {
	var user models.User
	err := d.db.Get(&user, "SELECT * FROM users WHERE id = $1", id)
	return user, err
}

// CountUsersByEmail counts users registered with the given email
func (d *Database) CountUsersByEmail(email string) (int, error) {
	var cnt int
	err := d.db.Get(&cnt, "SELECT COUNT(*) FROM users WHERE email = $1", email)
	return cnt, err
}

// Subscription related methods

// CreateSubscription registers a new intake address for a user
func (d *Database) CreateSubscription(sub models.Subscription) error {
	_, err := d.db.Exec(`
		INSERT INTO subscriptions (id, address, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, sub.ID, sub.Address, sub.UserID, sub.CreatedAt, sub.UpdatedAt)

	return err
}

// GetSubscriptionByAddress finds the subscription whose intake address
// matches case-insensitively, scoped to the given user. A match owned
// by another user is never returned. At most one row is produced.
func (d *Database) GetSubscriptionByAddress(userID, address string) (models.Subscription, error) {
	var sub models.Subscription
	err := d.db.Get(&sub, `
		SELECT * FROM subscriptions
		WHERE user_id = $1 AND LOWER(address) = LOWER($2)
		LIMIT 1
	`, userID, address)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, ErrNotFound
	}
	return sub, err
}

// GetSubscriptionByAddressAnyUser resolves an intake address to its
// subscription regardless of owner. Used by the inbound receiver to
// route mail; user-scoped lookups must use GetSubscriptionByAddress.
func (d *Database) GetSubscriptionByAddressAnyUser(address string) (models.Subscription, error) {
	var sub models.Subscription
	err := d.db.Get(&sub, `
		SELECT * FROM subscriptions
		WHERE LOWER(address) = LOWER($1)
		LIMIT 1
	`, address)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Subscription{}, ErrNotFound
	}
	return sub, err
}

// ListSubscriptionsByUserID gets all intake addresses for a user
func (d *Database) ListSubscriptionsByUserID(userID string) ([]models.Subscription, error) {
	var subs []models.Subscription
	err := d.db.Select(&subs, "SELECT * FROM subscriptions WHERE user_id = $1", userID)
	return subs, err
}

// Received email related methods

// CreateReceivedEmail stores a new inbound email
func (d *Database) CreateReceivedEmail(email models.ReceivedEmail) error {
	_, err := d.db.Exec(`
		INSERT INTO received_emails (id, user_id, from_address, to_address, reply_to, subject, html, type, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, email.ID, email.UserID, email.From, email.To, email.ReplyTo, email.Subject, email.HTML, email.Type, email.CreatedAt)

	return err
}

// GetReceivedEmailByID gets an email by ID, scoped to its owning user
func (d *Database) GetReceivedEmailByID(id, userID string) (models.ReceivedEmail, error) {
	var email models.ReceivedEmail
	err := d.db.Get(&email, `
		SELECT * FROM received_emails WHERE id = $1 AND user_id = $2
	`, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReceivedEmail{}, ErrNotFound
	}
	return email, err
}

// GetPromotableEmail gets an email by ID, scoped to its owning user and
// filtered to those not yet promoted. An already-promoted email is a miss.
func (d *Database) GetPromotableEmail(id, userID string) (models.ReceivedEmail, error) {
	var email models.ReceivedEmail
	err := d.db.Get(&email, `
		SELECT * FROM received_emails WHERE id = $1 AND user_id = $2 AND type = $3
	`, id, userID, models.EmailTypeNonArticle)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ReceivedEmail{}, ErrNotFound
	}
	return email, err
}

// ListRecentReceivedEmails gets the most recent emails for a user, newest first
func (d *Database) ListRecentReceivedEmails(userID string, limit int) ([]models.ReceivedEmail, error) {
	var emails []models.ReceivedEmail
	err := d.db.Select(&emails, `
		SELECT * FROM received_emails
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, userID, limit)
	return emails, err
}

// MarkReceivedEmailAsItem flips an email's type to article. The update
// is conditional on the current type, so concurrent promotions of the
// same email resolve in the store: only one caller sees true.
func (d *Database) MarkReceivedEmailAsItem(id, userID string) (bool, error) {
	res, err := d.db.Exec(`
		UPDATE received_emails SET type = $1
		WHERE id = $2 AND user_id = $3 AND type = $4
	`, models.EmailTypeArticle, id, userID, models.EmailTypeNonArticle)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n == 1, err
}

// UpdateReceivedEmailReply records the reply text sent for an email
func (d *Database) UpdateReceivedEmailReply(id, reply string) error {
	_, err := d.db.Exec("UPDATE received_emails SET reply = $1 WHERE id = $2", reply, id)
	return err
}

// Library item related methods

// CreateLibraryItem persists a promoted item. The unique constraint on
// received_email_id makes promotion idempotent at the email level: a
// duplicate insert is swallowed and still reported as a success.
func (d *Database) CreateLibraryItem(item models.LibraryItem) (bool, error) {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO library_items (id, user_id, from_address, email, title, content, url, author, received_email_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (received_email_id) DO NOTHING
	`, item.ID, item.UserID, item.From, item.Email, item.Title, item.Content, item.URL, item.Author, item.ReceivedEmailID, item.CreatedAt)
	if err != nil {
		return false, err
	}
	return true, nil
}

// GetLibraryItemByReceivedEmailID gets the item created from an email, if any
func (d *Database) GetLibraryItemByReceivedEmailID(receivedEmailID string) (models.LibraryItem, error) {
	var item models.LibraryItem
	err := d.db.Get(&item, "SELECT * FROM library_items WHERE received_email_id = $1", receivedEmailID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.LibraryItem{}, ErrNotFound
	}
	return item, err
}

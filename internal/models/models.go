package models

import (
	"time"
)

// Email classifications. Every received email starts as non-article and
// moves to article at most once, when it is promoted into a library item.
const (
	EmailTypeNonArticle = "non-article"
	EmailTypeArticle    = "article"
)

// User represents an account that owns intake addresses and received emails
type User struct {
	ID           string    `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Subscription is a user's registered newsletter intake address.
// Matching against incoming mail is case-insensitive on the full address.
type Subscription struct {
	ID        string    `db:"id" json:"id"`
	Address   string    `db:"address" json:"address"`
	UserID    string    `db:"user_id" json:"user_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ReceivedEmail is an inbound message stored for exactly one user
type ReceivedEmail struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	From      string    `db:"from_address" json:"from"`
	To        string    `db:"to_address" json:"to"`
	ReplyTo   string    `db:"reply_to" json:"reply_to"`
	Subject   string    `db:"subject" json:"subject"`
	HTML      string    `db:"html" json:"html"`
	Type      string    `db:"type" json:"type"`
	Reply     *string   `db:"reply" json:"reply"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LibraryItem is the artifact produced by promoting a received email.
// received_email_id is unique in the store: at most one item per source email.
type LibraryItem struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	From            string    `db:"from_address" json:"from"`
	Email           string    `db:"email" json:"email"`
	Title           string    `db:"title" json:"title"`
	Content         string    `db:"content" json:"content"`
	URL             string    `db:"url" json:"url"`
	Author          string    `db:"author" json:"author"`
	ReceivedEmailID string    `db:"received_email_id" json:"received_email_id"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}

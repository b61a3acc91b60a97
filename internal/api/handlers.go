package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/intakeserver/internal/app"
	"github.com/yourusername/intakeserver/internal/intake"
	"github.com/yourusername/intakeserver/internal/models"
	"github.com/yourusername/intakeserver/internal/storage"
)

/* ----------------------------------------------------------------
   DTO types
-----------------------------------------------------------------*/

type UserRegistration struct {
	Email    string `json:"email"  binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UserLogin struct {
	Email    string `json:"email"  binding:"required"`
	Password string `json:"password" binding:"required"`
}

type SubscriptionCreation struct {
	Address string `json:"address" binding:"required"`
}

/* ================================================================
   USER AUTHENTICATION
================================================================ */

func handleUserRegistration(a *app.App, c *gin.Context) {
	var in UserRegistration
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	if !strings.Contains(in.Email, "@") {
		c.JSON(400, gin.H{"error": "Invalid email address"})
		return
	}

	cnt, err := a.GetStorage().CountUsersByEmail(in.Email)
	if err != nil {
		c.JSON(500, gin.H{"error": "Database error"})
		return
	}
	if cnt > 0 {
		c.JSON(400, gin.H{"error": "User already exists"})
		return
	}

	hash, err := a.GetAuth().HashPassword(in.Password)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to create user"})
		return
	}

	now := time.Now()
	user := models.User{
		ID:           uuid.New().String(),
		Email:        in.Email,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := a.GetStorage().CreateUser(user); err != nil {
		c.JSON(500, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(201, gin.H{"id": user.ID, "message": "User registered successfully"})
}

func handleUserLogin(a *app.App, c *gin.Context) {
	var in UserLogin
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}

	u, err := a.GetStorage().GetUserByEmail(in.Email)
	if err != nil {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}
	if err := a.GetAuth().CheckPassword(in.Password, u.PasswordHash); err != nil {
		c.JSON(401, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := a.GetAuth().GenerateToken(u)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(200, gin.H{"token": token})
}

/* ================================================================
   INTAKE ADDRESS MANAGEMENT
================================================================ */

func handleCreateSubscription(a *app.App, c *gin.Context) {
	userID := c.GetString("userID")

	var in SubscriptionCreation
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(400, gin.H{"error": "Invalid request"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(in.Address), "@"+a.GetConfig().Domain) {
		c.JSON(400, gin.H{"error": "Intake address must use domain " + a.GetConfig().Domain})
		return
	}

	// address uniqueness is global and case-insensitive
	_, err := a.GetStorage().GetSubscriptionByAddressAnyUser(in.Address)
	if err == nil {
		c.JSON(400, gin.H{"error": "Address already registered"})
		return
	}
	if !errors.Is(err, storage.ErrNotFound) {
		c.JSON(500, gin.H{"error": "Database error"})
		return
	}

	now := time.Now()
	sub := models.Subscription{
		ID:        uuid.New().String(),
		Address:   in.Address,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.GetStorage().CreateSubscription(sub); err != nil {
		c.JSON(500, gin.H{"error": "Failed to create subscription"})
		return
	}
	c.JSON(201, gin.H{"id": sub.ID})
}

func handleListSubscriptions(a *app.App, c *gin.Context) {
	userID := c.GetString("userID")

	subs, err := a.GetStorage().ListSubscriptionsByUserID(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to list subscriptions"})
		return
	}
	c.JSON(200, gin.H{"subscriptions": subs})
}

/* ================================================================
   RECEIVED EMAIL OPERATIONS
================================================================ */

func handleRecentEmails(a *app.App, c *gin.Context) {
	userID := c.GetString("userID")

	emails, err := a.GetIntake().RecentEmails(userID)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to list recent emails"})
		return
	}
	c.JSON(200, gin.H{"recent_emails": emails})
}

func handleMarkEmailAsItem(a *app.App, c *gin.Context) {
	userID, emailID := c.GetString("userID"), c.Param("emailId")

	if err := a.GetIntake().MarkEmailAsItem(userID, emailID); err != nil {
		c.JSON(promotionStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(200, gin.H{"success": true})
}

func handleReplyToEmail(a *app.App, c *gin.Context) {
	userID, emailID := c.GetString("userID"), c.Param("emailId")

	sent, err := a.GetIntake().ReplyToEmail(userID, emailID)
	if err != nil {
		if errors.Is(err, intake.ErrUnauthorized) {
			c.JSON(401, gin.H{"error": err.Error()})
			return
		}
		c.JSON(500, gin.H{"error": "Failed to reply"})
		return
	}

	// a transport failure is reported in the success flag, not as an error
	c.JSON(200, gin.H{"success": sent})
}

// promotionStatus maps a promotion pipeline failure to its HTTP status.
func promotionStatus(err error) int {
	switch {
	case errors.Is(err, intake.ErrUnauthorized):
		return 401
	case errors.Is(err, intake.ErrNoSubscription):
		return 404
	case errors.Is(err, intake.ErrItemNotSaved):
		return 400
	default:
		return 500
	}
}

package controllers

import (
	"Rondo/middleware"
	models "Rondo/models/postgres"
	"Rondo/services/token"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// getAuthenticatedUser resolves the JWT of the request into its user row
func getAuthenticatedUser(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	// JWT_decoder already wrote the error response
	email, err := middleware.JWT_decoder(c)
	if err != nil {
		return nil, false
	}

	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found: invalid email"})
		return nil, false
	}
	return &user, true
}

// Starting balance credited to every new wallet (dev faucet)
const signupFaucetAmount uint64 = 10_000_000

// @Summary Creates a new user account
// @Description Registers a user with email, username and password, and opens their token wallet
// @Tags user
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} object{message=string,wallet=string}
// @Failure 400 {object} object{error=string}
// @Failure 500 {object} object{error=string}
// @Router /signup [post]
func SignUp(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.PostForm("email")
		username := c.PostForm("username")
		password := c.PostForm("password")

		// Minimum input sanitizing
		if strings.Trim(email, " ") == "" || strings.Trim(username, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
			return
		}

		var wallet string
		err = db.Transaction(func(tx *gorm.DB) error {
			account, err := token.CreateAccount(tx, token.GenerateAddress(), username, models.AccountKindWallet)
			if err != nil {
				return err
			}
			if err := token.Deposit(tx, account.Address, signupFaucetAmount); err != nil {
				return err
			}
			wallet = account.Address

			user := models.User{
				Email:         email,
				Username:      username,
				PasswordHash:  string(hash),
				WalletAddress: account.Address,
				MemberSince:   time.Now(),
			}
			return tx.Create(&user).Error
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Error creating user, email or username may be taken"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "User created successfully", "wallet": wallet})
	}
}

// @Summary Logs a user in
// @Description Validates credentials and opens a session
// @Tags user
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Success 200 {object} object{token=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /login [post]
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		email := c.PostForm("email")
		password := c.PostForm("password")

		if strings.Trim(email, " ") == "" || strings.Trim(password, " ") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parameters can't be empty"})
			return
		}

		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password!"})
			return
		}

		session.Set("Email", user.Email)
		if err := session.Save(); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No session!"})
			return
		}

		jwt, err := middleware.GenerateJWT(user.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error generating token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": jwt})
	}
}

// Logout from server, deletes the session associated with the Email key
// @Summary Logs a user out
// @Description Deletes the user's session
// @Tags user
// @Produce json
// @Success 200 {object} object{message=string}
// @Failure 400 {object} object{error=string}
// @Router /logout [post]
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get("Email")
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete("Email")
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}

// @Summary Returns the authenticated user's profile and wallet balance
// @Tags user
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} object{username=string,wallet=string,balance=integer}
// @Failure 401 {object} object{error=string}
// @Router /auth/me [get]
// @Security ApiKeyAuth
func Me(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := getAuthenticatedUser(c, db)
		if !ok {
			return
		}

		balance, err := token.GetBalance(db, user.WalletAddress)
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"username":     user.Username,
			"email":        user.Email,
			"wallet":       user.WalletAddress,
			"balance":      balance,
			"member_since": user.MemberSince,
		})
	}
}

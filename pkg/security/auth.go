package security

import (
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"hangar/internal/repository"
	"hangar/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecret     []byte
	jwtSecretOnce sync.Once
)

// getJWTSecret loads the signing key on first use so importing the package
// (e.g. from tests) does not require the variable to be set.
func getJWTSecret() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")

		if secret == "" {
			if err := godotenv.Load(); err != nil {
				log.Printf("Unable to load .env: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}

		jwtSecret = []byte(secret)
	})

	return jwtSecret
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.Select("id", "username", "password_hash", "role").From("users").Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID string, role string, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTSecret())
}

func GetUserIDFromToken(c *gin.Context) (string, error) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", fmt.Errorf("no userID claim in context")
	}

	id, ok := userID.(string)
	if !ok {
		return "", fmt.Errorf("userID is not a string")
	}

	return id, nil
}

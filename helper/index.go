package helper

import (
	"errors"
	"fmt"
	"time"

	"cinema_reservation/config"
	"cinema_reservation/database"
	"cinema_reservation/model"
	"cinema_reservation/service"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

var tokenSettings = config.JWTSettings{
	AccessTTL:  60 * time.Minute,
	RefreshTTL: 7 * 24 * time.Hour,
}

// ConfigureTokens installs the signing secret and token lifetimes.
func ConfigureTokens(s config.JWTSettings) {
	tokenSettings = s
}

func jwtSecret() []byte {
	if tokenSettings.Secret == "" {
		return []byte(config.Config("JWT_SECRET"))
	}
	return []byte(tokenSettings.Secret)
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func GetUserByEmail(email string) (*model.User, error) {
	var user model.User
	if err := database.DB.Where(&model.User{Email: email}).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func generateToken(claim model.TokenClaim, typ string, ttl time.Duration) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = claim.UserId
	claims["email"] = claim.Email
	claims["role"] = claim.Role
	claims["typ"] = typ
	claims["exp"] = time.Now().Add(ttl).Unix()

	return token.SignedString(jwtSecret())
}

func GenerateAccessToken(claim model.TokenClaim) (string, error) {
	return generateToken(claim, tokenTypeAccess, tokenSettings.AccessTTL)
}

func GenerateRefreshToken(claim model.TokenClaim) (string, error) {
	return generateToken(claim, tokenTypeRefresh, tokenSettings.RefreshTTL)
}

func GenerateTokens(user *model.User) (model.TokenData, error) {
	claim := model.TokenClaim{UserId: user.ID, Email: user.Email, Role: user.Role}
	access, err := GenerateAccessToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	refresh, err := GenerateRefreshToken(claim)
	if err != nil {
		return model.TokenData{}, err
	}
	return model.TokenData{AccessToken: access, RefreshToken: refresh}, nil
}

func parseToken(tokenString, typ string) (model.TokenClaim, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil {
		return model.TokenClaim{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return model.TokenClaim{}, errors.New("invalid token claims")
	}
	if claims["typ"] != typ {
		return model.TokenClaim{}, fmt.Errorf("expected %s token", typ)
	}
	userId, ok := claims["userId"].(float64)
	if !ok || userId <= 0 {
		return model.TokenClaim{}, errors.New("token has no user")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return model.TokenClaim{UserId: uint(userId), Email: email, Role: role}, nil
}

func ParseAccessToken(tokenString string) (model.TokenClaim, error) {
	return parseToken(tokenString, tokenTypeAccess)
}

func ParseRefreshToken(tokenString string) (model.TokenClaim, error) {
	return parseToken(tokenString, tokenTypeRefresh)
}

// CurrentUser returns the user stored by middleware.Protected.
func CurrentUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("user").(*model.User)
	return user, ok && user != nil
}

// ActorFrom builds the service caller. manage is the capability that lifts
// ownership checks for the current operation.
func ActorFrom(c *fiber.Ctx, manage Capability) service.Actor {
	user, ok := CurrentUser(c)
	if !ok {
		return service.Actor{}
	}
	return service.Actor{
		UserId:    model.ID(user.ID),
		CanManage: Can(Role(user.Role), manage),
	}
}

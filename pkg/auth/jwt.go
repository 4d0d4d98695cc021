package auth

import (
	"errors"
	"time"

	"github.com/JKelly423/connect-4-reinforced-learning/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// GameClaims binds a websocket client to one seat of one game.
type GameClaims struct {
	GameID string `json:"game_id"`
	Player int    `json:"player"`
	jwt.RegisteredClaims
}

func (c *GameClaims) Seat() domain.Cell {
	return domain.Cell(c.Player)
}

// TokenIssuer signs and checks game tokens with HS256.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// GenerateGameToken creates a token for player's seat in gameID.
func (i *TokenIssuer) GenerateGameToken(gameID string, player domain.Cell) (string, error) {
	if err := domain.ValidatePlayer(player); err != nil {
		return "", err
	}
	now := time.Now()
	claims := &GameClaims{
		GameID: gameID,
		Player: int(player),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   gameID,
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// ValidateGameToken validates a game token and returns the claims
func (i *TokenIssuer) ValidateGameToken(tokenString string) (*GameClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &GameClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return i.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*GameClaims)
	if !ok || !token.Valid || claims.GameID == "" || !claims.Seat().IsPlayer() {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

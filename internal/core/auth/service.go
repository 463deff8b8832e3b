// internal/core/auth/service.go
package auth

import (
	"context"
	"errors"
	"os"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/api/iterator"

	"github.com/cmoralesv/importaCartolas/internal/api/responses"
)

// La clave secreta se lee de una variable de entorno.
var jwtSecret = []byte(os.Getenv("JWT_SECRET"))

type Service interface {
	Login(ctx context.Context, username, password string) (string, error)
}

type service struct {
	db *firestore.Client
}

func NewService(db *firestore.Client) Service {
	return &service{db: db}
}

// User representa la estructura de un usuario en Firestore.
type User struct {
	Username     string   `firestore:"username"`
	PasswordHash string   `firestore:"passwordHash"`
	Roles        []string `firestore:"roles"`
}

func (s *service) Login(ctx context.Context, username, password string) (string, error) {
	// 1. Buscar el usuario en Firestore.
	query := s.db.Collection("users").Where("username", "==", username).Limit(1).Documents(ctx)
	defer query.Stop()

	doc, err := query.Next()
	if err == iterator.Done {
		return "", errors.New("usuario o contraseña inválidos")
	}
	if err != nil {
		responses.Log().Error("error al consultar usuarios en firestore", zap.Error(err))
		return "", errors.New("error al consultar la base de datos")
	}

	var user User
	if err := doc.DataTo(&user); err != nil {
		return "", errors.New("error al leer los datos del usuario")
	}

	// 2. Comparar la contraseña con el hash almacenado.
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return "", errors.New("usuario o contraseña inválidos")
	}

	// 3. Generar el token JWT con los roles del usuario.
	claims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"roles":    user.Roles,
		"exp":      time.Now().Add(time.Hour * 24).Unix(), // expira en 24 horas
	})

	tokenString, err := claims.SignedString(jwtSecret)
	if err != nil {
		return "", errors.New("error al generar el token de acceso")
	}

	return tokenString, nil
}

package echoapi

import (
	"context"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/teacher"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "teacherToken",
		Claims:        new(Claims),
	}
	contextTeacherKey = "teacher"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func GetTeacherClaims(tchr teacher.Teacher) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   tchr.ID,
			Audience:  "Mahudhurio",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:  tchr.Name,
		Email: tchr.Email,
	}
}

func authenticate(ctx context.Context, email, pwd string, svc *teacher.Service) (*Claims, error) {
	tchr, err := svc.GetByEmail(ctx, email)
	if err != nil {
		if err == teacher.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding teacher by email")
	}
	if err = tchr.CheckPassword(pwd); err != nil {
		return nil, errAuthenticationFailed
	}
	if !tchr.IsActive {
		return nil, errAccountDeactivated
	}
	if tchr, err = svc.SetLastLogin(ctx, tchr); err != nil {
		return nil, errors.Wrap(err, "setting lastLogin")
	}
	return GetTeacherClaims(tchr), nil
}

// GenerateToken generates a signed JWT token string representing the teacher Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextTeacher(ctx echo.Context, svc *teacher.Service) (teacher.Teacher, error) {
	if tchr, ok := ctx.Get(contextTeacherKey).(teacher.Teacher); ok {
		return tchr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "getting context claims")
	}

	tchr, err := svc.GetByID(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "finding teacher by ID")
	}
	ctx.Set(contextTeacherKey, tchr)
	return tchr, nil
}

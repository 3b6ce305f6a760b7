package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"cartapp/internal/config"
)

const (
	CtxUserIDKey    = "user_id"         // int64（ゲストは0）
	CtxSessionIDKey = "cart_session_id" // string

	sessionCookieName = "cart_session"
)

// Identity はカート用の識別ミドルウェア。
// Bearerトークンがあれば検証してuser_idを載せる（無ければゲスト扱い）。
// トークンが付いているのに不正な場合だけ401。
// ゲストカート用のセッションIDはcookieから取り、無ければ発行する。
func Identity(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var userID int64

			authz := c.Request().Header.Get("Authorization")
			if authz != "" {
				//Bearer形式か確認してtokenを抜く
				parts := strings.SplitN(authz, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
				rawToken := strings.TrimSpace(parts[1])
				if rawToken == "" {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}

				//JWTをパースして検証する
				token, err := jwt.Parse(rawToken, func(t *jwt.Token) (interface{}, error) {
					if t.Method != jwt.SigningMethodHS256 {
						return nil, errors.New("unexpected signing method")
					}
					return []byte(cfg.JWTSecret), nil
				})
				if err != nil || token == nil || !token.Valid {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}

				claims, ok := token.Claims.(jwt.MapClaims)
				if !ok {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}

				userID, err = parseUserID(claims["sub"])
				if err != nil || userID <= 0 {
					return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
				}
			}

			//ゲストカート用セッションID（無ければ発行してcookieに載せる）
			sessionID := ""
			if cookie, err := c.Cookie(sessionCookieName); err == nil {
				sessionID = cookie.Value
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     sessionCookieName,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			//contextへ保存
			c.Set(CtxUserIDKey, userID)
			c.Set(CtxSessionIDKey, sessionID)

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}

// user_idをint64に変換する
func parseUserID(v interface{}) (int64, error) {
	switch t := v.(type) {
	case float64:
		return int64(t), nil
	case string:
		return strconv.ParseInt(t, 10, 64)
	default:
		return 0, errors.New("invalid sub")
	}
}

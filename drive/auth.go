package drive

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

var ErrUnauthorized = errors.New("drive: unauthorized")

const tokenUrl = "https://oauth2.googleapis.com/token"

// TokenSource returns a currently valid short-lived bearer token.
type TokenSource = func() (string, error)

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// RestTokenSource exchanges the long-lived refresh credential for an access
// token at call time, reusing it until shortly before expiry.
func RestTokenSource(clientId string, clientSecret string, refreshToken string) TokenSource {
	var mutex sync.Mutex
	var token string
	var expiresAt time.Time

	return func() (string, error) {
		mutex.Lock()
		defer mutex.Unlock()
		if token != "" && time.Now().Before(expiresAt) {
			return token, nil
		}

		agent := fiber.AcquireAgent()
		defer fiber.ReleaseAgent(agent)

		req := agent.Request()
		req.Header.SetMethod(fiber.MethodPost)
		req.SetRequestURI(tokenUrl)

		args := fiber.AcquireArgs()
		defer fiber.ReleaseArgs(args)

		args.Add("grant_type", "refresh_token")
		args.Add("client_id", clientId)
		args.Add("client_secret", clientSecret)
		args.Add("refresh_token", refreshToken)

		if err := agent.Form(args).Parse(); err != nil {
			return "", fmt.Errorf("agent parse: %w", err)
		}
		statusCode, body, errArr := agent.Bytes()
		if len(errArr) != 0 {
			return "", fmt.Errorf("agent bytes: %v", errArr)
		}
		if statusCode == fiber.StatusUnauthorized || statusCode == fiber.StatusBadRequest {
			return "", fmt.Errorf("%w: %s", ErrUnauthorized, string(body))
		}
		if statusCode != fiber.StatusOK {
			return "", fmt.Errorf("invalid status code '%d': %s", statusCode, string(body))
		}

		var response accessTokenResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return "", fmt.Errorf("response unmarshal: %w", err)
		}
		token = response.AccessToken
		// refresh one minute early to avoid using a token mid-expiry.
		expiresAt = time.Now().Add(time.Duration(response.ExpiresIn)*time.Second - time.Minute)
		return token, nil
	}
}

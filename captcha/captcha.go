// Package captcha verifies client-supplied CAPTCHA tokens against an
// hCaptcha-compatible siteverify endpoint.
package captcha

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Verifier checks a token for a request. Implementations return nil when
// the token passed verification.
type Verifier interface {
	Verify(ctx context.Context, token string) error
}

// HCaptchaVerifier posts {secret, response} to the verify URL and reads the
// {"success": bool} reply.
type HCaptchaVerifier struct {
	VerifyURL string
	Secret    string
	Client    *http.Client
}

func NewHCaptchaVerifier(verifyURL, secret string) *HCaptchaVerifier {
	return &HCaptchaVerifier{
		VerifyURL: verifyURL,
		Secret:    secret,
		Client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (v *HCaptchaVerifier) Verify(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("CAPTCHA token missing")
	}

	form := url.Values{
		"secret":   {v.Secret},
		"response": {token},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.VerifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.Client.Do(req)
	if err != nil {
		return fmt.Errorf("CAPTCHA verification request failed: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("CAPTCHA verification response malformed: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("CAPTCHA verification failed")
	}
	return nil
}

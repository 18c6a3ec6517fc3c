package gemini

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"google.golang.org/api/googleapi"
)

// statusKinds maps API status codes to error kinds and user-facing text.
var statusKinds = map[int]struct {
	kind apperrors.Kind
	msg  string
}{
	http.StatusBadRequest:      {apperrors.KindBadRequest, "Gemini request rejected (400)."},
	http.StatusUnauthorized:    {apperrors.KindAuth, "Gemini authentication failed (401)."},
	http.StatusForbidden:       {apperrors.KindAuth, "Gemini access denied (403)."},
	http.StatusNotFound:        {apperrors.KindBadRequest, "Gemini model not found or no access (404)."},
	http.StatusTooManyRequests: {apperrors.KindRateLimit, "Gemini rate limit exceeded (429). Please try again later."},
}

func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}
	wrapped := fmt.Errorf("gemini generate content failed: %w", err)

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		// DNS, socket and timeout failures carry no status.
		return apperrors.New(apperrors.KindTransient, "Gemini request failed due to a network error.", wrapped)
	}
	if k, ok := statusKinds[gerr.Code]; ok {
		return apperrors.New(k.kind, k.msg, wrapped)
	}
	if gerr.Code >= 500 {
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("Gemini service temporary error (%d).", gerr.Code), wrapped)
	}
	return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("Gemini API error (%d).", gerr.Code), wrapped)
}

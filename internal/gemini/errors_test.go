package gemini

import (
	"errors"
	"strings"
	"testing"

	"github.com/oukeidos/batchsub/internal/apperrors"
	"google.golang.org/api/googleapi"
)

func TestClassifyGeminiError_CodeMapping(t *testing.T) {
	tests := []struct {
		code int
		kind apperrors.Kind
	}{
		{code: 400, kind: apperrors.KindBadRequest},
		{code: 401, kind: apperrors.KindAuth},
		{code: 403, kind: apperrors.KindAuth},
		{code: 404, kind: apperrors.KindBadRequest},
		{code: 409, kind: apperrors.KindBadRequest},
		{code: 429, kind: apperrors.KindRateLimit},
		{code: 500, kind: apperrors.KindTransient},
		{code: 502, kind: apperrors.KindTransient},
		{code: 503, kind: apperrors.KindTransient},
	}
	for _, tt := range tests {
		err := classifyGeminiError(&googleapi.Error{Code: tt.code})
		assertErrorKind(t, err, tt.kind)
	}
}

func TestClassifyGeminiError_Nil(t *testing.T) {
	if err := classifyGeminiError(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestClassifyGeminiError_Unknown(t *testing.T) {
	err := classifyGeminiError(errors.New("boom"))
	assertErrorKind(t, err, apperrors.KindTransient)
}

func TestClassifyGeminiError_DoesNotExposeRawMessage(t *testing.T) {
	err := classifyGeminiError(errors.New("SECRET_SUBTITLE_LINE"))
	if strings.Contains(err.Error(), "SECRET_SUBTITLE_LINE") {
		t.Fatalf("expected safe message, got %q", err.Error())
	}
	if !strings.Contains(errors.Unwrap(err).Error(), "SECRET_SUBTITLE_LINE") {
		t.Fatalf("expected cause to keep the raw error")
	}
}

func assertErrorKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("expected apperrors.Error, got %T", err)
	}
	if appErr.Kind != kind {
		t.Fatalf("expected kind %s, got %s", kind, appErr.Kind)
	}
}

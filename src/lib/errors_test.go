package lib

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/theleywin/Backend-Dissuade/src/models"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
		key    string
	}{
		{models.ErrAlreadyLiked, 400, "alreadyLiked"},
		{models.ErrNotLiked, 400, "notLiked"},
		{models.ErrDuplicateHandle, 400, "handle"},
		{models.ErrCommentNotFound, 404, "noComment"},
		{models.ErrEntryNotFound, 404, "entry"},
		{models.ErrNotAuthorized, 401, "notAuthorized"},
		{models.ErrConflict, 409, "conflict"},
		{fmt.Errorf("find post: %w", models.ErrStoreUnavailable), 503, "store"},
		{errors.New("boom"), 500, "server"},
	}
	for _, tt := range tests {
		status, key := StatusFor(tt.err)
		if status != tt.status || key != tt.key {
			t.Errorf("StatusFor(%v) = %d %q, want %d %q", tt.err, status, key, tt.status, tt.key)
		}
	}
}

func errorBody(t *testing.T, err error, missing fiber.Map) (int, map[string]string) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return ErrorResponse(c, err, missing) })

	resp, testErr := app.Test(httptest.NewRequest("GET", "/", nil))
	if testErr != nil {
		t.Fatal(testErr)
	}
	raw, _ := io.ReadAll(resp.Body)
	body := map[string]string{}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return resp.StatusCode, body
}

func TestErrorResponseBodies(t *testing.T) {
	status, body := errorBody(t, models.ErrNotFound, fiber.Map{"post": "No post found"})
	if status != 404 || body["post"] != "No post found" {
		t.Fatalf("unexpected not-found response %d %v", status, body)
	}

	status, body = errorBody(t, fmt.Errorf("save: %w: socket closed", models.ErrStoreUnavailable), nil)
	if status != 503 || body["store"] != models.ErrStoreUnavailable.Error() {
		t.Fatalf("unexpected store response %d %v", status, body)
	}

	status, body = errorBody(t, errors.New("driver exploded"), nil)
	if status != 500 || strings.Contains(body["server"], "exploded") {
		t.Fatalf("internal error leaked: %d %v", status, body)
	}
}

package response

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestErrorAttachesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "req-1")

	Error(c, CodeBadRequest, "Bad request")

	var body struct {
		StatusCode int               `json:"status_code"`
		Msg        string            `json:"msg"`
		Data       map[string]string `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body failed: %v", err)
	}
	if body.StatusCode != CodeBadRequest || body.Msg != "Bad request" || body.Data["request_id"] != "req-1" {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	base := errors.New("boom")
	err := WrapError(CodeInternal, "internal", base)
	if !errors.Is(err, base) {
		t.Fatalf("wrapped error should unwrap to base")
	}
	if err.Error() != "internal: boom" {
		t.Fatalf("unexpected message: %s", err.Error())
	}
}

func TestAppErrorServerSide(t *testing.T) {
	if WrapError(CodeBadRequest, "bad", nil).ServerSide() {
		t.Fatalf("400 should not be server side")
	}
	if !WrapError(CodeUnavailable, "down", nil).ServerSide() {
		t.Fatalf("503 should be server side")
	}
}

package comments

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"capstone_backend/internal/docstore/memory"
	apphttp "capstone_backend/internal/http"
	"capstone_backend/platform/httpkit"
	"capstone_backend/platform/logger"
	"capstone_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// asCaller stands in for the auth guard: the X-Test-UID header becomes the principal.
func asCaller(c *gin.Context) {
	uid := c.GetHeader("X-Test-UID")
	if uid == "" {
		httpkit.Abort(c, http.StatusUnauthorized, "authentication required", "missing_token")
		return
	}
	httpkit.SetPrincipal(c, &httpkit.Principal{UID: uid})
	c.Next()
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	v1 := engine.Group("/api/v1")
	protected := v1.Group("")
	protected.Use(asCaller)

	module := NewModule(memory.New(), validator.New(), logger.Discard())
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: v1, Protected: protected})
	return engine
}

type result struct {
	Code    int
	Message string
	Data    json.RawMessage
	Reason  string
}

func call(t *testing.T, engine *gin.Engine, method, path, uid, body string) result {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if uid != "" {
		req.Header.Set("X-Test-UID", uid)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var env struct {
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
		Error   struct {
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode %s %s: %v (%s)", method, path, err, w.Body.String())
	}
	return result{Code: w.Code, Message: env.Message, Data: env.Data, Reason: env.Error.Reason}
}

func createComment(t *testing.T, engine *gin.Engine, uid, topicID, text string) string {
	t.Helper()
	body := `{"account_id":"` + uid + `","topic_id":"` + topicID + `","comment":"` + text + `"}`
	res := call(t, engine, http.MethodPost, "/api/v1/comment", uid, body)
	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", res.Code, res.Message)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(res.Data, &created); err != nil || created.ID == "" {
		t.Fatalf("missing id in %s", res.Data)
	}
	return created.ID
}

func TestCommentFilters(t *testing.T) {
	engine := newEngine()

	createComment(t, engine, "alice", "t1", "first")
	createComment(t, engine, "bob", "t1", "second")
	createComment(t, engine, "alice", "t2", "third")

	var items []map[string]any

	res := call(t, engine, http.MethodGet, "/api/v1/comment/topic/t1", "alice", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	_ = json.Unmarshal(res.Data, &items)
	if len(items) != 2 {
		t.Fatalf("expected 2 comments under t1, got %d", len(items))
	}

	res = call(t, engine, http.MethodGet, "/api/v1/comment/account/alice", "bob", "")
	_ = json.Unmarshal(res.Data, &items)
	if res.Code != http.StatusOK || len(items) != 2 {
		t.Fatalf("expected alice's 2 comments, got %d items with status %d", len(items), res.Code)
	}

	if res := call(t, engine, http.MethodGet, "/api/v1/comment/topic/none", "alice", ""); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty topic filter, got %d", res.Code)
	}
	if res := call(t, engine, http.MethodGet, "/api/v1/comment/account/carol", "alice", ""); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty account filter, got %d", res.Code)
	}
}

func TestCommentCreateShape(t *testing.T) {
	engine := newEngine()

	bodies := []string{
		`{"account_id":"alice","comment":"x"}`,
		`{"account_id":"alice","topic_id":"t1","comment":"x","likes":3}`,
		`{"account_id":"alice","topic_id":7,"comment":"x"}`,
		`[]`,
	}
	for _, body := range bodies {
		res := call(t, engine, http.MethodPost, "/api/v1/comment", "alice", body)
		if res.Code != http.StatusBadRequest || res.Message != "Invalid data format" {
			t.Errorf("body %s: expected 400 Invalid data format, got %d %q", body, res.Code, res.Message)
		}
	}

	long := strings.Repeat("a", 256)
	res := call(t, engine, http.MethodPost, "/api/v1/comment", "alice",
		`{"account_id":"alice","topic_id":"t1","comment":"`+long+`"}`)
	if res.Code != http.StatusBadRequest || res.Reason != "field_too_long" {
		t.Errorf("expected field_too_long, got %d %q", res.Code, res.Reason)
	}

	res = call(t, engine, http.MethodPost, "/api/v1/comment", "bob",
		`{"account_id":"alice","topic_id":"t1","comment":"x"}`)
	if res.Code != http.StatusForbidden {
		t.Errorf("expected 403 for foreign account_id, got %d", res.Code)
	}
}

func TestCommentOwnership(t *testing.T) {
	engine := newEngine()
	id := createComment(t, engine, "alice", "t1", "original")

	if res := call(t, engine, http.MethodPut, "/api/v1/comment/"+id, "bob", `{"comment":"hijack"}`); res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if res := call(t, engine, http.MethodDelete, "/api/v1/comment/"+id, "bob", ""); res.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", res.Code)
	}
	if res := call(t, engine, http.MethodPut, "/api/v1/comment/missing", "alice", `{"comment":"x"}`); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.Code)
	}

	if res := call(t, engine, http.MethodPut, "/api/v1/comment/"+id, "alice", `{"comment":"edited"}`); res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	res := call(t, engine, http.MethodGet, "/api/v1/comment/"+id, "alice", "")
	if !strings.Contains(string(res.Data), `"edited"`) || !strings.Contains(string(res.Data), "comment_date") {
		t.Fatalf("unexpected comment %s", res.Data)
	}

	if res := call(t, engine, http.MethodDelete, "/api/v1/comment/"+id, "alice", ""); res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	if res := call(t, engine, http.MethodGet, "/api/v1/comment/"+id, "alice", ""); res.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", res.Code)
	}
}

func TestCommentRequiresCaller(t *testing.T) {
	engine := newEngine()
	if res := call(t, engine, http.MethodGet, "/api/v1/comment", "", ""); res.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", res.Code)
	}
}

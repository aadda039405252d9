package password

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passcheck-api/internal/breach"
	"github.com/jwalitptl/passcheck-api/internal/enhancer"
	"github.com/jwalitptl/passcheck-api/internal/model"
	"github.com/jwalitptl/passcheck-api/internal/pattern"
	"github.com/jwalitptl/passcheck-api/internal/scorer"
	passwordService "github.com/jwalitptl/passcheck-api/internal/service/password"
	"github.com/jwalitptl/passcheck-api/internal/wordlist"
)

// SHA-1("password") = 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8.
const passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"

func newTestRouter(t *testing.T, breachEndpoint string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	common := wordlist.New([]string{"password", "123456", "qwerty"})
	detector := pattern.NewDetector()
	engine := scorer.NewEngine(scorer.DefaultPolicy(), common, detector)
	checker := breach.NewChecker(breach.Config{
		Endpoint: breachEndpoint,
		Timeout:  500 * time.Millisecond,
	}, breach.NewMemoryCache(time.Hour), nil)
	svc := passwordService.NewService(engine, checker,
		enhancer.New(detector, rand.New(rand.NewSource(1))),
		enhancer.NewGenerator(rand.New(rand.NewSource(2))),
		detector, nil)

	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))
	return r
}

func newBreachServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/5BAA6" {
			fmt.Fprintf(w, "%s:3861493\r\n", passwordSuffix)
			return
		}
		fmt.Fprint(w, "0018A45C4D1DEF81644B54AB7F969B88D65:1\r\n")
	}))
	t.Cleanup(srv.Close)
	return srv
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != "" {
		buf.WriteString(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestCheckEndpoint(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/check", `{"password":"MyS3cure!Pass@2024"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", env.Status)

	var a model.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, model.StrengthVeryStrong, a.Strength)
	assert.GreaterOrEqual(t, a.Score, 80)
	assert.False(t, a.IsBreached, "breach lookup is opt-in")
}

func TestCheckEndpointWithBreach(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/check", `{"password":"password","check_breach":true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var a model.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.True(t, a.IsBreached)
	assert.Equal(t, 3861493, a.BreachCount)
	assert.Equal(t, model.StrengthWeak, a.Strength)
}

func TestCheckEndpointEmptyPassword(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/check", `{"password":""}`)
	require.Equal(t, http.StatusOK, w.Code)

	var a model.Assessment
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, []string{"No password provided"}, a.Feedback)
}

func TestCheckEndpointMalformedBody(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/check", `{"password":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
	assert.NotEmpty(t, env.Message)
}

func TestBreachEndpoint(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/breach", `{"password":"password"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.BreachResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, res.IsBreached)
	assert.Equal(t, 3861493, res.Count)
}

func TestBreachEndpointRequiresPassword(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/breach", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "error", env.Status)
}

func TestBreachEndpointFailsSoftWhenUnreachable(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	w, env := doJSON(t, r, "/api/v1/passwords/breach", `{"password":"password"}`)
	require.Equal(t, http.StatusOK, w.Code, "a corpus outage never fails the request")

	var res model.BreachResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.False(t, res.IsBreached)
}

func TestEnhanceEndpoint(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/enhance", `{"password":"abc123"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.EnhanceResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.NotEqual(t, "abc123", res.Password)
	assert.GreaterOrEqual(t, res.Assessment.Length, 16)
	assert.False(t, res.Assessment.HasPatterns)
	assert.GreaterOrEqual(t, res.Assessment.Score, 60)
}

func TestGenerateEndpoint(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/generate", `{"length":24}`)
	require.Equal(t, http.StatusOK, w.Code)

	var res model.GenerateResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 24, res.Length)
	assert.Len(t, []rune(res.Password), 24)
	assert.GreaterOrEqual(t, res.Assessment.Score, 60)
}

func TestGenerateEndpointEmptyBody(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	w, env := doJSON(t, r, "/api/v1/passwords/generate", "")
	require.Equal(t, http.StatusOK, w.Code)

	var res model.GenerateResponse
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, enhancer.DefaultGenerateLength, res.Length)
}

func TestGenerateEndpointRejectsOutOfRangeLength(t *testing.T) {
	r := newTestRouter(t, newBreachServer(t).URL)

	for _, body := range []string{`{"length":4}`, `{"length":4096}`} {
		w, env := doJSON(t, r, "/api/v1/passwords/generate", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %s", body)
		assert.Equal(t, "error", env.Status)
	}
}

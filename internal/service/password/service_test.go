package password

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/passcheck-api/internal/breach"
	"github.com/jwalitptl/passcheck-api/internal/enhancer"
	"github.com/jwalitptl/passcheck-api/internal/model"
	"github.com/jwalitptl/passcheck-api/internal/pattern"
	"github.com/jwalitptl/passcheck-api/internal/scorer"
	"github.com/jwalitptl/passcheck-api/internal/wordlist"
)

// SHA-1("password") = 5BAA61E4C9B93F3F0682250B6CF8331B7EE68FD8.
const passwordSuffix = "1E4C9B93F3F0682250B6CF8331B7EE68FD8"

func newTestService(t *testing.T, endpoint string) *Service {
	t.Helper()

	common := wordlist.New([]string{"password", "123456", "qwerty"})
	detector := pattern.NewDetector()
	engine := scorer.NewEngine(scorer.DefaultPolicy(), common, detector)
	checker := breach.NewChecker(breach.Config{
		Endpoint: endpoint,
		Timeout:  500 * time.Millisecond,
	}, breach.NewMemoryCache(time.Hour), nil)
	enh := enhancer.New(detector, rand.New(rand.NewSource(1)))
	gen := enhancer.NewGenerator(rand.New(rand.NewSource(2)))

	return NewService(engine, checker, enh, gen, detector, nil)
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

func TestCheckWithoutBreachLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("breach endpoint must not be called when withBreach is false")
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	a := svc.Check(context.Background(), "password", false)
	assert.True(t, a.IsCommon)
	assert.False(t, a.IsBreached)
	assert.Equal(t, model.StrengthWeak, a.Strength)
}

func TestCheckWithBreachLookup(t *testing.T) {
	svc := newTestService(t, newBreachServer(t).URL)

	a := svc.Check(context.Background(), "password", true)
	assert.True(t, a.IsBreached)
	assert.Equal(t, 3861493, a.BreachCount)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, model.StrengthWeak, a.Strength)
}

func TestCheckEmptyPasswordSkipsBreachLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("breach endpoint must not be called for an empty password")
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL)

	a := svc.Check(context.Background(), "", true)
	assert.Equal(t, 0, a.Score)
	assert.Equal(t, []string{"No password provided"}, a.Feedback)
}

func TestCheckBreachUnavailableFailsSoft(t *testing.T) {
	svc := newTestService(t, "http://127.0.0.1:1")

	res := svc.CheckBreach(context.Background(), "password")
	assert.False(t, res.IsBreached)
	assert.Equal(t, 0, res.Count)
}

func TestEnhanceImprovesScore(t *testing.T) {
	svc := newTestService(t, newBreachServer(t).URL)

	inputs := []string{"password", "abc123", "short", "aaaa1111"}
	for _, pw := range inputs {
		before := svc.Check(context.Background(), pw, false)
		candidate, after := svc.Enhance(context.Background(), pw)

		assert.NotEqual(t, pw, candidate)
		assert.GreaterOrEqual(t, after.Score, before.Score, "input %q", pw)
		assert.GreaterOrEqual(t, after.Length, 16, "input %q", pw)
		assert.False(t, after.HasPatterns, "input %q enhanced to %q", pw, candidate)
	}
}

func TestGenerate(t *testing.T) {
	svc := newTestService(t, newBreachServer(t).URL)

	pw, a := svc.Generate(20)
	require.Len(t, []rune(pw), 20)
	assert.GreaterOrEqual(t, a.Score, 60)
	assert.False(t, a.IsCommon)

	pw, _ = svc.Generate(0)
	assert.Len(t, []rune(pw), enhancer.DefaultGenerateLength)
}

package analysis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BeautyGenius/entity"
)

func TestMockAnalyzerResolvesAfterDelay(t *testing.T) {
	mock := clock.NewMock()
	a := NewMockAnalyzer(mock, DefaultMinDelay, DefaultMaxDelay, 7)

	type res struct {
		analysis entity.Analysis
		err      error
	}
	done := make(chan res, 1)
	go func() {
		an, err := a.Analyze(context.Background(), entity.NewImage("a.png", "image/png", []byte{1}))
		done <- res{an, err}
	}()

	// advance in one second steps until the analysis resolves
	require.Eventually(t, func() bool {
		mock.Add(time.Second)
		select {
		case r := <-done:
			done <- r
			return true
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)

	r := <-done
	require.NoError(t, r.err)
	assert.True(t, r.analysis.SkinType.Valid())
	assert.GreaterOrEqual(t, r.analysis.ConfidenceScore, 0.8)
	assert.LessOrEqual(t, r.analysis.ConfidenceScore, 1.0)
	assert.GreaterOrEqual(t, r.analysis.AgeEstimate, 20)
	assert.Less(t, r.analysis.AgeEstimate, 60)
	assert.GreaterOrEqual(t, mock.Now().Sub(time.Unix(0, 0)), DefaultMinDelay)
}

func TestMockAnalyzerScoresStayInRange(t *testing.T) {
	a := NewMockAnalyzer(clock.New(), 0, 0, 42)

	for i := 0; i < 200; i++ {
		an, err := a.Analyze(context.Background(), nil)
		require.NoError(t, err)
		require.NotNil(t, an.Score)

		s := an.Score
		assert.True(t, s.Valid())
		assert.GreaterOrEqual(t, s.Overall, 70)
		assert.LessOrEqual(t, s.Overall, 99)
		assert.GreaterOrEqual(t, s.Categories.Symmetry, 70)
		assert.LessOrEqual(t, s.Categories.Symmetry, 99)
		assert.GreaterOrEqual(t, s.Categories.Proportion, 65)
		assert.LessOrEqual(t, s.Categories.Proportion, 94)
		assert.GreaterOrEqual(t, s.Categories.SkinQuality, 75)
		assert.LessOrEqual(t, s.Categories.SkinQuality, 99)
		assert.GreaterOrEqual(t, s.Categories.Expression, 65)
		assert.LessOrEqual(t, s.Categories.Expression, 99)
	}
}

func TestMockAnalyzerHonoursCancel(t *testing.T) {
	a := NewMockAnalyzer(clock.NewMock(), time.Hour, time.Hour, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Analyze(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPAnalyzer(t *testing.T) {
	want := entity.Analysis{
		SkinType:        entity.SkinDry,
		ConfidenceScore: 0.91,
		AgeEstimate:     33,
		Score: &entity.Score{
			Overall:    84,
			Categories: entity.ScoreCategories{Symmetry: 80, Proportion: 77, SkinQuality: 91, Expression: 88},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/analyze", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req analyzeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "image/jpeg", req.ContentType)
		data, err := base64.StdEncoding.DecodeString(req.Data)
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg-bytes"), data)

		_ = json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL+"/", time.Second)
	got, err := a.Analyze(context.Background(), entity.NewImage("face.jpg", "image/jpeg", []byte("jpeg-bytes")))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestHTTPAnalyzerStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewHTTPAnalyzer(srv.URL, time.Second)
	_, err := a.Analyze(context.Background(), entity.NewImage("face.jpg", "image/jpeg", []byte{1}))
	assert.Error(t, err)
}

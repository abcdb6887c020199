package keyword

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/automaton-pricing/internal/domain/analysis"
)

func TestClassify(t *testing.T) {
	c := New(Options{})
	ctx := context.Background()

	cases := []struct {
		name       string
		text       string
		module     string
		confidence domain.Confidence
	}{
		{"white label", "B2Broker offers white label solutions", "White Label Solution", domain.ConfidenceMedium},
		{"kyc high", "KYC and KYB identity verification", "KYC/KYB", domain.ConfidenceHigh},
		{"accents folded", "Verificación de identidad y compliance", "KYC/KYB", domain.ConfidenceMedium},
		{"no signal", "hello world", domain.GeneralService, domain.ConfidenceMedium},
		{"empty", "", domain.GeneralService, domain.ConfidenceMedium},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := c.Classify(ctx, tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.module, res.Module)
			require.Equal(t, tc.confidence, res.Confidence)
			require.Len(t, res.Scores, len(DefaultCategories))
		})
	}
}

func TestClassifyTieBreaksByDeclarationOrder(t *testing.T) {
	c := New(Options{})
	// wallet: 1/3, white label: 1/3
	res, err := c.Classify(context.Background(), "customizable wallet")
	require.NoError(t, err)
	require.Equal(t, "Wallet Base", res.Module)
	require.InDelta(t, 1.0/3, res.Score, 1e-9)
}

func TestClassifyNeverLow(t *testing.T) {
	c := New(Options{})
	for _, text := range []string{"", "x", "wallet", "wallet crypto digital currency"} {
		res, err := c.Classify(context.Background(), text)
		require.NoError(t, err)
		require.NotEqual(t, domain.ConfidenceLow, res.Confidence)
	}
}

func TestCategoriesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
categories:
  - name: Tarjeta
    keywords: [card, visa, mastercard]
  - name: Compliance
    keywords: [aml, compliance]
`), 0o600))

	c := New(Options{CategoriesFile: path})
	res, err := c.Classify(context.Background(), "Prepaid VISA card issuing")
	require.NoError(t, err)
	require.Equal(t, "Tarjeta", res.Module)
	require.Equal(t, domain.ConfidenceHigh, res.Confidence)
	require.Equal(t, path, c.Info().Directory)
}

func TestMissingCategoriesFileIsUnavailable(t *testing.T) {
	c := New(Options{CategoriesFile: filepath.Join(t.TempDir(), "missing.yaml")})
	_, err := c.Classify(context.Background(), "wallet")
	require.True(t, errors.Is(err, domain.ErrUnavailable))
}

type countingEmbedder struct {
	inFlight, peak atomic.Int32
	release        chan struct{}
}

func (e *countingEmbedder) Dimension() int { return 1 }

func (e *countingEmbedder) Embed(ctx context.Context, _ string) ([]float32, error) {
	n := e.inFlight.Add(1)
	for {
		p := e.peak.Load()
		if n <= p || e.peak.CompareAndSwap(p, n) {
			break
		}
	}
	<-e.release
	e.inFlight.Add(-1)
	return []float32{1}, nil
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	emb := &countingEmbedder{release: make(chan struct{})}
	c := New(Options{Workers: 2, Embedder: emb})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Embed(context.Background(), "x")
		}()
	}
	for i := 0; i < 6; i++ {
		emb.release <- struct{}{}
	}
	wg.Wait()
	require.LessOrEqual(t, emb.peak.Load(), int32(2))
}

func TestHashingEmbedder(t *testing.T) {
	e := NewHashingEmbedder(0)
	require.Equal(t, DefaultDimension, e.Dimension())

	v1, err := e.Embed(context.Background(), "White label wallet")
	require.NoError(t, err)
	require.Len(t, v1, DefaultDimension)

	var norm float64
	for _, x := range v1 {
		norm += float64(x) * float64(x)
	}
	require.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)

	v2, _ := e.Embed(context.Background(), "white LABEL wallet")
	require.Equal(t, v1, v2)

	empty, _ := e.Embed(context.Background(), "")
	require.Len(t, empty, DefaultDimension)
}

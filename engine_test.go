package facetgo

import (
	"bytes"
	"errors"
	"iter"
	"log/slog"
	"slices"
	"testing"

	"github.com/hupe1980/facetgo/metadata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func res(v string) metadata.Document {
	return metadata.Document{"resolution": metadata.String(v)}
}

// counted wraps items in a dataset that records how many items were pulled.
func counted(items []metadata.Document, pulled *int) iter.Seq[Item] {
	return func(yield func(Item) bool) {
		for _, item := range items {
			*pulled++
			if !yield(item) {
				return
			}
		}
	}
}

func facetMap(t *testing.T, facets []Facet) map[string][]string {
	t.Helper()
	out := make(map[string][]string, len(facets))
	for _, f := range facets {
		sf, ok := f.(*StringFacet)
		require.True(t, ok, "unexpected facet type %T", f)
		out[f.Key()] = sf.Strings()
	}
	return out
}

func TestDerive(t *testing.T) {
	eng := New()

	t.Run("Two resolutions", func(t *testing.T) {
		docs := []metadata.Document{res("720p"), res("1080p"), res("1080p")}

		facets, err := eng.Derive(Slice(docs))
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{"resolution": {"1080p", "720p"}}, facetMap(t, facets))
	})

	t.Run("Single option is suppressed", func(t *testing.T) {
		docs := []metadata.Document{
			{"file_type": metadata.String("mp4")},
			{"file_type": metadata.String("mp4")},
			{"file_type": metadata.String("mp4")},
		}

		facets, err := eng.Derive(Slice(docs))
		require.NoError(t, err)
		assert.Empty(t, facets)
	})

	t.Run("Empty dataset", func(t *testing.T) {
		facets, err := eng.Derive(Slice([]metadata.Document{}))
		require.NoError(t, err)
		assert.Empty(t, facets)

		facets, err = eng.Derive(nil)
		require.NoError(t, err)
		assert.Empty(t, facets)
	})

	t.Run("Key carried by one item only", func(t *testing.T) {
		docs := []metadata.Document{
			{"audio_bit_rate": metadata.String("128kbps"), "file_type": metadata.String("mp4")},
			{"file_type": metadata.String("webm")},
		}

		facets, err := eng.Derive(Slice(docs))
		require.NoError(t, err)
		assert.Equal(t, map[string][]string{"file_type": {"mp4", "webm"}}, facetMap(t, facets))
	})

	t.Run("Empty and null values are ignored", func(t *testing.T) {
		docs := []metadata.Document{
			{"resolution": metadata.String("")},
			{"resolution": metadata.Null()},
			{"resolution": metadata.String("720p")},
			{"resolution": metadata.Value{}},
		}

		facets, err := eng.Derive(Slice(docs))
		require.NoError(t, err)
		assert.Empty(t, facets)
	})

	t.Run("Facets are ordered by key", func(t *testing.T) {
		docs := []metadata.Document{
			{"b": metadata.String("1"), "a": metadata.String("1"), "c": metadata.String("1")},
			{"b": metadata.String("2"), "a": metadata.String("2"), "c": metadata.String("2")},
		}

		facets, err := eng.Derive(Slice(docs))
		require.NoError(t, err)
		keys := make([]string, len(facets))
		for i, f := range facets {
			keys[i] = f.Key()
		}
		assert.Equal(t, []string{"a", "b", "c"}, keys)
	})

	t.Run("Order independent", func(t *testing.T) {
		docs := []metadata.Document{
			{"resolution": metadata.String("720p"), "file_type": metadata.String("mp4")},
			{"resolution": metadata.String("1080p"), "file_type": metadata.String("webm")},
			{"resolution": metadata.String("480p")},
			{"file_type": metadata.String("3gp")},
		}

		want, err := eng.Derive(Slice(docs))
		require.NoError(t, err)

		reversed := slices.Clone(docs)
		slices.Reverse(reversed)
		got, err := eng.Derive(Slice(reversed))
		require.NoError(t, err)

		assert.Equal(t, facetMap(t, want), facetMap(t, got))
	})

	t.Run("Unsupported shape aborts", func(t *testing.T) {
		docs := []metadata.Document{
			res("720p"),
			{"itag": metadata.Int(18)},
			res("1080p"),
		}

		facets, err := eng.Derive(Slice(docs))
		require.Error(t, err)
		assert.Nil(t, facets)
		assert.ErrorIs(t, err, ErrUnsupportedValueShape)

		var uerr *UnsupportedValueError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "itag", uerr.Key)
		assert.Equal(t, metadata.KindInt, uerr.Kind)
	})

	t.Run("Mixed shapes for one key abort", func(t *testing.T) {
		docs := []metadata.Document{
			{"fps": metadata.String("30")},
			{"fps": metadata.Int(60)},
		}

		_, err := eng.Derive(Slice(docs))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedValueShape)
		assert.ErrorIs(t, err, ErrInvalidFacetValue)
		assert.Contains(t, err.Error(), `"fps"`)

		var uerr *UnsupportedValueError
		require.ErrorAs(t, err, &uerr)
		assert.Equal(t, "fps", uerr.Key)
		assert.Equal(t, metadata.KindInt, uerr.Kind)
	})
}

func TestFilter(t *testing.T) {
	eng := New()

	docs := []metadata.Document{
		res("720p"),
		res("1080p"),
		{"resolution": metadata.String("1080p"), "audio_bit_rate": metadata.String("128kbps")},
		{"audio_bit_rate": metadata.String("48kbps")},
	}

	filter := func(t *testing.T, e *Engine, dataset iter.Seq[Item], sel Selections) []Item {
		t.Helper()
		seq, err := e.Filter(dataset, sel)
		require.NoError(t, err)
		return slices.Collect(seq)
	}

	t.Run("Exact match", func(t *testing.T) {
		got := filter(t, eng, Slice(docs), Selections{Select("resolution", "1080p")})
		assert.Equal(t, []Item{docs[1], docs[2]}, got)
	})

	t.Run("No selections is identity", func(t *testing.T) {
		got := filter(t, eng, Slice(docs), nil)
		assert.Equal(t, Collect(Slice(docs)), got)
	})

	t.Run("Items lacking the key never match", func(t *testing.T) {
		got := filter(t, eng, Slice(docs), Selections{Select("audio_bit_rate", "128kbps")})
		assert.Equal(t, []Item{docs[2]}, got)
	})

	t.Run("No substring match", func(t *testing.T) {
		got := filter(t, eng, Slice(docs), Selections{Select("resolution", "1080")})
		assert.Empty(t, got)
	})

	t.Run("Unknown key yields nothing", func(t *testing.T) {
		got := filter(t, eng, Slice(docs), Selections{Select("codec", "avc1")})
		assert.Empty(t, got)
	})

	t.Run("Conjunction", func(t *testing.T) {
		got := filter(t, eng, Slice(docs), Selections{
			Select("resolution", "1080p"),
			Select("audio_bit_rate", "128kbps"),
		})
		assert.Equal(t, []Item{docs[2]}, got)
	})

	t.Run("Empty dataset", func(t *testing.T) {
		assert.Empty(t, filter(t, eng, Slice([]metadata.Document{}), Selections{Select("resolution", "720p")}))
		assert.Empty(t, filter(t, eng, nil, Selections{Select("resolution", "720p")}))
	})

	t.Run("Idempotent", func(t *testing.T) {
		sel := Selections{Select("resolution", "1080p")}
		once, err := eng.Filter(Slice(docs), sel)
		require.NoError(t, err)
		twice := filter(t, eng, once, sel)
		assert.Equal(t, filter(t, eng, Slice(docs), sel), twice)
	})

	t.Run("Unresolvable selections are dropped", func(t *testing.T) {
		got := filter(t, eng, Slice(docs), Selections{
			{Key: "resolution", Value: metadata.Int(1080)},
			Select("resolution", ""),
			Select("audio_bit_rate", "48kbps"),
		})
		assert.Equal(t, []Item{docs[3]}, got)
	})

	t.Run("Strict mode fails on unresolvable selections", func(t *testing.T) {
		strict := New(WithStrictConstraints())
		assert.True(t, strict.Strict())

		seq, err := strict.Filter(Slice(docs), Selections{{Key: "resolution", Value: metadata.Int(1080)}})
		require.Error(t, err)
		assert.Nil(t, seq)
		assert.ErrorIs(t, err, ErrUnsupportedValueShape)
		assert.ErrorIs(t, err, ErrInvalidFacetValue)

		got := filter(t, strict, Slice(docs), Selections{Select("resolution", "720p")})
		assert.Equal(t, []Item{docs[0]}, got)
	})

	t.Run("Lazy and stops early", func(t *testing.T) {
		var pulled int
		seq, err := eng.Filter(counted(docs, &pulled), Selections{Select("resolution", "1080p")})
		require.NoError(t, err)
		assert.Equal(t, 0, pulled, "dataset must not be touched before iteration")

		for item := range seq {
			assert.Equal(t, docs[1], item)
			break
		}
		assert.Equal(t, 2, pulled)
	})

	t.Run("Re-iterable over re-iterable datasets", func(t *testing.T) {
		seq, err := eng.Filter(Slice(docs), Selections{Select("resolution", "720p")})
		require.NoError(t, err)
		assert.Equal(t, slices.Collect(seq), slices.Collect(seq))
	})
}

func TestMatch(t *testing.T) {
	docs := []metadata.Document{res("720p"), res("1080p")}

	c, err := NewStringConstraint("resolution", "720p")
	require.NoError(t, err)

	assert.Equal(t, []Item{docs[0]}, slices.Collect(Match(Slice(docs), c)))
	assert.Equal(t, []Item{docs[0], docs[1]}, slices.Collect(Match(Slice(docs))))
	assert.Empty(t, slices.Collect(Match(nil, c)))
}

func TestResolve(t *testing.T) {
	eng := New()

	constraints, err := eng.Resolve(Selections{
		Select("b", "2"),
		Select("a", "1"),
		{Key: "c", Value: metadata.Bool(true)},
	})
	require.NoError(t, err)
	require.Len(t, constraints, 2)
	assert.Equal(t, "b", constraints[0].Key())
	assert.Equal(t, "a", constraints[1].Key())

	constraints, err = eng.Resolve(nil)
	require.NoError(t, err)
	assert.Empty(t, constraints)
}

func TestEngineMetrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	eng := New(WithMetricsCollector(metrics))

	docs := []metadata.Document{res("720p"), res("1080p"), res("1080p")}

	_, err := eng.Derive(Slice(docs))
	require.NoError(t, err)

	seq, err := eng.Filter(Slice(docs), Selections{
		Select("resolution", "1080p"),
		{Key: "resolution", Value: metadata.Int(1)},
	})
	require.NoError(t, err)
	for range seq {
	}

	_, err = eng.Derive(Slice([]metadata.Document{{"x": metadata.Int(1)}}))
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.DeriveCount)
	assert.Equal(t, int64(1), stats.DeriveErrors)
	assert.Equal(t, int64(4), stats.DeriveItems)
	assert.Equal(t, int64(1), stats.ResolveCount)
	assert.Equal(t, int64(1), stats.DroppedCount)
	assert.Equal(t, int64(1), stats.FilterCount)
	assert.Equal(t, int64(3), stats.FilterScanned)
	assert.Equal(t, int64(2), stats.FilterMatched)
}

func TestEngineLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	eng := New(WithLogger(logger))

	_, err := eng.Resolve(Selections{{Key: "resolution", Value: metadata.Int(1)}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"selection dropped"`)
	assert.Contains(t, out, `"facet":"resolution"`)
	assert.Contains(t, out, `"msg":"resolve dropped selections"`)

	buf.Reset()
	_, err = eng.Derive(Slice([]metadata.Document{{"x": metadata.Int(1)}}))
	require.Error(t, err)
	assert.Contains(t, buf.String(), `"msg":"derive failed"`)
}

func TestOptionsNilFallbacks(t *testing.T) {
	eng := New(WithRegistry(nil), WithLogger(nil), WithMetricsCollector(nil), nil)
	assert.NotNil(t, eng.Registry())
	assert.Equal(t, []string{"string-options"}, eng.Registry().FacetConstructors())

	_, err := eng.Derive(Slice([]metadata.Document{res("a"), res("b")}))
	assert.NoError(t, err)
	assert.False(t, errors.Is(err, ErrUnsupportedValueShape))
}

func TestEngineConcurrentUse(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	eng := New(WithMetricsCollector(metrics))

	docs := []metadata.Document{
		{"resolution": metadata.String("720p"), "file_type": metadata.String("mp4")},
		{"resolution": metadata.String("1080p"), "file_type": metadata.String("webm")},
		{"resolution": metadata.String("1080p"), "file_type": metadata.String("mp4")},
	}
	sel := Selections{
		Select("resolution", "1080p"),
		{Key: "resolution", Value: metadata.Int(1080)},
	}

	const workers = 16

	var g errgroup.Group
	for range workers {
		g.Go(func() error {
			facets, err := eng.Derive(Slice(docs))
			if err != nil {
				return err
			}
			if len(facets) != 2 {
				return errors.New("unexpected facet count")
			}

			seq, err := eng.Filter(Slice(docs), sel)
			if err != nil {
				return err
			}
			if n := len(Collect(seq)); n != 2 {
				return errors.New("unexpected match count")
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	stats := metrics.GetStats()
	assert.Equal(t, int64(workers), stats.DeriveCount)
	assert.Equal(t, int64(0), stats.DeriveErrors)
	assert.Equal(t, int64(workers*len(docs)), stats.DeriveItems)
	assert.Equal(t, int64(workers), stats.ResolveCount)
	assert.Equal(t, int64(workers), stats.DroppedCount)
	assert.Equal(t, int64(workers), stats.FilterCount)
	assert.Equal(t, int64(workers*len(docs)), stats.FilterScanned)
	assert.Equal(t, int64(workers*2), stats.FilterMatched)
}

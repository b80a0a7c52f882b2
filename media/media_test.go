package media

import (
	"context"
	"errors"
	"testing"

	"github.com/hupe1980/facetgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testURL = "https://www.youtube.com/watch?v=2lAe1cqCOXo"

func testStreams() []Stream {
	return []Stream{
		{Itag: 18, Progressive: true, HasAudio: true, Subtype: "mp4", Resolution: "360p", AudioBitRate: "96kbps"},
		{Itag: 22, Progressive: true, HasAudio: true, Subtype: "mp4", Resolution: "720p", AudioBitRate: "192kbps"},
		{Itag: 137, Subtype: "mp4", Resolution: "1080p"},
		{Itag: 248, Subtype: "webm", Resolution: "1080p"},
		{Itag: 140, HasAudio: true, Subtype: "mp4", AudioBitRate: "128kbps"},
		{Itag: 251, HasAudio: true, Subtype: "webm", AudioBitRate: "160kbps"},
	}
}

func TestStreamFacets(t *testing.T) {
	tests := []struct {
		name   string
		stream Stream
		want   map[string]string
	}{
		{
			name:   "Progressive",
			stream: Stream{Progressive: true, HasAudio: true, Subtype: "mp4", Resolution: "720p", AudioBitRate: "192kbps"},
			want: map[string]string{
				KeyMediaType:    TypeAudioAndVideo,
				KeyFileType:     "mp4",
				KeyResolution:   "720p",
				KeyAudioBitRate: "192kbps",
			},
		},
		{
			name:   "Audio only",
			stream: Stream{HasAudio: true, Subtype: "webm", Resolution: "ignored", AudioBitRate: "160kbps"},
			want: map[string]string{
				KeyMediaType:    TypeAudio,
				KeyFileType:     "webm",
				KeyAudioBitRate: "160kbps",
			},
		},
		{
			name:   "Video only",
			stream: Stream{Subtype: "mp4", Resolution: "1080p", AudioBitRate: "ignored"},
			want: map[string]string{
				KeyMediaType:  TypeVideo,
				KeyFileType:   "mp4",
				KeyResolution: "1080p",
			},
		},
		{
			name:   "Missing subtype",
			stream: Stream{Resolution: "144p"},
			want: map[string]string{
				KeyMediaType:  TypeVideo,
				KeyResolution: "144p",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := make(map[string]string)
			for _, k := range tt.stream.FacetKeys() {
				if v, ok := tt.stream.FacetValue(k); ok {
					got[k] = v.StringValue()
				}
			}
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := Stream{}.FacetValue("codec")
	assert.False(t, ok)
	assert.Equal(t, "137", Stream{Itag: 137}.ID())
}

func TestErrors(t *testing.T) {
	t.Run("Invalid URL", func(t *testing.T) {
		err := error(&InvalidURLError{URL: "foo"})
		assert.ErrorIs(t, err, ErrInvalidURL)
		assert.Equal(t, "URL: foo does not point to valid media", err.Error())
	})

	t.Run("Unavailable defaults to invalid URL", func(t *testing.T) {
		err := error(NewOptionsUnavailableError("foo", nil))
		assert.ErrorIs(t, err, ErrInvalidURL)

		var invalid *InvalidURLError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, "foo", invalid.URL)
		assert.Contains(t, err.Error(), "cannot get media options for content at foo")
	})

	t.Run("Unavailable with cause", func(t *testing.T) {
		cause := errors.New("video unavailable")
		err := error(NewOptionsUnavailableError("foo", cause))
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, ErrInvalidURL)
	})
}

func TestStaticSource(t *testing.T) {
	in := map[string][]Stream{testURL: testStreams()}
	src := NewStaticSource(in)
	in[testURL][0].Itag = 0

	ctx := context.Background()

	streams, err := src.MediaOptions(ctx, testURL)
	require.NoError(t, err)
	assert.Equal(t, testStreams(), streams)
	assert.Equal(t, []string{testURL}, src.URLs())

	_, err = src.MediaOptions(ctx, "https://example.com/none")
	var unavailable *OptionsUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.ErrorIs(t, err, ErrInvalidURL)

	_, err = src.MediaOptions(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalidURL)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = src.MediaOptions(canceled, testURL)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrInvalidURL)
}

func TestBrowse(t *testing.T) {
	src := NewStaticSource(map[string][]Stream{testURL: testStreams()})
	ctx := context.Background()

	t.Run("Facets", func(t *testing.T) {
		listing, err := Browse(ctx, src, nil, testURL, nil)
		require.NoError(t, err)
		assert.Len(t, listing.Streams, 6)

		got := make(map[string][]string)
		for _, f := range listing.Facets {
			for _, v := range f.Options() {
				got[f.Key()] = append(got[f.Key()], v.StringValue())
			}
		}
		assert.Equal(t, map[string][]string{
			KeyAudioBitRate: {"128kbps", "160kbps", "192kbps", "96kbps"},
			KeyFileType:     {"mp4", "webm"},
			KeyMediaType:    {TypeAudio, TypeAudioAndVideo, TypeVideo},
			KeyResolution:   {"1080p", "360p", "720p"},
		}, got)
	})

	t.Run("Audio webm", func(t *testing.T) {
		listing, err := Browse(ctx, src, facetgo.New(), testURL, facetgo.Selections{
			facetgo.Select(KeyMediaType, TypeAudio),
			facetgo.Select(KeyFileType, "webm"),
		})
		require.NoError(t, err)
		require.Len(t, listing.Streams, 1)
		assert.Equal(t, 251, listing.Streams[0].Itag)
	})

	t.Run("Resolution excludes audio", func(t *testing.T) {
		listing, err := Browse(ctx, src, nil, testURL, facetgo.Selections{
			facetgo.Select(KeyResolution, "1080p"),
		})
		require.NoError(t, err)

		var itags []int
		for _, s := range listing.Streams {
			itags = append(itags, s.Itag)
		}
		assert.Equal(t, []int{137, 248}, itags)
	})

	t.Run("Unknown URL", func(t *testing.T) {
		_, err := Browse(ctx, src, nil, "https://example.com/none", nil)
		assert.ErrorIs(t, err, ErrInvalidURL)
	})
}

func TestStreams(t *testing.T) {
	assert.Nil(t, Streams(nil))
	assert.Equal(t, testStreams(), Streams(Items(testStreams())))
}

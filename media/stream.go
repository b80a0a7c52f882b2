package media

import (
	"iter"
	"slices"
	"strconv"

	"github.com/hupe1980/facetgo"
	"github.com/hupe1980/facetgo/metadata"
)

// Facet keys exposed by Stream.
const (
	KeyMediaType    = "media_type"
	KeyFileType     = "file_type"
	KeyResolution   = "resolution"
	KeyAudioBitRate = "audio_bit_rate"
)

// Media types.
const (
	TypeAudioAndVideo = "Audio-and-Video"
	TypeAudio         = "Audio"
	TypeVideo         = "Video"
)

var facetKeys = []string{KeyAudioBitRate, KeyFileType, KeyMediaType, KeyResolution}

// Stream is one downloadable encoding of a piece of content.
type Stream struct {
	Itag         int
	Progressive  bool   // audio and video muxed into one file
	HasAudio     bool   // carries an audio track
	Subtype      string // container, e.g. "mp4"
	Resolution   string // e.g. "720p"
	AudioBitRate string // e.g. "128kbps"
}

var _ facetgo.Item = Stream{}

// ID returns the stream identifier.
func (s Stream) ID() string { return strconv.Itoa(s.Itag) }

// MediaType classifies the stream as audio-and-video, audio or video.
func (s Stream) MediaType() string {
	if s.Progressive {
		return TypeAudioAndVideo
	}
	if s.HasAudio {
		return TypeAudio
	}
	return TypeVideo
}

// FacetKeys implements facetgo.Item.
func (s Stream) FacetKeys() []string { return slices.Clone(facetKeys) }

// FacetValue implements facetgo.Item.
// Audio streams carry no resolution and video streams carry no bit rate.
func (s Stream) FacetValue(key string) (metadata.Value, bool) {
	var v string

	switch key {
	case KeyMediaType:
		v = s.MediaType()
	case KeyFileType:
		v = s.Subtype
	case KeyResolution:
		if s.MediaType() == TypeAudio {
			return metadata.Value{}, false
		}
		v = s.Resolution
	case KeyAudioBitRate:
		if s.MediaType() == TypeVideo {
			return metadata.Value{}, false
		}
		v = s.AudioBitRate
	default:
		return metadata.Value{}, false
	}

	if v == "" {
		return metadata.Value{}, false
	}
	return metadata.String(v), true
}

// Items returns a re-iterable dataset view over streams.
func Items(streams []Stream) iter.Seq[facetgo.Item] {
	return facetgo.Slice(streams)
}

// Streams converts filtered items back to streams. Items that are not streams
// are skipped.
func Streams(dataset iter.Seq[facetgo.Item]) []Stream {
	var out []Stream
	if dataset == nil {
		return out
	}
	for item := range dataset {
		if s, ok := item.(Stream); ok {
			out = append(out, s)
		}
	}
	return out
}

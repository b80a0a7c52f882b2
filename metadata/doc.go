// Package metadata provides the typed facet values and row bitmaps used by facetgo.
//
// # Values
//
// Facet values are small typed values:
//
//   - String: metadata.String("1080p")
//   - Int: metadata.Int(128)
//   - Float: metadata.Float(29.97)
//   - Bool: metadata.Bool(true)
//   - Array: metadata.Array([]metadata.Value{...})
//
// The default facet and constraint constructors only accept non-empty strings.
// The other kinds are representable so that additional constructors can be
// registered without changing the value model.
//
// # Documents
//
// Document is a map-backed item that satisfies facetgo.Item, which makes it the
// quickest way to feed arbitrary records into the engine:
//
//	doc := metadata.Document{
//	    "resolution": metadata.String("1080p"),
//	    "file_type":  metadata.String("mp4"),
//	}
//
// Legacy map[string]any input can be converted with DocumentFromAny.
//
// # Bitmaps
//
// Bitmap wraps a 32-bit Roaring Bitmap of dataset row positions. It backs the
// posting lists of the index package.
package metadata

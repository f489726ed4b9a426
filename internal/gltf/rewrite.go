package gltf

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

const (
	// ExtensionName is the capability extension consumers need to decode basis textures
	ExtensionName = "MOZ_HUBS_texture_basis"
	// BasisSuffix replaces the raster suffix of every image uri
	BasisSuffix = ".basis"
	// BasisMimeType is used when RewriteOptions.RetargetMimeType is set
	BasisMimeType = "image/basis"
)

// RasterExtensions are the image suffixes that can be compressed
var RasterExtensions = []string{".png", ".jpg", ".jpeg"}

// UnsupportedAssetError reports an image whose uri does not end in a
// recognised raster extension.
type UnsupportedAssetError struct {
	Index int
	URI   string
}

func (e *UnsupportedAssetError) Error() string {
	return fmt.Sprintf("unsupported asset: image %d uri %q has an unrecognised file extension", e.Index, e.URI)
}

// RewriteOptions toggles behaviour beyond the uri and texture rewrite
type RewriteOptions struct {
	// RequireExtension also declares the extension in extensionsRequired
	RequireExtension bool
	// RetargetMimeType sets every image mimeType to image/basis
	RetargetMimeType bool
}

type basisExtension struct {
	Source *int `json:"source,omitempty"`
}

// Rewrite returns a copy of doc whose images point at basis files and whose
// textures carry the basis extension. doc itself is never modified; on error
// no document is returned.
func Rewrite(doc *Document, opts RewriteOptions) (*Document, error) {
	out := doc.Clone()

	for i := range out.Images {
		img := &out.Images[i]
		uri, ok := BasisURI(img.URI)
		if !ok {
			return nil, &UnsupportedAssetError{Index: i, URI: img.URI}
		}

		slog.Info("Retargeting image", "index", i, "mime", img.MimeType, "from", img.URI, "to", uri)
		img.URI = uri
		if opts.RetargetMimeType && img.MimeType != "" {
			img.MimeType = BasisMimeType
		}
	}

	for i := range out.Textures {
		tex := &out.Textures[i]
		payload, err := json.Marshal(basisExtension{Source: tex.Source})
		if err != nil {
			return nil, fmt.Errorf("failed to encode extension for texture %d: %w", i, err)
		}
		tex.Extensions = map[string]json.RawMessage{ExtensionName: payload}
	}

	out.ExtensionsUsed = appendUnique(out.ExtensionsUsed, ExtensionName)
	if opts.RequireExtension {
		out.ExtensionsRequired = appendUnique(out.ExtensionsRequired, ExtensionName)
	}

	slog.Info("Rewrote glTF document", "images", len(out.Images), "textures", len(out.Textures))
	return out, nil
}

// BasisURI swaps a trailing .png, .jpg or .jpeg (any case) for .basis
func BasisURI(uri string) (string, bool) {
	lower := strings.ToLower(uri)
	for _, ext := range RasterExtensions {
		if strings.HasSuffix(lower, ext) {
			return uri[:len(uri)-len(ext)] + BasisSuffix, true
		}
	}
	return "", false
}

// ImageFiles lists the raster images doc refers to as paths relative to the
// document, deduplicated and sorted lexicographically.
func ImageFiles(doc *Document) ([]string, error) {
	var files []string
	for i, img := range doc.Images {
		if _, ok := BasisURI(img.URI); !ok {
			return nil, &UnsupportedAssetError{Index: i, URI: img.URI}
		}

		name, err := url.PathUnescape(img.URI)
		if err != nil {
			return nil, fmt.Errorf("image %d uri %q: %w", i, img.URI, err)
		}
		name = filepath.FromSlash(name)
		if !filepath.IsLocal(name) {
			return nil, fmt.Errorf("image %d uri %q points outside the document directory", i, img.URI)
		}

		if !slices.Contains(files, name) {
			files = append(files, name)
		}
	}

	slices.Sort(files)
	return files, nil
}

// BasisSource returns the source index recorded in the texture's basis
// extension.
func (t Texture) BasisSource() (int, bool) {
	raw, ok := t.Extensions[ExtensionName]
	if !ok {
		return 0, false
	}

	var ext basisExtension
	if err := json.Unmarshal(raw, &ext); err != nil || ext.Source == nil {
		return 0, false
	}
	return *ext.Source, true
}

func appendUnique(names []string, name string) []string {
	if slices.Contains(names, name) {
		return names
	}
	return append(names, name)
}

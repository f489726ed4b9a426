package gltf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Document is a glTF JSON document. Images, textures and the extension
// declarations are decoded; every other property is carried through
// untouched so the document survives a load/save round trip.
type Document struct {
	Images             []Image
	Textures           []Texture
	ExtensionsUsed     []string
	ExtensionsRequired []string

	extra map[string]json.RawMessage
}

// Image is an entry of the document's images array
type Image struct {
	URI      string
	MimeType string

	extra map[string]json.RawMessage
}

// Texture is an entry of the document's textures array
type Texture struct {
	Source     *int
	Extensions map[string]json.RawMessage

	extra map[string]json.RawMessage
}

// Parse decodes a glTF JSON document
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse glTF document: %w", err)
	}
	return &doc, nil
}

// Load reads and decodes a glTF JSON document from disk
func Load(path string) (*Document, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read glTF document: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}

	return doc, data, nil
}

// Encode serializes the document as indented JSON
func (d *Document) Encode() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode glTF document: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the document to disk as indented JSON
func (d *Document) Save(path string) error {
	data, err := d.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write glTF document: %w", err)
	}
	return nil
}

// Clone returns a deep copy of the document
func (d *Document) Clone() *Document {
	out := &Document{
		ExtensionsUsed:     cloneStrings(d.ExtensionsUsed),
		ExtensionsRequired: cloneStrings(d.ExtensionsRequired),
		extra:              cloneFields(d.extra),
	}

	if d.Images != nil {
		out.Images = make([]Image, len(d.Images))
		for i, img := range d.Images {
			img.extra = cloneFields(img.extra)
			out.Images[i] = img
		}
	}

	if d.Textures != nil {
		out.Textures = make([]Texture, len(d.Textures))
		for i, tex := range d.Textures {
			if tex.Source != nil {
				src := *tex.Source
				tex.Source = &src
			}
			tex.Extensions = cloneFields(tex.Extensions)
			tex.extra = cloneFields(tex.extra)
			out.Textures[i] = tex
		}
	}

	return out
}

// CountReferences counts how often each raster suffix appears as the end
// of a JSON string in the raw document text.
func CountReferences(data []byte) map[string]int {
	text := string(data)
	counts := make(map[string]int, len(RasterExtensions))
	for _, ext := range RasterExtensions {
		counts[ext] = strings.Count(text, ext+`"`)
	}
	return counts
}

func (d *Document) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	if err := take(fields, "images", &d.Images); err != nil {
		return err
	}
	if err := take(fields, "textures", &d.Textures); err != nil {
		return err
	}
	if err := take(fields, "extensionsUsed", &d.ExtensionsUsed); err != nil {
		return err
	}
	if err := take(fields, "extensionsRequired", &d.ExtensionsRequired); err != nil {
		return err
	}

	d.extra = fields
	return nil
}

func (d Document) MarshalJSON() ([]byte, error) {
	fields := cloneFields(d.extra)
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	if err := put(fields, "images", d.Images, d.Images != nil); err != nil {
		return nil, err
	}
	if err := put(fields, "textures", d.Textures, d.Textures != nil); err != nil {
		return nil, err
	}
	if err := put(fields, "extensionsUsed", d.ExtensionsUsed, len(d.ExtensionsUsed) > 0); err != nil {
		return nil, err
	}
	if err := put(fields, "extensionsRequired", d.ExtensionsRequired, len(d.ExtensionsRequired) > 0); err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

func (img *Image) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	if err := take(fields, "uri", &img.URI); err != nil {
		return err
	}
	if err := take(fields, "mimeType", &img.MimeType); err != nil {
		return err
	}

	img.extra = fields
	return nil
}

func (img Image) MarshalJSON() ([]byte, error) {
	fields := cloneFields(img.extra)
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	if err := put(fields, "uri", img.URI, img.URI != ""); err != nil {
		return nil, err
	}
	if err := put(fields, "mimeType", img.MimeType, img.MimeType != ""); err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

func (t *Texture) UnmarshalJSON(data []byte) error {
	fields, err := decodeFields(data)
	if err != nil {
		return err
	}

	if err := take(fields, "source", &t.Source); err != nil {
		return err
	}
	if err := take(fields, "extensions", &t.Extensions); err != nil {
		return err
	}

	t.extra = fields
	return nil
}

func (t Texture) MarshalJSON() ([]byte, error) {
	fields := cloneFields(t.extra)
	if fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	if err := put(fields, "source", t.Source, t.Source != nil); err != nil {
		return nil, err
	}
	if err := put(fields, "extensions", t.Extensions, t.Extensions != nil); err != nil {
		return nil, err
	}

	return json.Marshal(fields)
}

func decodeFields(data []byte) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// take decodes fields[key] into dst and removes it from fields
func take(fields map[string]json.RawMessage, key string, dst any) error {
	raw, ok := fields[key]
	if !ok {
		return nil
	}
	delete(fields, key)

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("invalid %q: %w", key, err)
	}
	return nil
}

func put(fields map[string]json.RawMessage, key string, v any, present bool) error {
	if !present {
		delete(fields, key)
		return nil
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	fields[key] = raw
	return nil
}

func cloneFields(fields map[string]json.RawMessage) map[string]json.RawMessage {
	if fields == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		out[k] = v
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

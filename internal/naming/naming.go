// Package naming builds and parses the sequential filenames trawl writes.
package naming

import (
	"fmt"
	"mime"
	"path"
	"strconv"
	"strings"
)

// Defaults for the output layout.
const (
	DefaultPrefix      = "image"
	DefaultExtension   = ".webp"
	DefaultContentType = "image/webp"
)

// Scheme describes output names of the form <prefix>_<index><extension>.
type Scheme struct {
	Prefix    string
	Extension string
	// ContentType is the declared type under which a name suggested by the
	// server is kept. Any other type falls back to the default name.
	ContentType string
}

// Default returns the image_<n>.webp scheme.
func Default() Scheme {
	return Scheme{
		Prefix:      DefaultPrefix,
		Extension:   DefaultExtension,
		ContentType: DefaultContentType,
	}
}

// ParseWarning is reported for names that look like output files but
// carry no usable index.
type ParseWarning struct {
	Name   string
	Reason string
}

func (w *ParseWarning) Error() string {
	return fmt.Sprintf("could not parse index from %q: %s", w.Name, w.Reason)
}

// Name returns the default name for index.
func (s Scheme) Name(index int) string {
	return s.Prefix + "_" + strconv.Itoa(index) + s.ext()
}

// Parse extracts the index from name. matched is false when name does not
// have the scheme's prefix and extension; such names are not an error. A
// matching name without a positive integer index returns a *ParseWarning.
func (s Scheme) Parse(name string) (index int, matched bool, err error) {
	head := s.Prefix + "_"
	ext := s.ext()
	if !strings.HasPrefix(name, head) || !strings.HasSuffix(name, ext) || len(name) < len(head)+len(ext) {
		return 0, false, nil
	}

	mid := name[len(head) : len(name)-len(ext)]
	n, convErr := strconv.Atoi(mid)
	if convErr != nil {
		return 0, true, &ParseWarning{Name: name, Reason: fmt.Sprintf("%q is not an integer", mid)}
	}
	if n < 1 {
		return 0, true, &ParseWarning{Name: name, Reason: "index must be positive"}
	}
	return n, true, nil
}

// FromResponse derives the output name for index from response headers.
//
// A filename in contentDisposition yields <stem>_<index><ext>. That name is
// only kept when contentType contains the scheme's content type; otherwise
// the default name is used. Most servers do not declare the canonical type,
// so the default name usually wins.
func (s Scheme) FromResponse(index int, contentType, contentDisposition string) string {
	name := s.Name(index)

	if stem := dispositionStem(contentDisposition); stem != "" {
		name = stem + "_" + strconv.Itoa(index) + s.ext()
	}

	want := strings.ToLower(s.ContentType)
	if want == "" || !strings.Contains(strings.ToLower(contentType), want) {
		name = s.Name(index)
	}
	return name
}

func (s Scheme) ext() string {
	if s.Extension == "" || strings.HasPrefix(s.Extension, ".") {
		return s.Extension
	}
	return "." + s.Extension
}

// dispositionStem returns the suggested filename without directory or
// extension, or "" when there is none.
func dispositionStem(header string) string {
	if header == "" {
		return ""
	}

	var filename string
	if _, params, err := mime.ParseMediaType(header); err == nil {
		filename = params["filename"]
	} else if i := strings.Index(header, "filename="); i >= 0 {
		filename = header[i+len("filename="):]
		if j := strings.IndexByte(filename, ';'); j >= 0 {
			filename = filename[:j]
		}
		filename = strings.Trim(strings.TrimSpace(filename), `"`)
	}

	filename = strings.ReplaceAll(filename, `\`, "/")
	filename = path.Base(filename)
	if filename == "." || filename == "/" || filename == ".." {
		return ""
	}
	stem := strings.TrimSuffix(filename, path.Ext(filename))
	if stem == "" || strings.HasPrefix(stem, ".") {
		return ""
	}
	return stem
}

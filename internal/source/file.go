package source

import (
	"crypto/sha256"
	"os"

	"golang.org/x/text/unicode/norm"
)

// LoadOptions controls normalisation applied while ingesting a document.
type LoadOptions struct {
	// NormalizeNFC rewrites the content in Unicode NFC form before splitting.
	NormalizeNFC bool
}

// Load reads a file from disk, normalizes BOM/CRLF and builds its lines.
func Load(path string, opts LoadOptions) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(path, content, 0, opts), nil
}

// FromBytes ingests in-memory content (stdin, tests, annotate requests).
func FromBytes(path string, content []byte, flags FileFlags, opts LoadOptions) *File {
	content, hadBOM := removeBOM(content)
	content, hadCRLF := normalizeCRLF(content)
	if hadBOM {
		flags |= FileHadBOM
	}
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	if opts.NormalizeNFC && !norm.NFC.IsNormal(content) {
		content = norm.NFC.Bytes(content)
		flags |= FileNormalizedNFC
	}

	return &File{
		Path:    normalizePath(path),
		Content: content,
		Lines:   FromSource(string(content)),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
	}
}

// FromString is a shorthand for a virtual document.
func FromString(name, text string) *File {
	return FromBytes(name, []byte(text), FileVirtual, LoadOptions{})
}

package source

// FileFlags encodes metadata about how a source file was ingested.
type FileFlags uint8 // метаданные

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	FileNormalizedNFC
)

// File captures a loaded document together with its line model.
type File struct {
	Path    string
	Content []byte
	Lines   []*Line
	Hash    [32]byte
	Flags   FileFlags
}

// Text returns the normalized content as a string.
func (f *File) Text() string {
	if f == nil {
		return ""
	}
	return string(f.Content)
}

// Line returns the line with the given 1-based number or nil.
func (f *File) Line(number int) *Line {
	if f == nil || number < 1 || number > len(f.Lines) {
		return nil
	}
	return f.Lines[number-1]
}

package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8 // метаданные
	// Lang selects the grammar used for a file.
	Lang uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileNormalizedCRLF
	// FileDeclaration marks ambient declaration files (*.d.ts).
	FileDeclaration
)

const (
	LangUnknown Lang = iota
	LangTS
	LangTSX
)

func (l Lang) String() string {
	switch l {
	case LangTS:
		return "ts"
	case LangTSX:
		return "tsx"
	default:
		return "unknown"
	}
}

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
	Lang    Lang
}

// IsDeclaration reports whether the file is a *.d.ts declaration file.
func (f *File) IsDeclaration() bool {
	return f.Flags&FileDeclaration != 0
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, в байтах
}

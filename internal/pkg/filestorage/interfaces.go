package filestorage

// FileInfo represents a file loaded from storage
type FileInfo struct {
	Filename string // Base name of the file
	Path     string // Full filesystem path
	FileSize int64  // Size in bytes
	Content  []byte
}

// FileReader defines read access to files shipped next to the service, such as
// the fixture spreadsheet uploaded during synchronization
type FileReader interface {
	// ReadFile loads a file by path, relative paths being resolved against the storage root
	ReadFile(path string) (*FileInfo, error)

	// Exists reports whether the path resolves to a regular file
	Exists(path string) bool
}

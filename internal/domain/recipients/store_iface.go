package recipients

import "context"

// Source provides the directory for a run.
type Source interface {
	Directory(ctx context.Context) (Directory, error)
}

// FileSource loads a CSV directory from disk on every call.
type FileSource struct {
	Path string
}

func (f FileSource) Directory(ctx context.Context) (Directory, error) {
	return LoadCSVFile(f.Path)
}

// StaticSource serves a fixed directory.
type StaticSource Directory

func (s StaticSource) Directory(ctx context.Context) (Directory, error) {
	return Directory(s), nil
}

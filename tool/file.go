package tool

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ReadFileArgs are the arguments of the read_file tool.
type ReadFileArgs struct {
	FilePath string `json:"file_path" desc:"Path of the file to read" required:"true"`
}

// FileToolOption configures the read_file tool.
type FileToolOption func(*fileToolConfig)

type fileToolConfig struct {
	basePath string
}

// WithBasePath resolves every requested path relative to dir and refuses
// paths that escape it. By default paths are used as given.
func WithBasePath(dir string) FileToolOption {
	return func(c *fileToolConfig) {
		c.basePath = dir
	}
}

func (c *fileToolConfig) resolvePath(path string) (string, error) {
	if c.basePath == "" {
		return path, nil
	}

	base := filepath.Clean(c.basePath)
	full := filepath.Join(base, filepath.Clean(path))

	rel, err := filepath.Rel(base, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q is outside base path %q", path, base)
	}
	return full, nil
}

// NewReadFileTool creates the read_file tool.
//
// The file is read whole and must be UTF-8 text. A missing file yields
// {"error": "File not found: <path>"} and any other failure {"error": <message>}.
func NewReadFileTool(rep *Reporter, opts ...FileToolOption) Registration {
	cfg := &fileToolConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if rep == nil {
		rep = NewReporter(nil)
	}

	return Func("read_file", "Read the contents of a file.",
		resultFunc(func(ctx context.Context, args ReadFileArgs) Result {
			rep.Call(ctx, "Reading file: %s", args.FilePath)

			path, err := cfg.resolvePath(args.FilePath)
			if err != nil {
				rep.Error(ctx, "%v", err)
				return errorResult(err)
			}

			data, err := os.ReadFile(path)
			if errors.Is(err, fs.ErrNotExist) {
				rep.Error(ctx, "File not found: %s", args.FilePath)
				return Result{"error": "File not found: " + args.FilePath}
			}
			if err != nil {
				rep.Error(ctx, "%v", err)
				return errorResult(err)
			}

			if off := invalidUTF8(data); off >= 0 {
				err := fmt.Errorf("cannot decode %s as UTF-8: invalid byte 0x%02x at offset %d", args.FilePath, data[off], off)
				rep.Error(ctx, "%v", err)
				return errorResult(err)
			}

			content := string(data)
			rep.Result(ctx, "Successfully read %d characters from %s", utf8.RuneCountInString(content), args.FilePath)
			return Result{"content": content}
		}))
}

// invalidUTF8 returns the offset of the first byte that does not begin a
// valid UTF-8 sequence, or -1.
func invalidUTF8(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// Package words loads the candidate word list once at startup.
package words

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mitchellh/go-homedir"
)

type Source interface {
	Words(ctx context.Context) ([]string, error)
}

// Parse reads one word per line. Surrounding whitespace is trimmed and blank
// lines are skipped.
func Parse(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if w := strings.TrimSpace(scanner.Text()); w != "" {
			words = append(words, w)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

type FileSource struct {
	Path string
}

func (f FileSource) Words(ctx context.Context) ([]string, error) {
	path, err := homedir.Expand(f.Path)
	if err != nil {
		return nil, fmt.Errorf("expanding %s: %w", f.Path, err)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Collect merges every source in order, dropping duplicates. A nil result
// means no word list is configured.
func Collect(ctx context.Context, sources ...Source) ([]string, error) {
	var all []string
	seen := make(map[string]struct{})
	for _, src := range sources {
		ws, err := src.Words(ctx)
		if err != nil {
			return nil, err
		}
		for _, w := range ws {
			if _, dup := seen[w]; dup {
				continue
			}
			seen[w] = struct{}{}
			all = append(all, w)
		}
	}
	return all, nil
}

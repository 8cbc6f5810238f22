package runtime

import (
	"bufio"
	"bytes"
	"chat-relay/errors"
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/samber/lo"
)

//go:embed censored/*
var censoredFolder embed.FS

// CensoredData carries the loaded words and the languages they came from.
type CensoredData struct {
	Words     []string
	Languages []string
}

// CensoredLoader reads one word list per language ("en.txt", "fr.txt", ...).
type CensoredLoader struct {
	fs fs.FS
}

func NewCensoredLoader(f fs.FS) *CensoredLoader {
	return &CensoredLoader{fs: f}
}

// NewEmbeddedCensoredLoader reads the word lists shipped with the binary.
func NewEmbeddedCensoredLoader() *CensoredLoader {
	return NewCensoredLoader(censoredFolder)
}

// LoadAll parses every .txt file of dir into a sorted list of unique words.
func (l *CensoredLoader) LoadAll(dir string) (*CensoredData, error) {
	entries, err := fs.ReadDir(l.fs, dir)
	if err != nil {
		return nil, err
	}

	var languages []string
	uniqueWords := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		languages = append(languages, strings.TrimSuffix(entry.Name(), ".txt"))

		data, err := fs.ReadFile(l.fs, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		// bufio.Scanner copes with both \n and \r\n
		scanner := bufio.NewScanner(bytes.NewReader(data))
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line != "" && !strings.HasPrefix(line, "#") {
				uniqueWords[line] = struct{}{}
			}
		}
		if err := scanner.Err(); err != nil {
			return nil, err
		}
	}

	if len(uniqueWords) == 0 {
		return nil, errors.ErrEmptyWords
	}

	words := lo.Keys(uniqueWords)
	sort.Strings(words)
	return &CensoredData{Words: words, Languages: languages}, nil
}

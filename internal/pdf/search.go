package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Search finds form templates on disk.
type Search struct {
	validator *Validator
}

// NewSearch creates a new template finder with the specified constraints
func NewSearch(maxFileSize int64) *Search {
	return &Search{
		validator: NewValidator(maxFileSize),
	}
}

// FindPDFsLimited lists PDF files under directory, skipping hidden
// directories and files that fail validation. limit <= 0 means no limit.
func (s *Search) FindPDFsLimited(directory string, limit int) ([]FileInfo, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	if _, err := os.Stat(directory); os.IsNotExist(err) {
		return nil, fmt.Errorf("directory does not exist: %s", directory)
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	var pdfFiles []FileInfo
	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if limit > 0 && len(pdfFiles) >= limit {
			return filepath.SkipAll
		}

		if !isPDFFile(d.Name()) || d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}

		if err := s.validator.ValidateFileInfo(path, info); err != nil {
			return nil
		}

		pdfFiles = append(pdfFiles, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	return pdfFiles, nil
}

// FindTemplate returns the first PDF under directory whose file name
// matches query. An exact name wins over a fuzzy match.
func (s *Search) FindTemplate(directory, query string) (FileInfo, error) {
	files, err := s.FindPDFsLimited(directory, 0)
	if err != nil {
		return FileInfo{}, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	for _, f := range files {
		name := strings.ToLower(f.Name)
		if name == q || strings.TrimSuffix(name, ".pdf") == q {
			return f, nil
		}
	}
	for _, f := range files {
		if s.matchesQuery(f.Name, q) {
			return f, nil
		}
	}
	return FileInfo{}, fmt.Errorf("no template matching %q in %s", query, directory)
}

// matchesQuery performs fuzzy matching on the filename
func (s *Search) matchesQuery(filename, query string) bool {
	if query == "" {
		return false
	}

	nameWithoutExt := strings.TrimSuffix(strings.ToLower(filename), ".pdf")
	if strings.Contains(nameWithoutExt, query) {
		return true
	}

	// Every query word must appear in some filename word.
	words := splitIntoWords(nameWithoutExt)
	for _, queryWord := range splitIntoWords(query) {
		found := false
		for _, word := range words {
			if strings.Contains(word, queryWord) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

// splitIntoWords splits a string into words using common separators
func splitIntoWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return strings.ContainsRune(" _-.()[]", r)
	})
}

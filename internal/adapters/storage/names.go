package storage

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadNames returns the candidate names in file order, one per line.
// Blank lines are skipped. Callers consume the list from the end.
func ReadNames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNamesFile, err)
	}
	defer func() { _ = f.Close() }()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrNamesFile, path, err)
	}
	return names, nil
}

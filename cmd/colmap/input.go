package main

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// stdinPath selects standard input.
const stdinPath = "-"

// readInput reads path, or stdin when path is "-".
func (a *app) readInput(flag, path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("--%s is required", flag)
	}

	if path == stdinPath {
		if a.stdin == nil {
			return "", errors.New("standard input is not available")
		}

		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read --%s from stdin: %w", flag, err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read --%s file %s: %w", flag, path, err)
	}

	return string(data), nil
}

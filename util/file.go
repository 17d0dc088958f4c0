package util

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// WriteToFile writes the given lines to savePath, one per line, creating the
// parent directory when needed.
func WriteToFile(savePath string, content ...string) error {
	if err := ensureDir(savePath); err != nil {
		return err
	}
	data := strings.Join(content, "\n")
	if len(content) > 0 {
		data += "\n"
	}
	return os.WriteFile(savePath, []byte(data), 0644)
}

func AppendToFile(savePath string, content ...string) error {
	if err := ensureDir(savePath); err != nil {
		return err
	}
	f, err := os.OpenFile(savePath, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, s := range content {
		if _, err = f.WriteString(s + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteJSON writes v as indented JSON.
func WriteJSON(savePath string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", savePath, err)
	}
	if err := ensureDir(savePath); err != nil {
		return err
	}
	return os.WriteFile(savePath, append(data, '\n'), 0644)
}

func ensureDir(savePath string) error {
	dir := filepath.Dir(savePath)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

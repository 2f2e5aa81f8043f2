// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads operator-provided values from a directory of
// plain-text files. The file name is the key and the trimmed contents are
// the value. The only key read today is arxiv-contact-email, which is
// appended to the User-Agent so arXiv can reach whoever runs the harvest.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultDir is the secrets directory relative to the project root.
const DefaultDir = ".secrets"

// ContactEmailKey names the file holding the operator's contact address.
const ContactEmailKey = "arxiv-contact-email"

// Load reads all files in dir and returns a map of file name to trimmed
// contents. A missing directory yields an empty map. Unreadable files are
// logged and skipped.
func Load(dir string, log zerolog.Logger) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	values := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn().Err(err).Str("secret", name).Msg("could not read secret")
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			values[name] = value
		}
	}
	return values, nil
}

// UserAgent appends a mailto contact to base. An empty email, or a base
// that already carries one, is returned unchanged.
func UserAgent(base, email string) string {
	email = strings.TrimSpace(email)
	if email == "" || strings.Contains(base, "mailto:") {
		return base
	}
	if base == "" {
		return "mailto:" + email
	}
	return fmt.Sprintf("%s (mailto:%s)", base, email)
}

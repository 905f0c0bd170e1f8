// Utilities for extracting a session token from a copied cURL command.
//
// The web dashboard keeps its credential in browser storage; "Copy as cURL"
// from devtools is the quickest way to move it to the CLI.
package shared

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var headerRegex = regexp.MustCompile(`-H\s+'([^']+)'|-H\s+"([^"]+)"`)

// ParseCurlFile reads a file containing a cURL command and extracts the session token.
func ParseCurlFile(filepath string) (string, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return "", fmt.Errorf("failed to read curl file: %w", err)
	}

	return ParseCurlToken(content)
}

// ParseCurlToken parses a cURL command and returns the bearer token carried in
// its Authorization header. The legacy x-auth-token header is accepted too.
func ParseCurlToken(data []byte) (string, error) {
	curlCmd := string(data)
	curlCmd = strings.ReplaceAll(curlCmd, "\\\n", " ")
	curlCmd = strings.ReplaceAll(curlCmd, "\\", "")

	matches := headerRegex.FindAllStringSubmatch(curlCmd, -1)

	for _, match := range matches {
		headerLine := match[1]
		if headerLine == "" {
			headerLine = match[2]
		}

		parts := strings.SplitN(headerLine, ":", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		switch key {
		case "authorization":
			token := strings.TrimSpace(strings.TrimPrefix(value, "Bearer"))
			if token != "" {
				return token, nil
			}
		case "x-auth-token":
			if value != "" {
				return value, nil
			}
		}
	}

	return "", fmt.Errorf("no session token found in curl command")
}

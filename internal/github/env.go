package github

import (
	"bufio"
	"os"
	"strings"
)

var tokenKeys = []string{"GH_TOKEN", "GITHUB_TOKEN"}

// parseEnvFile returns the first GH_TOKEN or GITHUB_TOKEN assignment in a
// dotenv file. "export " prefixes, spaces around "=" and quotes are allowed.
func parseEnvFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, key := range tokenKeys {
			if token := tokenFromLine(line, key); token != "" {
				return token, nil
			}
		}
	}
	return "", scanner.Err()
}

func tokenFromLine(line, key string) string {
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))

	rest, ok := strings.CutPrefix(line, key)
	if !ok {
		return ""
	}
	rest, ok = strings.CutPrefix(strings.TrimSpace(rest), "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(rest), `"'`))
}

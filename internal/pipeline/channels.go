package pipeline

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"anglicorpus/internal/services"
)

// ReadChannelList reads channel ids, one per line. Blank lines and lines
// starting with # are ignored, as are repeated ids.
func ReadChannelList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, services.Wrap(services.ErrConfiguration, "pipeline", "read channel list", fmt.Sprintf("file %q not found", path), nil)
		}
		return nil, fmt.Errorf("pipeline: open channel list: %w", err)
	}
	defer file.Close()

	var channels []string
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		channels = append(channels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("pipeline: read channel list: %w", err)
	}
	if len(channels) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "read channel list", fmt.Sprintf("file %q lists no channels", path), nil)
	}
	return channels, nil
}

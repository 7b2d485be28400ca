package game

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var (
	separatorRe = regexp.MustCompile(`(?m)^-{3,}[ \t]*$`)
	fieldRe     = regexp.MustCompile(`^([A-Za-z]+)\s*:\s*(.*)$`)
)

// LoadProfiles loads difficulty profiles from a list of paths (files or
// directories). Each file holds one or more blocks separated by a line
// of three or more dashes; a block is a list of "field: value" lines:
//
//	id: easy
//	label: Easy
//	pairs: 6
//	cols: 3
//	rows: 4
//	limit: 60
//	assets: assets/{difficulty}/{key}.png
func LoadProfiles(paths []string) ([]Profile, error) {
	var profiles []Profile

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access path %s: %w", path, err)
		}

		if info.IsDir() {
			files, err := os.ReadDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read dir %s: %w", path, err)
			}
			for _, entry := range files {
				if entry.IsDir() {
					continue
				}
				p, err := loadFile(filepath.Join(path, entry.Name()))
				if err != nil {
					return nil, err
				}
				profiles = append(profiles, p...)
			}
		} else {
			p, err := loadFile(path)
			if err != nil {
				return nil, err
			}
			profiles = append(profiles, p...)
		}
	}

	seen := map[string]bool{}
	for _, p := range profiles {
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate difficulty %q", p.ID)
		}
		seen[p.ID] = true
	}

	return profiles, nil
}

func loadFile(path string) ([]Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	var contentBuilder strings.Builder
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		contentBuilder.WriteString(scanner.Text() + "\n")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan file %s: %w", path, err)
	}

	var profiles []Profile
	for i, part := range separatorRe.Split(contentBuilder.String(), -1) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := parseBlock(part)
		if err != nil {
			return nil, fmt.Errorf("%s block %d: %w", path, i+1, err)
		}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("%s block %d: %w", path, i+1, err)
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}

func parseBlock(block string) (Profile, error) {
	p := Profile{AssetPattern: DefaultAssetPattern}

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		m := fieldRe.FindStringSubmatch(line)
		if m == nil {
			return p, fmt.Errorf("malformed line %q", line)
		}
		field, value := strings.ToLower(m[1]), strings.TrimSpace(m[2])

		var err error
		switch field {
		case "id":
			p.ID = value
		case "label":
			p.Label = value
		case "assets":
			p.AssetPattern = value
		case "pairs":
			p.Pairs, err = strconv.Atoi(value)
		case "cols":
			p.Cols, err = strconv.Atoi(value)
		case "rows":
			p.Rows, err = strconv.Atoi(value)
		case "limit":
			p.TimeLimit, err = ParseSeconds(value)
		default:
			return p, fmt.Errorf("unknown field %q", field)
		}
		if err != nil {
			return p, fmt.Errorf("field %s: %w", field, err)
		}
	}

	if p.ID == "" {
		return p, fmt.Errorf("missing id")
	}
	if p.Label == "" {
		p.Label = p.ID
	}
	return p, nil
}

// ParseSeconds accepts plain seconds or MM:SS.
func ParseSeconds(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		min, err1 := strconv.Atoi(parts[0])
		sec, err2 := strconv.Atoi(parts[1])
		if err1 == nil && err2 == nil {
			return min*60 + sec, nil
		}
	}
	return 0, fmt.Errorf("invalid duration %q (use 'MM:SS' or seconds)", s)
}

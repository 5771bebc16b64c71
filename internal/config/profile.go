package config

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	gcfg "github.com/go-git/gcfg/v2"

	"github.com/tstmcp/terminal-mcp/internal/txerr"
)

// Profile is a per-project overlay narrowing a subset of ServerConfig:
// the allowed-commands list and the default terminal dimensions for
// sessions created while the CLI's working directory is inside a tree
// that carries a .tstmcp file. Grounded on cmd/vee/config.go's
// ProjectConfig/UserConfig split, repurposed from assistant-identity
// settings to this server's security/terminal settings (§12).
type Profile struct {
	AllowedCommands []string
	DefaultRows     int
	DefaultCols     int
}

// LoadProfile reads and parses .tstmcp from the current directory. A
// missing file is not an error: it returns a zero Profile, meaning "no
// overlay".
func LoadProfile() (Profile, error) {
	return loadProfile(".tstmcp")
}

func loadProfile(path string) (Profile, error) {
	m, err := parseGcfgWithIncludes(path, nil)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, nil
		}
		return Profile{}, txerr.Wrap(txerr.KindConfigError, err, "parse %s", path)
	}
	return hydrateProfile(m), nil
}

// Apply returns a narrowed copy of cfg: a non-empty profile allow-list
// replaces Security.AllowedCommands, and non-zero profile dimensions
// replace Terminal.DefaultRows/Cols. The caller's cfg is not modified.
func (p Profile) Apply(cfg ServerConfig) ServerConfig {
	if len(p.AllowedCommands) > 0 {
		cfg.Security.AllowedCommands = p.AllowedCommands
	}
	if p.DefaultRows > 0 {
		cfg.Terminal.DefaultRows = p.DefaultRows
	}
	if p.DefaultCols > 0 {
		cfg.Terminal.DefaultCols = p.DefaultCols
	}
	return cfg
}

// parseGcfgWithIncludes reads a git-config-format file into a flat
// "section.key" -> []string map, following [include] path=... and
// [includeIf "gitdir:PATTERN"] path=... directives recursively. seen
// guards against include cycles, keyed by resolved absolute path.
// Grounded on cmd/vee/config.go's parseConfig, unchanged in shape.
func parseGcfgWithIncludes(path string, seen map[string]bool) (map[string][]string, error) {
	if seen == nil {
		seen = make(map[string]bool)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if seen[absPath] {
		return make(map[string][]string), nil
	}
	seen[absPath] = true

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	result := make(map[string][]string)
	dir := filepath.Dir(absPath)

	var currentSection, currentSubsection string

	err = gcfg.ReadWithCallback(f, func(section, subsection, key, value string, blank bool) error {
		if key == "" {
			currentSection = strings.ToLower(section)
			currentSubsection = subsection
			return nil
		}

		sec, sub := currentSection, currentSubsection

		if sec == "include" && strings.ToLower(key) == "path" && !blank {
			incPath := resolveIncludePath(value, dir)
			included, err := parseGcfgWithIncludes(incPath, seen)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return nil
				}
				return err
			}
			mergeFlat(result, included)
			return nil
		}

		if sec == "includeif" && strings.ToLower(key) == "path" && !blank && sub != "" {
			if cond, ok := strings.CutPrefix(sub, "gitdir:"); ok && matchGitdir(cond) {
				incPath := resolveIncludePath(value, dir)
				included, err := parseGcfgWithIncludes(incPath, seen)
				if err != nil {
					if errors.Is(err, os.ErrNotExist) {
						return nil
					}
					return err
				}
				mergeFlat(result, included)
			}
			return nil
		}

		if blank {
			return nil
		}
		mapKey := sec + "." + strings.ToLower(key)
		result[mapKey] = append(result[mapKey], value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func resolveIncludePath(path, baseDir string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path
}

func matchGitdir(pattern string) bool {
	out, err := exec.Command("git", "rev-parse", "--absolute-git-dir").Output()
	if err != nil {
		return false
	}
	gitDir := strings.TrimRight(string(out), "\n")

	if strings.HasPrefix(pattern, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return false
		}
		pattern = filepath.Join(home, pattern[2:])
	}
	if strings.HasSuffix(pattern, "/") {
		pattern += "**"
	}
	if !strings.HasPrefix(pattern, "/") && !strings.HasPrefix(pattern, "./") {
		pattern = "**/" + pattern
	}
	return matchGlobPath(pattern, gitDir)
}

func matchGlobPath(pattern, name string) bool {
	return matchParts(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchParts(pat, name []string) bool {
	for len(pat) > 0 {
		if pat[0] == "**" {
			pat = pat[1:]
			if len(pat) == 0 {
				return true
			}
			for i := 0; i <= len(name); i++ {
				if matchParts(pat, name[i:]) {
					return true
				}
			}
			return false
		}
		if len(name) == 0 {
			return false
		}
		matched, err := filepath.Match(pat[0], name[0])
		if err != nil || !matched {
			return false
		}
		pat, name = pat[1:], name[1:]
	}
	return len(name) == 0
}

func mergeFlat(dst, src map[string][]string) {
	for k, v := range src {
		dst[k] = append(dst[k], v...)
	}
}

func lastValue(m map[string][]string, key string) string {
	vals := m[key]
	if len(vals) == 0 {
		return ""
	}
	return vals[len(vals)-1]
}

func hydrateProfile(m map[string][]string) Profile {
	var p Profile
	if cmds := m["security.allowed_commands"]; len(cmds) > 0 {
		p.AllowedCommands = cmds
	}
	if rows := lastValue(m, "terminal.default_rows"); rows != "" {
		if v, err := strconv.Atoi(rows); err == nil {
			p.DefaultRows = v
		}
	}
	if cols := lastValue(m, "terminal.default_cols"); cols != "" {
		if v, err := strconv.Atoi(cols); err == nil {
			p.DefaultCols = v
		}
	}
	return p
}

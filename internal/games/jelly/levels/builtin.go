package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed builtin
var builtinFS embed.FS

// Builtin returns the levels compiled into the binary, sorted by ID.
// Embedded levels are shipped assets, so unlike directory loading a
// malformed file is reported instead of skipped.
func Builtin() ([]Level, error) {
	var out []Level

	err := fs.WalkDir(builtinFS, "builtin", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !isSupportedExtension(ext) {
			return nil
		}

		data, err := builtinFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading embedded %s: %w", p, err)
		}
		parsed, err := parseByExtension(data, ext)
		if err != nil {
			return fmt.Errorf("parsing embedded %s: %w", p, err)
		}
		if err := Validate(parsed); err != nil {
			return fmt.Errorf("validating embedded %s: %w", p, err)
		}

		out = append(out, fromParsed(parsed, p))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})

	return out, nil
}

// BuiltinByID returns a single embedded level.
func BuiltinByID(id string) (Level, error) {
	all, err := Builtin()
	if err != nil {
		return Level{}, err
	}
	for _, lvl := range all {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("level not found: %s", id)
}

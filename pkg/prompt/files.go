package prompt

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/andrej220/provkit/internal/lg"
)

// keyDisallowed matches characters not valid in a Kubernetes Secret key.
var keyDisallowed = regexp.MustCompile(`[^-._a-zA-Z0-9]`)

// CleanKey replaces every character that cannot appear in a secret key with "_".
func CleanKey(name string) string {
	return keyDisallowed.ReplaceAllString(name, "_")
}

// CollectFiles asks for a path per field until it names a regular file,
// then stores the file's raw bytes. With cleanKey the key is the file's
// base name with disallowed characters replaced; otherwise the field name.
func (c *Collector) CollectFiles(fields []Field, textAppend string, cleanKey bool) (map[string][]byte, error) {
	files := make(map[string][]byte, len(fields))
	for _, f := range fields {
		q := question(f.Name, textAppend)
		var path string
		for {
			p, err := c.Response(q, nil, false)
			if err != nil {
				return nil, err
			}
			if c.fs.IsFile(p) {
				path = p
				break
			}
			c.console.Printf("%s is not a file\n", p)
		}

		data, err := c.fs.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		key := f.Name
		if cleanKey {
			base := filepath.Base(path)
			key = CleanKey(base)
			if key != base {
				c.console.Printf("Replaced %s with %s\n", base, key)
			}
		}
		files[key] = data
		c.logger.Debug("collected file",
			lg.String("field", f.Name),
			lg.String("key", key),
			lg.Int("bytes", len(data)))
	}
	return files, nil
}

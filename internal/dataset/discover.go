package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
)

var shardRegexp = regexp.MustCompile(`^shard-[0-9]{6,}\.tar$`)

// DiscoverShards returns shard TAR paths beneath each root. Paths are sorted
// within a root and roots keep the order given.
func DiscoverShards(roots ...string) ([]string, error) {
	var all []string
	for _, root := range roots {
		entries := make([]string, 0)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if shardRegexp.MatchString(d.Name()) {
				entries = append(entries, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("discover shards under %s: %w", root, err)
		}
		sort.Strings(entries)
		all = append(all, entries...)
	}
	return all, nil
}

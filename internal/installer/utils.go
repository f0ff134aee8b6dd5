package installer

import "os"

// exists reports whether p names an existing file or directory.
func exists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// trimArchiveSuffix strips a supported archive extension from name.
func trimArchiveSuffix(name string) string {
	if ext := archiveSuffix(name); ext != "" {
		return name[:len(name)-len(ext)]
	}
	return name
}

package store

import "os"

// WriteFileAtomic writes data to a temporary sibling and renames it over path.
// Readers never observe a partial file; a crash mid-write leaves the previous
// contents intact.
func WriteFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

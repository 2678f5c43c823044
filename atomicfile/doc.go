/*
Package atomicfile replaces a file in a crash-safe way: data is written to
a temporary file next to the destination, which is renamed over the
destination only if every Write, Sync and Close succeeded.

	func saveCatalog(path string, data []byte) error {
		f, err := atomicfile.New(path)
		if err != nil {
			return err
		}
		defer f.RemoveIfNotClosed()

		if _, err = f.Write(data); err != nil {
			return err
		}
		return f.Close()
	}

For whole-buffer writes use WriteFile.
*/
package atomicfile

//go:build linux || darwin

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// loadFile maps the file privately with one extra byte so the NUL sentinel
// can be written into the mapping itself. When the file length is an exact
// multiple of the page size the sentinel would land on an unmapped page, so
// those files (and empty ones) are read instead.
func loadFile(path string) ([]byte, bool, error) {
	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, false, &os.PathError{Op: "open", Path: path, Err: err}
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		unix.Close(fd)
		return nil, false, &os.PathError{Op: "stat", Path: path, Err: err}
	}
	size := int(st.Size)
	if size == 0 || size%os.Getpagesize() == 0 {
		unix.Close(fd)
		return readFile(path)
	}
	data, err := unix.Mmap(fd, 0, size+1, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE)
	if err != nil {
		unix.Close(fd)
		return nil, false, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	if err := unix.Close(fd); err != nil {
		unix.Munmap(data)
		return nil, false, &os.PathError{Op: "close", Path: path, Err: err}
	}
	data[size] = 0
	return data, true, nil
}

func unmapFile(data []byte) error {
	return unix.Munmap(data)
}

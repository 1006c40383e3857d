//go:build !linux && !darwin

package main

func loadFile(path string) ([]byte, bool, error) {
	return readFile(path)
}

func unmapFile(data []byte) error { return nil }

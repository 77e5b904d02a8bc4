package utils

import (
	"os"
	"strings"
)

// GetFileExtensionInLowerCase returns the text after the final '.' of the
// last path component, lowercased. It returns "" when the last component has
// no '.' or ends with one.
func GetFileExtensionInLowerCase(filename string) string {
	base := filename
	if ind := strings.LastIndexAny(filename, `/\`); ind >= 0 {
		base = filename[ind+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot < 0 || dot == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[dot+1:])
}

// GetFileNameWithoutExtension strips the extension found by
// GetFileExtensionInLowerCase, keeping any directory prefix.
func GetFileNameWithoutExtension(filename string) string {
	ext := GetFileExtensionInLowerCase(filename)
	if ext == "" {
		return filename
	}
	return filename[:len(filename)-len(ext)-1]
}

// FileExists reports whether filename names an existing regular file
func FileExists(filename string) bool {
	fi, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return fi.Mode().IsRegular()
}

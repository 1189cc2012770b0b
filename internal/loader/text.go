package loader

import (
	"bytes"
	"os"
	"strings"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

func readText(path string) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, err
	}
	return normalize(data), 0, nil
}

func normalize(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	s := strings.ToValidUTF8(string(data), "�")
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// internal/repository/frontmatter.go
package repository

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// splitFrontMatter は "---" で囲まれた先頭ブロックと本文を分けます。
// フロントマターがなければ ok は false で、body は入力全体です。
func splitFrontMatter(data []byte) (front []byte, body []byte, ok bool) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	normalized := bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte(frontMatterDelim+"\n")) {
		return nil, normalized, false
	}
	rest := normalized[len(frontMatterDelim)+1:]

	// 閉じ区切りは行頭の "---"
	if bytes.HasPrefix(rest, []byte(frontMatterDelim)) {
		return nil, trimDelimLine(rest[len(frontMatterDelim):]), true
	}
	idx := bytes.Index(rest, []byte("\n"+frontMatterDelim))
	if idx < 0 {
		return nil, normalized, false
	}
	front = rest[:idx]
	body = trimDelimLine(rest[idx+1+len(frontMatterDelim):])
	return front, body, true
}

func trimDelimLine(b []byte) []byte {
	if i := bytes.IndexByte(b, '\n'); i >= 0 && len(bytes.TrimSpace(b[:i])) == 0 {
		return b[i+1:]
	}
	return bytes.TrimLeft(b, " \t")
}

// parseFrontMatter は data のフロントマターを out にデコードし、本文を返します。
func parseFrontMatter(data []byte, out any) (string, error) {
	front, body, ok := splitFrontMatter(data)
	if !ok {
		return "", fmt.Errorf("front matter not found")
	}
	if len(bytes.TrimSpace(front)) > 0 {
		if err := yaml.Unmarshal(front, out); err != nil {
			return "", fmt.Errorf("decode front matter: %w", err)
		}
	}
	return strings.TrimLeft(string(body), "\n"), nil
}

// renderFrontMatter は fm を YAML にして本文の前に付けます。
func renderFrontMatter(fm any, body string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode front matter: %w", err)
	}
	buf.WriteString(frontMatterDelim + "\n\n")
	buf.WriteString(body)
	return buf.Bytes(), nil
}

// safeName はディレクトリ名・ファイル名として使える1要素かを判定します。
func safeName(name string) bool {
	return name != "" && name != "." &&
		!strings.Contains(name, "..") &&
		!strings.ContainsAny(name, `/\`)
}

// writeFileAtomic は同じディレクトリの一時ファイルに書いてから rename します。
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

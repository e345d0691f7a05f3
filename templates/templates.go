// Package templates 内置常用的病例模板（*.case）。
package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

const ext = ".case"

//go:embed *.case
var caseFS embed.FS

// List 返回全部内置模板名称（不含扩展名），按自然顺序排列。
func List() []string {
	entries, err := fs.Glob(caseFS, "*"+ext)
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e, ext))
	}
	sort.Sort(natural.StringSlice(names))
	return names
}

// Has 判断 name 是否为内置模板。
func Has(name string) bool {
	_, err := fs.Stat(caseFS, fileName(name))
	return err == nil
}

// Source 返回内置模板的原始文本。
func Source(name string) ([]byte, error) {
	data, err := caseFS.ReadFile(fileName(name))
	if err != nil {
		return nil, fmt.Errorf("内置模板 %q 不存在: %w", name, err)
	}
	return data, nil
}

func fileName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "builtin:")
	return path.Base(strings.TrimSuffix(name, ext)) + ext
}

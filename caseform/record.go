package caseform

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRecord 读取病例记录，.yaml/.yml 按 YAML 解析，其余按 JSON 解析。
func LoadRecord(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取病例记录 %s 失败: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// DecodeJSON 解析 JSON 对象形式的病例记录。
func DecodeJSON(data []byte) (map[string]any, error) {
	record := map[string]any{}
	if len(bytes.TrimSpace(data)) == 0 {
		return record, nil
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("解析 JSON 病例记录失败: %w", err)
	}
	return record, nil
}

// DecodeYAML 解析 YAML 映射形式的病例记录。
func DecodeYAML(data []byte) (map[string]any, error) {
	record := map[string]any{}
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("解析 YAML 病例记录失败: %w", err)
	}
	return normalize(record).(map[string]any), nil
}

// normalize 把 YAML 中以非字符串为键的映射转换为 map[string]any，整数转换为 float64，与 JSON 结果保持一致。
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[fmt.Sprint(k)] = normalize(item)
		}
		return out
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	case int:
		return float64(t)
	default:
		return v
	}
}

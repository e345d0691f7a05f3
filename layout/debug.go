package layout

import (
	"encoding/json"
	"os"
)

// DebugReport 是布局调试 JSON 的顶层结构。
type DebugReport struct {
	Geometry Geometry `json:"geometry"`
	Summary  *Summary `json:"summary,omitempty"`
	Result   *Result  `json:"result"`
}

// WriteDebugJSON 将布局结果输出为 JSON，便于调试或可视化。
func WriteDebugJSON(path string, report DebugReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

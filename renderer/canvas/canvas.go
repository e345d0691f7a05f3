package canvasrenderer

import (
	"bytes"
	"io"
	"os"

	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
	"github.com/Shivashangarim20/caseX-PDF-sub000/renderer"
)

// Canvas 录制排版引擎的绘图调用，Bytes/Save/WriteTo 时再一次性渲染为 PDF。
type Canvas struct {
	*layout.Recorder
	r renderer.Renderer
}

// NewCanvas 创建一个使用 r 测量与渲染的 Canvas，宽高单位为 mm。
func NewCanvas(r *Renderer, width, height float64) *Canvas {
	if r == nil {
		r = NewRenderer()
	}
	return &Canvas{Recorder: layout.NewRecorder(width, height, r), r: r}
}

// Bytes 渲染并返回 PDF 数据；测量阶段的字体错误会在这里报告。
func (c *Canvas) Bytes() ([]byte, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.r.Render(c.Result())
}

func (c *Canvas) Save(path string) error {
	data, err := c.Bytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Canvas) WriteTo(w io.Writer) (int64, error) {
	data, err := c.Bytes()
	if err != nil {
		return 0, err
	}
	return bytes.NewReader(data).WriteTo(w)
}

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
)

const (
	// EnvPrefix 是环境变量前缀，例如 CASEPDF_BACKEND、CASEPDF_PAGE_SIZE。
	EnvPrefix = "CASEPDF"

	BackendCanvas = "canvas"
	BackendFPDF   = "fpdf"
)

// ErrVersion is returned by Load when --version was requested.
var ErrVersion = errors.New("version requested")

// PageConfig 描述纸张与几何覆盖项，长度允许带单位（mm/cm/in/pt）。
type PageConfig struct {
	Size         string `mapstructure:"size"`
	Landscape    bool   `mapstructure:"landscape"`
	MarginTop    string `mapstructure:"margin_top"`
	MarginBottom string `mapstructure:"margin_bottom"`
	MarginSide   string `mapstructure:"margin_side"`
	LineHeight   string `mapstructure:"line_height"`
	LabelWidth   string `mapstructure:"label_width"`
}

// FontConfig 指定 canvas 后端的字体文件覆盖。
type FontConfig struct {
	Regular string `mapstructure:"regular"`
	Bold    string `mapstructure:"bold"`
}

// Config holds the command line configuration.
type Config struct {
	Template   string     `mapstructure:"template"`
	Data       string     `mapstructure:"data"`
	Out        string     `mapstructure:"out"`
	Backend    string     `mapstructure:"backend"`
	Debug      string     `mapstructure:"debug"`
	LogLevel   string     `mapstructure:"loglevel"`
	Watch      bool       `mapstructure:"watch"`
	List       bool       `mapstructure:"list"`
	ConfigFile string     `mapstructure:"-"`
	Page       PageConfig `mapstructure:"page"`
	Font       FontConfig `mapstructure:"font"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend:  BackendCanvas,
		LogLevel: "info",
		Page:     PageConfig{Size: "A4"},
	}
}

var flagKeys = map[string]string{
	"template":      "template",
	"data":          "data",
	"out":           "out",
	"backend":       "backend",
	"debug-json":    "debug",
	"log-level":     "loglevel",
	"watch":         "watch",
	"list":          "list",
	"page-size":     "page.size",
	"landscape":     "page.landscape",
	"margin-top":    "page.margin_top",
	"margin-bottom": "page.margin_bottom",
	"margin-side":   "page.margin_side",
	"line-height":   "page.line_height",
	"label-width":   "page.label_width",
	"font-regular":  "font.regular",
	"font-bold":     "font.bold",
}

// Load 解析命令行参数（不含程序名），优先级：flag > 环境变量 > 配置文件 > 默认值。
func Load(args []string) (*Config, error) {
	def := DefaultConfig()
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v, def)

	fs := pflag.NewFlagSet("casepdf", pflag.ContinueOnError)
	fs.StringP("template", "t", def.Template, "Built-in template name or path to a .case file")
	fs.StringP("data", "d", def.Data, "Case record (JSON or YAML)")
	fs.StringP("out", "o", def.Out, "Output PDF path (defaults to the template filename pattern)")
	fs.StringP("backend", "b", def.Backend, "PDF backend: canvas or fpdf")
	fs.String("debug-json", def.Debug, "Write the recorded layout as JSON (canvas backend only)")
	fs.String("log-level", def.LogLevel, "Log level: none, debug, info, warn, error")
	fs.BoolP("watch", "w", def.Watch, "Re-export when the template or record changes")
	fs.BoolP("list", "l", def.List, "List built-in templates and exit")
	fs.String("page-size", def.Page.Size, "Page size: A4, A5, Letter, Legal")
	fs.Bool("landscape", def.Page.Landscape, "Landscape orientation")
	fs.String("margin-top", "", "Top margin, eg 16mm")
	fs.String("margin-bottom", "", "Bottom margin, eg 18mm")
	fs.String("margin-side", "", "Left and right margin, eg 14mm")
	fs.String("line-height", "", "Body line height, eg 5mm")
	fs.String("label-width", "", "Key/value label column width, eg 58mm")
	fs.String("font-regular", "", "TTF/OTF file overriding the regular face (canvas backend)")
	fs.String("font-bold", "", "TTF/OTF file overriding the bold face (canvas backend)")
	fs.StringP("config", "c", "", "YAML configuration file")
	fs.BoolP("version", "v", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if ver, _ := fs.GetBool("version"); ver {
		return nil, ErrVersion
	}

	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, fmt.Errorf("绑定参数 %s 失败: %w", name, err)
		}
	}

	cfgFile, _ := fs.GetString("config")
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", cfgFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}
	cfg.ConfigFile = cfgFile
	if fs.NArg() > 0 && cfg.Template == "" {
		cfg.Template = fs.Arg(0)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("template", def.Template)
	v.SetDefault("data", def.Data)
	v.SetDefault("out", def.Out)
	v.SetDefault("backend", def.Backend)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("loglevel", def.LogLevel)
	v.SetDefault("watch", def.Watch)
	v.SetDefault("list", def.List)
	v.SetDefault("page.size", def.Page.Size)
	v.SetDefault("page.landscape", def.Page.Landscape)
	v.SetDefault("page.margin_top", "")
	v.SetDefault("page.margin_bottom", "")
	v.SetDefault("page.margin_side", "")
	v.SetDefault("page.line_height", "")
	v.SetDefault("page.label_width", "")
	v.SetDefault("font.regular", "")
	v.SetDefault("font.bold", "")
}

var validLogLevels = map[string]bool{
	"none":  true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate 检查配置，返回所有问题的合并错误。
func (c *Config) Validate() error {
	var err error
	if c.Template == "" && !c.List {
		err = multierr.Append(err, errors.New("必须指定模板（--template）"))
	}
	switch c.Backend {
	case BackendCanvas, BackendFPDF:
	default:
		err = multierr.Append(err, fmt.Errorf("不支持的后端: %s（可选 canvas、fpdf）", c.Backend))
	}
	if !validLogLevels[c.LogLevel] {
		err = multierr.Append(err, fmt.Errorf("无效的日志级别: %s（可选 none、debug、info、warn、error）", c.LogLevel))
	}
	if c.Debug != "" && c.Backend != BackendCanvas {
		err = multierr.Append(err, errors.New("--debug-json 仅适用于 canvas 后端"))
	}
	if _, gerr := c.Geometry(); gerr != nil {
		err = multierr.Append(err, gerr)
	}
	return err
}

// Geometry 在默认几何配置上应用纸张与长度覆盖项。
func (c *Config) Geometry() (layout.Geometry, error) {
	g := layout.DefaultGeometry()
	var err error
	if c.Page.Size != "" || c.Page.Landscape {
		size := c.Page.Size
		if size == "" {
			size = "A4"
		}
		w, h, serr := layout.PageSize(size, c.Page.Landscape)
		if serr != nil {
			err = multierr.Append(err, serr)
		} else {
			g.PageWidth, g.PageHeight = w, h
		}
	}
	for _, o := range []struct {
		name  string
		value string
		dst   *float64
	}{
		{"margin_top", c.Page.MarginTop, &g.TopMargin},
		{"margin_bottom", c.Page.MarginBottom, &g.BottomMargin},
		{"margin_side", c.Page.MarginSide, &g.SideMargin},
		{"line_height", c.Page.LineHeight, &g.LineHeight},
		{"label_width", c.Page.LabelWidth, &g.LabelWidth},
	} {
		if strings.TrimSpace(o.value) == "" {
			continue
		}
		l, perr := layout.ParseLength(o.value)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("page.%s: %w", o.name, perr))
			continue
		}
		*o.dst = l.ToMM()
	}
	if err != nil {
		return g, err
	}
	if verr := g.Validate(); verr != nil {
		return g, fmt.Errorf("页面几何配置无效: %w", verr)
	}
	return g, nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool { return c.LogLevel == "debug" }

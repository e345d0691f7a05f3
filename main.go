package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Shivashangarim20/caseX-PDF-sub000/caseform"
	"github.com/Shivashangarim20/caseX-PDF-sub000/config"
	"github.com/Shivashangarim20/caseX-PDF-sub000/dsl"
	"github.com/Shivashangarim20/caseX-PDF-sub000/export"
	"github.com/Shivashangarim20/caseX-PDF-sub000/layout"
	"github.com/Shivashangarim20/caseX-PDF-sub000/templates"
)

var version = "dev"

func main() {
	cfg, err := config.Load(os.Args[1:])
	switch {
	case errors.Is(err, pflag.ErrHelp):
		return
	case errors.Is(err, config.ErrVersion):
		fmt.Printf("casepdf %s\n", version)
		return
	case err != nil:
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	if cfg.List {
		for _, name := range templates.List() {
			fmt.Println(name)
		}
		return
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "配置无效: %v\n", err)
		os.Exit(2)
	}

	log, err := config.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("生成 PDF 失败", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

// run 导出一次；开启 watch 时在模板或病例记录变化后重新导出，直到收到中断信号。
func run(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	geo, err := cfg.Geometry()
	if err != nil {
		return err
	}
	if _, err := exportOnce(cfg, geo, log); err != nil {
		if !cfg.Watch {
			return err
		}
		log.Error("导出失败，等待文件变化", zap.Error(err))
	}
	if !cfg.Watch {
		return nil
	}

	var paths []string
	if cfg.Data != "" {
		paths = append(paths, cfg.Data)
	}
	if isFile(cfg.Template) {
		paths = append(paths, cfg.Template)
	}
	if len(paths) == 0 {
		return errors.New("watch 模式需要病例记录文件或模板文件")
	}
	log.Info("监听文件变化", zap.Strings("paths", paths))
	return export.Watch(ctx, paths, export.DefaultDebounce, log, func() {
		if _, err := exportOnce(cfg, geo, log); err != nil {
			log.Error("导出失败", zap.Error(err))
		}
	})
}

// exportOnce 串联模板解析、记录编译、排版与保存。
func exportOnce(cfg *config.Config, geo layout.Geometry, log *zap.Logger) (*export.Outcome, error) {
	tpl, err := loadTemplate(cfg.Template)
	if err != nil {
		return nil, err
	}

	record := map[string]any{}
	if cfg.Data != "" {
		if record, err = caseform.LoadRecord(cfg.Data); err != nil {
			return nil, err
		}
	}

	compiled, err := caseform.Compile(tpl, record)
	if err != nil {
		return nil, fmt.Errorf("编译模板失败: %w", err)
	}
	if cfg.IsDebug() {
		for _, p := range compiled.Unresolved {
			log.Debug("病例记录缺少字段", zap.String("path", p))
		}
	}

	doc := compiled.Document
	reportID := uuid.NewString()
	doc.Meta.Keywords = append(doc.Meta.Keywords, "report-id:"+reportID)
	doc.Meta.Creator = "casepdf " + version

	target, err := export.NewTarget(geo, export.Options{
		Backend:     cfg.Backend,
		FontRegular: cfg.Font.Regular,
		FontBold:    cfg.Font.Bold,
	})
	if err != nil {
		return nil, err
	}

	out := cfg.Out
	if out == "" {
		name := compiled.Filename
		if name == "" {
			name = doc.Title
		}
		out = export.FileName(name)
	}

	outcome, err := export.Export(doc, geo, target, out, layout.RenderOptions{Logger: log})
	if err != nil {
		return nil, err
	}
	log.Debug("排版完成",
		zap.String("report", reportID),
		zap.Int("pages", outcome.Summary.Pages),
		zap.Int("blocks", outcome.Summary.Blocks),
		zap.Int("suppressed", outcome.Summary.Suppressed),
		zap.Int("overflows", outcome.Summary.Overflows))

	if cfg.Debug != "" {
		if err := export.WriteDebug(target, cfg.Debug, geo, outcome.Summary); err != nil {
			return outcome, err
		}
	}
	return outcome, nil
}

// loadTemplate 优先按文件路径读取模板，否则查找同名内置模板。
func loadTemplate(name string) (*dsl.Template, error) {
	if isFile(name) {
		data, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("无法读取模板 %s: %w", name, err)
		}
		return dsl.ParseBytes(name, data)
	}
	if templates.Has(name) {
		src, err := templates.Source(name)
		if err != nil {
			return nil, err
		}
		return dsl.ParseBytes("builtin:"+name, src)
	}
	return nil, fmt.Errorf("模板 %s 不存在（使用 --list 查看内置模板）", name)
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

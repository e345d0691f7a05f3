package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce 合并编辑器保存时产生的连续事件。
const DefaultDebounce = 200 * time.Millisecond

const watchOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename

// Watch 监听 paths 中的文件，变化后（debounce 内的事件合并为一次）调用 fn，直到 ctx 结束。
// 监听的是文件所在目录，这样编辑器以重命名方式替换文件时也能收到事件。
func Watch(ctx context.Context, paths []string, debounce time.Duration, log *zap.Logger, fn func()) error {
	if log == nil {
		log = zap.NewNop()
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer w.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		targets[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("监听目录 %s 失败: %w", dir, err)
		}
		dirs[dir] = true
	}
	if len(targets) == 0 {
		return fmt.Errorf("没有可监听的文件")
	}

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("文件监听出错", zap.Error(err))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&watchOps == 0 {
				continue
			}
			name, err := filepath.Abs(ev.Name)
			if err != nil || !targets[name] {
				continue
			}
			log.Debug("文件变化", zap.String("path", name), zap.Stringer("op", ev.Op))
			timer.Reset(debounce)

		case <-timer.C:
			fn()
		}
	}
}

package main

import (
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/qmuntal/gltf"
)

const debounce = 250 * time.Millisecond

// watchTargets 输入文件以及它引用的外部 buffer 和图片
func watchTargets(input string) []string {
	targets := []string{filepath.Clean(input)}
	doc, err := gltf.Open(input)
	if err != nil {
		return targets
	}
	dir := filepath.Dir(input)
	seen := map[string]bool{targets[0]: true}
	add := func(uri string) {
		if uri == "" || strings.HasPrefix(uri, "data:") {
			return
		}
		if p, err := url.PathUnescape(uri); err == nil {
			uri = p
		}
		p := filepath.Clean(filepath.Join(dir, filepath.FromSlash(uri)))
		if !seen[p] {
			seen[p] = true
			targets = append(targets, p)
		}
	}
	for _, b := range doc.Buffers {
		add(b.URI)
	}
	for _, img := range doc.Images {
		add(img.URI)
	}
	return targets
}

// watch 先执行一次 fn，之后输入或其引用的文件每次变化都重新执行，直到中断；失败只记日志
func watch(input string, logger *log.Logger, fn func() error) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	targets := map[string]bool{}
	dirs := map[string]bool{}
	refresh := func() error {
		for k := range targets {
			delete(targets, k)
		}
		for _, t := range watchTargets(input) {
			targets[t] = true
			// 编辑器常常替换文件，所以监听目录
			d := filepath.Dir(t)
			if dirs[d] {
				continue
			}
			if err := w.Add(d); err != nil {
				return err
			}
			dirs[d] = true
		}
		return nil
	}
	if err := refresh(); err != nil {
		return err
	}

	run := func() {
		if err := fn(); err != nil {
			logger.Error("conversion failed", "input", input, "err", err)
		}
		if err := refresh(); err != nil {
			logger.Warn("watch error", "err", err)
		}
	}
	run()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	var timer <-chan time.Time
	logger.Info("watching", "input", input, "files", len(targets))
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !targets[filepath.Clean(ev.Name)] {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				timer = time.After(debounce)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		case <-timer:
			timer = nil
			run()
		case <-sig:
			return nil
		}
	}
}

package task

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitee.com/taoJie_1/mall-advisor/global"
	"gitee.com/taoJie_1/mall-advisor/utils"
)

// CleanUpLogs 删除超过保留天数的按天日志文件
func (m *Manager) CleanUpLogs() error {
	days := global.Config.LogRetentionDays
	if days == 0 {
		return nil
	}

	now := time.Now().In(global.Tz)
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, global.Tz).AddDate(0, 0, -int(days))

	var (
		deleted int
		errs    []error
	)
	for _, logPath := range []string{global.Config.RunLogPath, global.Config.GinLogPath} {
		n, err := removeLogsBefore(logPath, cutoff)
		deleted += n
		if err != nil {
			errs = append(errs, err)
		}
	}

	if deleted > 0 {
		global.Log.Infof("日志清理完成, 删除 %d 个文件", deleted)
	}
	return errors.Join(errs...)
}

// removeLogsBefore 只处理 logPath 对应的 <文件名>.YYYY-MM-DD
func removeLogsBefore(logPath string, cutoff time.Time) (int, error) {
	if logPath == "" {
		return 0, nil
	}
	dir, base := filepath.Dir(logPath), filepath.Base(logPath)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("读取日志目录 '%s' 失败: %w", dir, err)
	}

	var (
		deleted int
		errs    []error
	)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), base+".") {
			continue
		}
		date, ok := utils.ParseDateFromLogFileName(e.Name(), global.Tz)
		if !ok || !date.Before(cutoff) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("删除旧日志文件 %s 失败: %w", path, err))
			continue
		}
		deleted++
	}
	return deleted, errors.Join(errs...)
}

package placement

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/scanner"
)

// Mover 将文件移动到目标目录，目标目录中已有同名文件时自动添加序号后缀
type Mover struct {
	Fs afero.Fs
}

func NewMover(fs afero.Fs) *Mover {
	return &Mover{Fs: fs}
}

// DatedFolder 返回 root/<年>/<月>/segments...
func DatedFolder(root string, t time.Time, yearSuffix, monthSuffix string, segments ...string) string {
	parts := make([]string, 0, len(segments)+3)
	parts = append(parts, root, strconv.Itoa(t.Year())+yearSuffix, strconv.Itoa(int(t.Month()))+monthSuffix)
	parts = append(parts, segments...)
	return filepath.Join(parts...)
}

// Resolve 返回 destFolder 中第一个未被占用的路径：
// name.ext, name_1.ext, name_2.ext ...
func (m *Mover) Resolve(destFolder, filename string) (string, error) {
	destPath := filepath.Join(destFolder, filename)

	stem, ext := scanner.SplitExt(filename)

	for i := 1; ; i++ {
		exists, err := afero.Exists(m.Fs, destPath)
		if err != nil {
			return "", fmt.Errorf("检查文件是否存在失败: %w", err)
		}
		if !exists {
			return destPath, nil
		}
		destPath = filepath.Join(destFolder, stem+"_"+strconv.Itoa(i)+ext)
	}
}

// MoveFile 确保 destFolder 存在，解决文件名冲突后移动文件，返回最终路径
func (m *Mover) MoveFile(sourcePath, destFolder, filename string) (string, error) {
	if err := m.Fs.MkdirAll(destFolder, 0755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}

	destPath, err := m.Resolve(destFolder, filename)
	if err != nil {
		return "", err
	}

	if destPath != filepath.Join(destFolder, filename) {
		logger.Get().Debug().
			Str("file", filename).
			Str("new_name", filepath.Base(destPath)).
			Msg("文件名冲突，自动重命名")
	}

	if err := m.move(sourcePath, destPath); err != nil {
		return "", fmt.Errorf("移动文件 %s 失败: %w", filename, err)
	}

	logger.Get().Info().
		Str("file", filename).
		Str("dest", destFolder).
		Msg("已移动")

	return destPath, nil
}

// move 使用 rename；跨设备时回退为复制后删除
func (m *Mover) move(src, dst string) error {
	err := m.Fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	logger.Get().Debug().
		Err(err).
		Str("source", src).
		Str("destination", dst).
		Msg("直接重命名失败，尝试复制后删除")

	return m.copyThenRemove(src, dst)
}

func (m *Mover) copyThenRemove(src, dst string) error {
	info, err := m.Fs.Stat(src)
	if err != nil {
		return fmt.Errorf("读取源文件信息失败: %w", err)
	}

	if err := m.copyFile(src, dst, info.Mode().Perm()); err != nil {
		_ = m.Fs.Remove(dst)
		return err
	}

	if err := m.Fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		_ = m.Fs.Remove(dst)
		return fmt.Errorf("恢复修改时间失败: %w", err)
	}

	if err := m.Fs.Remove(src); err != nil {
		return fmt.Errorf("删除原文件失败: %w", err)
	}
	return nil
}

func (m *Mover) copyFile(src, dst string, perm os.FileMode) error {
	sourceFile, err := m.Fs.Open(src)
	if err != nil {
		return fmt.Errorf("打开源文件失败: %w", err)
	}
	defer sourceFile.Close()

	destFile, err := m.Fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return fmt.Errorf("创建目标文件失败: %w", err)
	}

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		destFile.Close()
		return fmt.Errorf("复制文件内容失败: %w", err)
	}

	if err := destFile.Close(); err != nil {
		return fmt.Errorf("写入目标文件失败: %w", err)
	}
	return nil
}

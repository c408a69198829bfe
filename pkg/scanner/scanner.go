package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/pkg/logger"
)

// Entry 描述源目录中的一个普通文件
type Entry struct {
	Path    string
	Name    string
	Ext     string
	ModTime time.Time
	Size    int64
}

type DirLister struct {
	Fs afero.Fs
}

func NewDirLister(fs afero.Fs) *DirLister {
	return &DirLister{Fs: fs}
}

// ListFiles 列出 dir 下一层的普通文件，目录和其他特殊文件被跳过。
// 符号链接按其指向的目标判断。结果按文件名排序。
func (l *DirLister) ListFiles(dir string) ([]Entry, error) {
	infos, err := afero.ReadDir(l.Fs, dir)
	if err != nil {
		return nil, fmt.Errorf("读取目录 %s: %w", dir, err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		path := filepath.Join(dir, info.Name())

		if info.Mode()&os.ModeSymlink != 0 {
			target, err := l.Fs.Stat(path)
			if err != nil {
				logger.Get().Debug().Err(err).Str("path", path).Msg("跳过失效的符号链接")
				continue
			}
			info = target
		}

		if !info.Mode().IsRegular() {
			logger.Get().Trace().Str("path", path).Msg("跳过非普通文件")
			continue
		}

		_, ext := SplitExt(info.Name())
		entries = append(entries, Entry{
			Path:    path,
			Name:    info.Name(),
			Ext:     ext,
			ModTime: info.ModTime(),
			Size:    info.Size(),
		})
	}

	return entries, nil
}

package organizer

import (
	"fmt"
	"io"

	"github.com/h2non/filetype"
)

// 文件类型检测所需的文件头部大小（字节）
const fileHeaderSize = 261

// sniffExtension 读取文件头部识别类型，返回带前导点的扩展名；无法识别时返回空字符串
func (o *Organizer) sniffExtension(filePath string) (string, error) {
	head, err := o.readFileHeader(filePath, fileHeaderSize)
	if err != nil {
		return "", fmt.Errorf("读取文件头部失败: %w", err)
	}
	if len(head) == 0 {
		return "", nil
	}

	kind, err := filetype.Match(head)
	if err != nil {
		return "", fmt.Errorf("检测文件类型失败: %w", err)
	}
	if kind == filetype.Unknown || kind.Extension == "" {
		return "", nil
	}
	return "." + kind.Extension, nil
}

func (o *Organizer) readFileHeader(filePath string, size int) ([]byte, error) {
	file, err := o.fs.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	head := make([]byte, size)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, err
	}
	return head[:n], nil
}

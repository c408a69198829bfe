package scanner

import "strings"

// SplitExt 将文件名拆分为主名和扩展名（含前导点）。
// 开头的点属于主名，因此 ".env" 没有扩展名，".a.png" 拆分为 ".a" 和 ".png"。
func SplitExt(name string) (stem, ext string) {
	i := 0
	for i < len(name) && name[i] == '.' {
		i++
	}
	dot := strings.LastIndexByte(name[i:], '.')
	if dot < 0 {
		return name, ""
	}
	dot += i
	return name[:dot], name[dot:]
}

package internal

const (
	// 阶段名称
	PhaseArchive  = "archive"
	PhaseOrganize = "organize"

	// 年月目录的默认后缀
	DefaultYearSuffix  = "年"
	DefaultMonthSuffix = "月"

	// 归档默认值
	DefaultArchiveDays       = 30
	DefaultArchiveFolderName = "長期保管（アーカイブ）"

	// 目标目录默认位于 ~/Documents 下的该子目录
	DefaultDestinationSubfolder = "整理済みファイル"

	// 配置文件搜索目录，按顺序查找 config.yaml
	DefaultConfigDir = "$HOME/.file-organizer"
	SystemConfigDir  = "/etc/file-organizer"
)

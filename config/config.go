package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/rules"
)

const EnvPrefix = "FILE_ORGANIZER"

type KeywordRule struct {
	Keyword string `mapstructure:"keyword"`
	Folder  string `mapstructure:"folder"`
}

// ExtensionGroup 一组扩展名共享同一个分类目录
type ExtensionGroup struct {
	Folder     string   `mapstructure:"folder"`
	Extensions []string `mapstructure:"extensions"`
}

type Config struct {
	WatchFolder           string `mapstructure:"watch_folder"`
	DestinationBaseFolder string `mapstructure:"destination_base_folder"`
	DryRun                bool   `mapstructure:"dry_run"`
	Archive               struct {
		Days       int    `mapstructure:"days"`
		FolderName string `mapstructure:"folder_name"`
	} `mapstructure:"archive"`
	Rules struct {
		Keywords     []KeywordRule    `mapstructure:"keywords"`
		Extensions   []ExtensionGroup `mapstructure:"extensions"`
		SniffContent bool             `mapstructure:"sniff_content"`
	} `mapstructure:"rules"`
	Layout struct {
		YearSuffix  string `mapstructure:"year_suffix"`
		MonthSuffix string `mapstructure:"month_suffix"`
	} `mapstructure:"layout"`
	Logging struct {
		Level string `mapstructure:"level"`
		File  string `mapstructure:"file"`
	} `mapstructure:"logging"`
}

// ValidationError 配置内容不合法
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("配置项 %s 无效: %s", e.Field, e.Reason)
}

var defaultKeywordRules = []KeywordRule{
	{Keyword: "請求書", Folder: "01_請求書"},
	{Keyword: "見積書", Folder: "02_見積書"},
	{Keyword: "議事録", Folder: "03_会議資料"},
	{Keyword: "receipt", Folder: "04_領収書"},
}

var defaultExtensionGroups = []ExtensionGroup{
	{Folder: "画像", Extensions: []string{".jpg", ".jpeg", ".png", ".gif", ".bmp"}},
	{Folder: "書類", Extensions: []string{".pdf", ".docx", ".xlsx", ".pptx", ".txt"}},
	{Folder: "圧縮ファイル", Extensions: []string{".zip", ".rar"}},
	{Folder: "インストーラー", Extensions: []string{".exe", ".msi"}},
}

// NewViper 返回设置好默认值、搜索路径和环境变量前缀的 viper 实例
func NewViper() *viper.Viper {
	v := viper.New()

	v.SetConfigName("config")
	v.AddConfigPath(internal.DefaultConfigDir)
	v.AddConfigPath(".")
	v.AddConfigPath(internal.SystemConfigDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("watch_folder", filepath.Join(home, "Downloads"))
	v.SetDefault("destination_base_folder", filepath.Join(home, "Documents", internal.DefaultDestinationSubfolder))
	v.SetDefault("dry_run", false)
	v.SetDefault("archive.days", internal.DefaultArchiveDays)
	v.SetDefault("archive.folder_name", internal.DefaultArchiveFolderName)
	v.SetDefault("rules.keywords", keywordDefaults())
	v.SetDefault("rules.extensions", extensionDefaults())
	v.SetDefault("rules.sniff_content", false)
	v.SetDefault("layout.year_suffix", internal.DefaultYearSuffix)
	v.SetDefault("layout.month_suffix", internal.DefaultMonthSuffix)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "")

	return v
}

func keywordDefaults() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(defaultKeywordRules))
	for _, r := range defaultKeywordRules {
		out = append(out, map[string]interface{}{"keyword": r.Keyword, "folder": r.Folder})
	}
	return out
}

func extensionDefaults() []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(defaultExtensionGroups))
	for _, g := range defaultExtensionGroups {
		exts := make([]interface{}, 0, len(g.Extensions))
		for _, e := range g.Extensions {
			exts = append(exts, e)
		}
		out = append(out, map[string]interface{}{"folder": g.Folder, "extensions": exts})
	}
	return out
}

// Load 读取配置。file 为空时在默认路径中搜索 config.yaml，找不到则使用默认值；
// file 不为空时该文件必须存在。
func Load(v *viper.Viper, file string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if file != "" {
		path, err := ExpandPath(file)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置: %w", err)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() error {
	var err error
	if c.WatchFolder, err = ExpandPath(c.WatchFolder); err != nil {
		return err
	}
	if c.DestinationBaseFolder, err = ExpandPath(c.DestinationBaseFolder); err != nil {
		return err
	}
	if c.Logging.File, err = ExpandPath(c.Logging.File); err != nil {
		return err
	}
	for i, g := range c.Rules.Extensions {
		for j, ext := range g.Extensions {
			c.Rules.Extensions[i].Extensions[j] = strings.ToLower(strings.TrimSpace(ext))
		}
	}
	return nil
}

// Validate 检查配置是否可用
func (c *Config) Validate() error {
	if c.WatchFolder == "" {
		return &ValidationError{Field: "watch_folder", Reason: "不能为空"}
	}
	if c.DestinationBaseFolder == "" {
		return &ValidationError{Field: "destination_base_folder", Reason: "不能为空"}
	}
	if c.Archive.Days < 0 {
		return &ValidationError{Field: "archive.days", Reason: "不能为负数"}
	}
	if strings.TrimSpace(c.Archive.FolderName) == "" {
		return &ValidationError{Field: "archive.folder_name", Reason: "不能为空"}
	}
	if err := validFolderName("archive.folder_name", c.Archive.FolderName); err != nil {
		return err
	}

	for i, r := range c.Rules.Keywords {
		field := fmt.Sprintf("rules.keywords[%d]", i)
		if r.Keyword == "" {
			return &ValidationError{Field: field, Reason: "关键字不能为空"}
		}
		if err := validFolderName(field, r.Folder); err != nil {
			return err
		}
	}

	seen := make(map[string]string)
	for i, g := range c.Rules.Extensions {
		field := fmt.Sprintf("rules.extensions[%d]", i)
		if err := validFolderName(field, g.Folder); err != nil {
			return err
		}
		for _, ext := range g.Extensions {
			if len(ext) < 2 || !strings.HasPrefix(ext, ".") {
				return &ValidationError{Field: field, Reason: fmt.Sprintf("扩展名 %q 必须以点开头", ext)}
			}
			if prev, ok := seen[ext]; ok && prev != g.Folder {
				return &ValidationError{Field: field, Reason: fmt.Sprintf("扩展名 %s 同时属于 %s 和 %s", ext, prev, g.Folder)}
			}
			seen[ext] = g.Folder
		}
	}

	return nil
}

func validFolderName(field, name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: field, Reason: "目录名不能为空"}
	}
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return &ValidationError{Field: field, Reason: fmt.Sprintf("目录名 %q 不能包含路径分隔符", name)}
	}
	return nil
}

// RuleSet 根据配置构建分类规则
func (c *Config) RuleSet() *rules.RuleSet {
	keywords := make([]rules.KeywordRule, 0, len(c.Rules.Keywords))
	for _, r := range c.Rules.Keywords {
		keywords = append(keywords, rules.KeywordRule{Keyword: r.Keyword, Folder: r.Folder})
	}

	extensions := make(map[string]string)
	for _, g := range c.Rules.Extensions {
		for _, ext := range g.Extensions {
			extensions[ext] = g.Folder
		}
	}

	return rules.New(keywords, extensions)
}

// ExpandPath 展开以 ~/ 开头的路径
func ExpandPath(path string) (string, error) {
	if len(path) >= 2 && path[0] == '~' && (path[1] == '/' || path[1] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}
